package apperrors

import (
	"fmt"

	"github.com/SscSPs/member_ledger_app/internal/utils"
	"github.com/shopspring/decimal"
)

// DuplicateCodeError is returned when an account code is already taken.
type DuplicateCodeError struct {
	Code string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("account code %q already exists", e.Code)
}

func (e *DuplicateCodeError) Unwrap() error { return ErrDuplicate }

// AccountNotConfiguredError is returned when a well-known account role cannot be resolved.
type AccountNotConfiguredError struct {
	Role string
	Code string
}

func (e *AccountNotConfiguredError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("no account mapped for role %q", e.Role)
	}
	return fmt.Sprintf("account %s for role %q is missing or inactive", e.Code, e.Role)
}

func (e *AccountNotConfiguredError) Unwrap() error { return ErrNotConfigured }

// HasChildrenError blocks deleting an account that is a parent.
type HasChildrenError struct {
	AccountID string
	Children  int
}

func (e *HasChildrenError) Error() string {
	return fmt.Sprintf("account %s has %d child account(s)", e.AccountID, e.Children)
}

func (e *HasChildrenError) Unwrap() error { return ErrConflict }

// HasActivityError blocks deleting an account referenced by journal lines.
type HasActivityError struct {
	AccountID string
}

func (e *HasActivityError) Error() string {
	return fmt.Sprintf("account %s has journal activity", e.AccountID)
}

func (e *HasActivityError) Unwrap() error { return ErrConflict }

// SystemAccountError blocks edits to protected system accounts.
type SystemAccountError struct {
	AccountID string
	Operation string
}

func (e *SystemAccountError) Error() string {
	return fmt.Sprintf("cannot %s system account %s", e.Operation, e.AccountID)
}

func (e *SystemAccountError) Unwrap() error { return ErrConflict }

// NotEditableError is returned when a non-draft entry is mutated or posted.
type NotEditableError struct {
	EntryID string
	Status  string
}

func (e *NotEditableError) Error() string {
	return fmt.Sprintf("journal entry %s is %s and cannot be modified", e.EntryID, e.Status)
}

func (e *NotEditableError) Unwrap() error { return ErrConflict }

// NotPostedError is returned when reversing an entry that is not posted.
type NotPostedError struct {
	EntryID string
	Status  string
}

func (e *NotPostedError) Error() string {
	return fmt.Sprintf("journal entry %s is %s, only posted entries can be reversed", e.EntryID, e.Status)
}

func (e *NotPostedError) Unwrap() error { return ErrConflict }

// UnbalancedEntryError reports debit and credit totals that do not match.
type UnbalancedEntryError struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("journal entry does not balance: debit %s, credit %s", e.Debit.StringFixed(2), e.Credit.StringFixed(2))
}

func (e *UnbalancedEntryError) Unwrap() error { return ErrValidation }

// InsufficientLinesError is returned when an entry has fewer than two lines.
type InsufficientLinesError struct {
	Count int
}

func (e *InsufficientLinesError) Error() string {
	return fmt.Sprintf("journal entry needs at least 2 lines, has %d", e.Count)
}

func (e *InsufficientLinesError) Unwrap() error { return ErrValidation }

// InsufficientFundsError is returned when an outflow exceeds the cash balance.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
	Shortfall decimal.Decimal
}

// NewInsufficientFundsError computes the shortfall from required and available.
func NewInsufficientFundsError(required, available decimal.Decimal) *InsufficientFundsError {
	return &InsufficientFundsError{
		Required:  required,
		Available: available,
		Shortfall: required.Sub(available),
	}
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient cash balance: required %s, available %s, shortfall %s",
		utils.FormatAmount(e.Required), utils.FormatAmount(e.Available), utils.FormatAmount(e.Shortfall))
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }
