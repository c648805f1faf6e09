package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AllAccountTypes lists the account types in chart order.
var AllAccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// NormalBalance is the side on which an account's balance increases.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// IsValid reports whether n is DEBIT or CREDIT.
func (n NormalBalance) IsValid() bool {
	return n == NormalDebit || n == NormalCredit
}

// DefaultNormalBalance returns the conventional normal balance for an account type.
func DefaultNormalBalance(t AccountType) NormalBalance {
	switch t {
	case Asset, Expense:
		return NormalDebit
	default:
		return NormalCredit
	}
}

// Well-known subtypes used by the reporting engine.
const (
	SubtypeCash           = "cash"
	SubtypeReceivable     = "receivable"
	SubtypePayable        = "payable"
	SubtypeFixedAsset     = "fixed_asset"
	SubtypeInvestment     = "investment"
	SubtypeLoan           = "loan"
	SubtypeLoanReceivable = "loan_receivable"
	SubtypeDebt           = "debt"
)

// Account represents a ledger account within the chart of accounts.
type Account struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	Subtype         string          `json:"subtype"`
	NormalBalance   NormalBalance   `json:"normalBalance"`
	ParentAccountID string          `json:"parentAccountID"` // empty when top level
	Description     string          `json:"description"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"` // opening + posted effects, maintained by posting
	IsActive        bool            `json:"isActive"`
	IsSystemAccount bool            `json:"isSystemAccount"`
	AuditFields
}

// SignedEffect returns how much a line with the given debit and credit moves this account's balance.
func (a Account) SignedEffect(debit, credit decimal.Decimal) decimal.Decimal {
	return SignedEffect(a.NormalBalance, debit, credit)
}

// SignedEffect applies the normal-balance rule: debit-normal accounts grow by
// debit minus credit, credit-normal accounts by credit minus debit.
func SignedEffect(normal NormalBalance, debit, credit decimal.Decimal) decimal.Decimal {
	if normal == NormalCredit {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	Types           []AccountType
	ActiveOnly      bool
	ParentAccountID string
	Limit           int
	Offset          int
}

// ChartAccount describes an account in a chart-of-accounts seed file.
type ChartAccount struct {
	Code           string          `yaml:"code"`
	Name           string          `yaml:"name"`
	Type           AccountType     `yaml:"type"`
	Subtype        string          `yaml:"subtype"`
	NormalBalance  NormalBalance   `yaml:"normal_balance"`
	ParentCode     string          `yaml:"parent"`
	Description    string          `yaml:"description"`
	OpeningBalance decimal.Decimal `yaml:"opening_balance"`
	IsSystem       bool            `yaml:"system"`
}
