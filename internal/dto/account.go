package dto

import (
	"time"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string               `json:"code" binding:"required,max=20"`
	Name            string               `json:"name" binding:"required"`
	AccountType     domain.AccountType   `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Subtype         string               `json:"subtype"`
	NormalBalance   domain.NormalBalance `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"` // defaults from accountType
	ParentAccountID *string              `json:"parentAccountID"`                                       // Optional, use pointer for nullability
	Description     string               `json:"description"`
	OpeningBalance  decimal.Decimal      `json:"openingBalance"`
	IsSystemAccount bool                 `json:"isSystemAccount"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name            *string `json:"name"`
	Subtype         *string `json:"subtype"`
	Description     *string `json:"description"`
	ParentAccountID *string `json:"parentAccountID"` // empty string clears the parent
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string               `json:"accountID"`
	Code            string               `json:"code"`
	Name            string               `json:"name"`
	AccountType     domain.AccountType   `json:"accountType"`
	Subtype         string               `json:"subtype"`
	NormalBalance   domain.NormalBalance `json:"normalBalance"`
	ParentAccountID string               `json:"parentAccountID"` // Note: Empty string if null in DB
	Description     string               `json:"description"`
	OpeningBalance  decimal.Decimal      `json:"openingBalance"`
	CurrentBalance  decimal.Decimal      `json:"currentBalance"`
	IsActive        bool                 `json:"isActive"`
	IsSystemAccount bool                 `json:"isSystemAccount"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
	LastUpdatedAt   time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy   string               `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		Subtype:         acc.Subtype,
		NormalBalance:   acc.NormalBalance,
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		OpeningBalance:  acc.OpeningBalance,
		CurrentBalance:  acc.CurrentBalance,
		IsActive:        acc.IsActive,
		IsSystemAccount: acc.IsSystemAccount,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Type       string `form:"type" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ActiveOnly bool   `form:"activeOnly"`
	ParentID   string `form:"parentID"`
	Limit      int    `form:"limit,default=100" binding:"min=1,max=500"`
	Offset     int    `form:"offset,default=0" binding:"min=0"`
}

// ToFilter converts query parameters into a repository filter.
func (p ListAccountsParams) ToFilter() domain.AccountFilter {
	f := domain.AccountFilter{
		ActiveOnly:      p.ActiveOnly,
		ParentAccountID: p.ParentID,
		Limit:           p.Limit,
		Offset:          p.Offset,
	}
	if p.Type != "" {
		f.Types = []domain.AccountType{domain.AccountType(p.Type)}
	}
	return f
}

// BalanceDriftResponse is one drifted account.
type BalanceDriftResponse struct {
	AccountID  string          `json:"accountID"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Cached     decimal.Decimal `json:"cached"`
	Computed   decimal.Decimal `json:"computed"`
	Difference decimal.Decimal `json:"difference"`
}

// ReconciliationResponse is the result of a balance reconciliation run.
type ReconciliationResponse struct {
	CheckedAccounts int                    `json:"checkedAccounts"`
	Drifts          []BalanceDriftResponse `json:"drifts"`
	Repaired        bool                   `json:"repaired"`
	RunAt           time.Time              `json:"runAt"`
}

// ToReconciliationResponse converts a domain reconciliation result.
func ToReconciliationResponse(r *domain.ReconciliationResult) ReconciliationResponse {
	res := ReconciliationResponse{
		CheckedAccounts: r.CheckedAccounts,
		Drifts:          make([]BalanceDriftResponse, len(r.Drifts)),
		Repaired:        r.Repaired,
		RunAt:           r.RunAt,
	}
	for i, d := range r.Drifts {
		res.Drifts[i] = BalanceDriftResponse(d)
	}
	return res
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ReconcileParams controls a reconciliation run.
type ReconcileParams struct {
	Repair bool `form:"repair"`
}
