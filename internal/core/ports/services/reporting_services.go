package services

import (
	"context"
	"time"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance generates a trial balance as of a date, optionally limited to account types
	TrialBalance(ctx context.Context, asOf time.Time, types ...domain.AccountType) (*domain.TrialBalanceReport, error)

	// GeneralLedger lists posted lines of one account with running balances
	GeneralLedger(ctx context.Context, accountID string, from, to *time.Time) (*domain.GeneralLedgerReport, error)

	// BalanceSheet generates a balance sheet as of a date
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)

	// IncomeStatement generates revenue and expense activity for a period
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error)

	// CashFlow generates a direct-method cash flow statement for a period
	CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error)
}
