package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
)

// ReportingRepository defines read-only aggregations over posted ledger lines
type ReportingRepository interface {
	// AccountActivity returns every matching account with its posted debit and credit sums in the window.
	AccountActivity(ctx context.Context, filter domain.ActivityFilter) ([]domain.AccountActivity, error)

	// LedgerLines returns posted lines of one account in creation order.
	LedgerLines(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerLine, error)

	// CashEntryLines returns every line of posted entries in the window that touch a cash account.
	CashEntryLines(ctx context.Context, cashAccountIDs []string, from, to time.Time) ([]domain.CashEntryLine, error)
}
