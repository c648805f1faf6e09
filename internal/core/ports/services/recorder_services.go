package services

import (
	"context"
	"time"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecorderSvc turns business events into auto-posted journal entries.
// A nil entry with a nil error means the required accounts are not configured
// and recording was skipped.
type RecorderSvc interface {
	RecordContribution(ctx context.Context, memberID string, amount decimal.Decimal, date time.Time, purpose string, actorID string) (*domain.JournalEntry, error)
	RecordPayment(ctx context.Context, memberID string, amount decimal.Decimal, date time.Time, purpose string, actorID string) (*domain.JournalEntry, error)

	// Outflows return *apperrors.InsufficientFundsError when cash does not cover amount.
	RecordDisasterPayment(ctx context.Context, memberID string, amount decimal.Decimal, date time.Time, purpose string, actorID string) (*domain.JournalEntry, error)
	RecordExpense(ctx context.Context, amount decimal.Decimal, date time.Time, category string, description string, actorID string) (*domain.JournalEntry, error)
	RecordLoanDisbursement(ctx context.Context, memberID string, amount decimal.Decimal, purpose string, actorID string) (*domain.JournalEntry, error)

	RecordLoanRepayment(ctx context.Context, memberID string, principal decimal.Decimal, interest decimal.Decimal, actorID string) (*domain.JournalEntry, error)
	RecordPenaltyPayment(ctx context.Context, memberID string, amount decimal.Decimal, reason string, month string, actorID string) (*domain.JournalEntry, error)
}
