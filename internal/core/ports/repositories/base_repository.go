package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerTx is the set of writes that must share one database transaction.
// Only the posting engine and the journal entry store use it.
type LedgerTx interface {
	// LockAccountsForUpdate selects and row-locks accounts in ascending ID order.
	// A missing ID yields apperrors.ErrNotFound.
	LockAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceDeltas atomically adds each delta to current_balance.
	ApplyBalanceDeltas(ctx context.Context, deltas map[string]decimal.Decimal, userID string, now time.Time) error

	// SetAccountBalances overwrites current_balance, used by reconciliation repair.
	SetAccountBalances(ctx context.Context, balances map[string]decimal.Decimal, userID string, now time.Time) error

	// PostedActivity aggregates posted lines per account as seen by this transaction.
	PostedActivity(ctx context.Context, filter domain.ActivityFilter) ([]domain.AccountActivity, error)

	// NextEntryNumber allocates the next JE-YYYYMMDD-NNN number for day.
	NextEntryNumber(ctx context.Context, day time.Time) (string, error)

	// InsertEntry persists a header and its lines.
	InsertEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntryHeader writes header fields, status and lifecycle stamps.
	UpdateEntryHeader(ctx context.Context, entry domain.JournalEntry) error

	// ReplaceLines deletes every line of the entry and inserts lines.
	ReplaceLines(ctx context.Context, entryID string, lines []domain.JournalLine) error

	// DeleteEntry removes an entry and its lines.
	DeleteEntry(ctx context.Context, entryID string) error

	// LockEntry selects an entry FOR UPDATE together with its lines.
	LockEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
}

// TransactionRunner runs fn inside one database transaction.
// fn's error, or a panic, rolls the transaction back.
type TransactionRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
