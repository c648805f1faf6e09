package repositories

import (
	"context"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntryByID retrieves an entry with its lines ordered by line_order.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves entry headers newest first.
	ListEntries(ctx context.Context, filter domain.JournalEntryFilter) ([]domain.JournalEntry, error)
}

// JournalRepositoryWithTx combines journal reads with transactional ledger writes
type JournalRepositoryWithTx interface {
	JournalReader
	TransactionRunner
}
