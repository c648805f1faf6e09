package services

import (
	"context"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	"github.com/SscSPs/member_ledger_app/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntry retrieves an entry with its lines.
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entry headers, newest first.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines draft mutations
type JournalWriterSvc interface {
	// CreateDraft stores a new, possibly unbalanced, draft entry.
	CreateDraft(ctx context.Context, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error)

	// UpdateDraft replaces the header and all lines of a draft.
	UpdateDraft(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, actorID string) (*domain.JournalEntry, error)

	// DeleteDraft removes a draft and its lines.
	DeleteDraft(ctx context.Context, entryID string, actorID string) error
}

// PostingSvc moves entries through the posting state machine
type PostingSvc interface {
	// Post validates a draft and applies it to account balances.
	Post(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error)

	// Reverse posts a compensating entry and marks the original reversed.
	// It returns the new reversal entry.
	Reverse(ctx context.Context, entryID string, reason string, actorID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	PostingSvc
}
