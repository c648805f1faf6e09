package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	JournalEntryID    string          `db:"journal_entry_id"`
	EntryNumber       string          `db:"entry_number"`
	EntryDate         time.Time       `db:"entry_date"`
	Reference         string          `db:"reference"`
	Description       string          `db:"description"`
	Status            JournalStatus   `db:"status"`
	TotalDebit        decimal.Decimal `db:"total_debit"`
	TotalCredit       decimal.Decimal `db:"total_credit"`
	IsSystemGenerated bool            `db:"is_system_generated"`
	PostedBy          *string         `db:"posted_by"`
	PostedAt          *time.Time      `db:"posted_at"`
	ReversedBy        *string         `db:"reversed_by"`
	ReversedAt        *time.Time      `db:"reversed_at"`
	ReversalReason    *string         `db:"reversal_reason"`
	ReversalOfID      *string         `db:"reversal_of_id"`
	AuditFields
}

// JournalLine is a row of the journal_entry_lines table.
type JournalLine struct {
	LineID         string          `db:"line_id"`
	LineSeq        int64           `db:"line_seq"` // creation order
	JournalEntryID string          `db:"journal_entry_id"`
	AccountID      string          `db:"account_id"`
	Description    string          `db:"description"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	LineOrder      int             `db:"line_order"`
	CreatedAt      time.Time       `db:"created_at"`
}
