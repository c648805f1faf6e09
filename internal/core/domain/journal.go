package domain

import (
	"fmt"
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

// BalanceTolerance absorbs rounding when comparing debit and credit totals.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// WithinTolerance reports whether |a-b| does not exceed BalanceTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(BalanceTolerance)
}

// AmountScale is the number of decimal places stored for an amount.
const AmountScale = 2

// HasAmountScale reports whether amount carries no more than AmountScale decimal places.
func HasAmountScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(AmountScale))
}

// FormatEntryNumber renders the human readable entry number for a day and sequence.
func FormatEntryNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("JE-%s-%03d", day.Format("20060102"), seq)
}

// JournalEntry is the header of a balanced accounting transaction.
type JournalEntry struct {
	JournalEntryID    string          `json:"journalEntryID"`
	EntryNumber       string          `json:"entryNumber"`
	EntryDate         time.Time       `json:"entryDate"`
	Reference         string          `json:"reference"`
	Description       string          `json:"description"`
	Status            JournalStatus   `json:"status"`
	TotalDebit        decimal.Decimal `json:"totalDebit"`
	TotalCredit       decimal.Decimal `json:"totalCredit"`
	IsSystemGenerated bool            `json:"isSystemGenerated"`
	PostedBy          string          `json:"postedBy,omitempty"`
	PostedAt          *time.Time      `json:"postedAt,omitempty"`
	ReversedBy        string          `json:"reversedBy,omitempty"`
	ReversedAt        *time.Time      `json:"reversedAt,omitempty"`
	ReversalReason    string          `json:"reversalReason,omitempty"`
	ReversalOfID      string          `json:"reversalOfID,omitempty"` // set on the compensating entry
	Lines             []JournalLine   `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is one debit or credit against a single account.
type JournalLine struct {
	LineID         string          `json:"lineID"`
	JournalEntryID string          `json:"journalEntryID"`
	AccountID      string          `json:"accountID"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	LineOrder      int             `json:"lineOrder"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Totals sums the debit and credit columns of lines.
func Totals(lines []JournalLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// IsBalanced reports whether the stored totals match within tolerance.
func (e JournalEntry) IsBalanced() bool {
	return WithinTolerance(e.TotalDebit, e.TotalCredit)
}

// AccountIDs returns the distinct account IDs referenced by the lines.
func (e JournalEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Lines))
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// JournalEntryFilter narrows journal entry listings.
type JournalEntryFilter struct {
	Status          JournalStatus
	From            *time.Time
	To              *time.Time
	ReferencePrefix string
	Limit           int
	AfterEntryDate  *time.Time // keyset cursor, entries strictly older than (EntryDate, CreatedAt)
	AfterCreatedAt  *time.Time
}

// DateOnly truncates t to its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
