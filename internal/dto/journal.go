package dto

import (
	"time"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one line of a manual journal entry.
type JournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit" binding:"gte=0"`
	Credit      decimal.Decimal `json:"credit" binding:"gte=0"`
}

// CreateJournalEntryRequest defines the data needed to create a draft entry.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time            `json:"entryDate" binding:"required"`
	Reference   string               `json:"reference" binding:"max=100"`
	Description string               `json:"description" binding:"required"`
	Lines       []JournalLineRequest `json:"lines" binding:"dive"`
}

// UpdateJournalEntryRequest replaces the header and every line of a draft.
type UpdateJournalEntryRequest struct {
	EntryDate   time.Time            `json:"entryDate" binding:"required"`
	Reference   string               `json:"reference" binding:"max=100"`
	Description string               `json:"description" binding:"required"`
	Lines       []JournalLineRequest `json:"lines" binding:"dive"`
}

// ReverseJournalEntryRequest carries the reason recorded on the reversed entry.
type ReverseJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ToDomainLines converts request lines into domain lines in request order.
func ToDomainLines(reqs []JournalLineRequest) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqs))
	for i, r := range reqs {
		lines[i] = domain.JournalLine{
			AccountID:   r.AccountID,
			Description: r.Description,
			Debit:       r.Debit,
			Credit:      r.Credit,
			LineOrder:   i + 1,
		}
	}
	return lines
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	LineOrder   int             `json:"lineOrder"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	JournalEntryID    string                `json:"journalEntryID"`
	EntryNumber       string                `json:"entryNumber"`
	EntryDate         string                `json:"entryDate"`
	Reference         string                `json:"reference"`
	Description       string                `json:"description"`
	Status            domain.JournalStatus  `json:"status"`
	TotalDebit        decimal.Decimal       `json:"totalDebit"`
	TotalCredit       decimal.Decimal       `json:"totalCredit"`
	IsSystemGenerated bool                  `json:"isSystemGenerated"`
	PostedBy          string                `json:"postedBy,omitempty"`
	PostedAt          *time.Time            `json:"postedAt,omitempty"`
	ReversedBy        string                `json:"reversedBy,omitempty"`
	ReversedAt        *time.Time            `json:"reversedAt,omitempty"`
	ReversalReason    string                `json:"reversalReason,omitempty"`
	ReversalOfID      string                `json:"reversalOfID,omitempty"`
	Lines             []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	res := JournalEntryResponse{
		JournalEntryID:    e.JournalEntryID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate.Format(DateLayout),
		Reference:         e.Reference,
		Description:       e.Description,
		Status:            e.Status,
		TotalDebit:        e.TotalDebit,
		TotalCredit:       e.TotalCredit,
		IsSystemGenerated: e.IsSystemGenerated,
		PostedBy:          e.PostedBy,
		PostedAt:          e.PostedAt,
		ReversedBy:        e.ReversedBy,
		ReversedAt:        e.ReversedAt,
		ReversalReason:    e.ReversalReason,
		ReversalOfID:      e.ReversalOfID,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		res.Lines = make([]JournalLineResponse, len(e.Lines))
		for i, l := range e.Lines {
			res.Lines[i] = JournalLineResponse{
				LineID:      l.LineID,
				AccountID:   l.AccountID,
				Description: l.Description,
				Debit:       l.Debit,
				Credit:      l.Credit,
				LineOrder:   l.LineOrder,
			}
		}
	}
	return res
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Status    string `form:"status" binding:"omitempty,oneof=DRAFT POSTED REVERSED"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Reference string `form:"reference"`
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ListJournalEntriesResponse is a page of journal entry headers.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}
