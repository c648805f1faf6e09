package mapping

import (
	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	"github.com/SscSPs/member_ledger_app/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		JournalEntryID:    d.JournalEntryID,
		EntryNumber:       d.EntryNumber,
		EntryDate:         d.EntryDate,
		Reference:         d.Reference,
		Description:       d.Description,
		Status:            models.JournalStatus(d.Status),
		TotalDebit:        d.TotalDebit,
		TotalCredit:       d.TotalCredit,
		IsSystemGenerated: d.IsSystemGenerated,
		PostedBy:          nullable(d.PostedBy),
		PostedAt:          d.PostedAt,
		ReversedBy:        nullable(d.ReversedBy),
		ReversedAt:        d.ReversedAt,
		ReversalReason:    nullable(d.ReversalReason),
		ReversalOfID:      nullable(d.ReversalOfID),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry without lines
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		JournalEntryID:    m.JournalEntryID,
		EntryNumber:       m.EntryNumber,
		EntryDate:         m.EntryDate,
		Reference:         m.Reference,
		Description:       m.Description,
		Status:            domain.JournalStatus(m.Status),
		TotalDebit:        m.TotalDebit,
		TotalCredit:       m.TotalCredit,
		IsSystemGenerated: m.IsSystemGenerated,
		PostedBy:          deref(m.PostedBy),
		PostedAt:          m.PostedAt,
		ReversedBy:        deref(m.ReversedBy),
		ReversedAt:        m.ReversedAt,
		ReversalReason:    deref(m.ReversalReason),
		ReversalOfID:      deref(m.ReversalOfID),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:         d.LineID,
		JournalEntryID: d.JournalEntryID,
		AccountID:      d.AccountID,
		Description:    d.Description,
		Debit:          d.Debit,
		Credit:         d.Credit,
		LineOrder:      d.LineOrder,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:         m.LineID,
		JournalEntryID: m.JournalEntryID,
		AccountID:      m.AccountID,
		Description:    m.Description,
		Debit:          m.Debit,
		Credit:         m.Credit,
		LineOrder:      m.LineOrder,
		CreatedAt:      m.CreatedAt,
	}
}

// ToDomainJournalLineSlice converts a slice of model lines to domain lines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
