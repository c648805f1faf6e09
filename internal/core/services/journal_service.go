package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/member_ledger_app/internal/apperrors"
	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/member_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/member_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/member_ledger_app/internal/dto"
	"github.com/SscSPs/member_ledger_app/internal/utils/pagination"
)

// journalService provides the journal entry store and the posting state machine.
type journalService struct {
	BaseService
	journalRepo   portsrepo.JournalRepositoryWithTx
	accountReader portsrepo.AccountReader
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryWithTx, accountReader portsrepo.AccountReader, options ...Option) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo:   journalRepo,
		accountReader: accountReader,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

// Ensure JournalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateDraftLines checks line shape and that all referenced accounts exist.
// Balance is not required for drafts.
func (s *journalService) validateDraftLines(ctx context.Context, lines []domain.JournalLine) error {
	for i, l := range lines {
		if l.AccountID == "" {
			return apperrors.NewValidationError(fmt.Sprintf("line %d: account is required", i+1))
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return apperrors.NewValidationError(fmt.Sprintf("line %d: amounts cannot be negative", i+1))
		}
		if l.Debit.IsPositive() == l.Credit.IsPositive() {
			return apperrors.NewValidationError(fmt.Sprintf("line %d: exactly one of debit or credit must be set", i+1))
		}
		if !domain.HasAmountScale(l.Debit) || !domain.HasAmountScale(l.Credit) {
			return apperrors.NewValidationError(fmt.Sprintf("line %d: amounts can have at most %d decimal places", i+1, domain.AmountScale))
		}
	}
	if len(lines) == 0 {
		return nil
	}

	ids := domain.JournalEntry{Lines: lines}.AccountIDs()
	found, err := s.accountReader.FindAccountsByIDs(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for journal lines")
		return err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return apperrors.NewValidationError(fmt.Sprintf("account %s does not exist", id))
		}
	}
	return nil
}

func (s *journalService) CreateDraft(ctx context.Context, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, apperrors.NewValidationError("journal description is required")
	}
	lines := dto.ToDomainLines(req.Lines)
	if err := s.validateDraftLines(ctx, lines); err != nil {
		return nil, err
	}

	now := s.Now()
	entry := domain.JournalEntry{
		JournalEntryID: uuid.NewString(),
		EntryDate:      domain.DateOnly(req.EntryDate),
		Reference:      req.Reference,
		Description:    req.Description,
		Status:         domain.Draft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	entry.Lines = prepareLines(entry.JournalEntryID, lines, now)
	entry.TotalDebit, entry.TotalCredit = domain.Totals(entry.Lines)

	err := s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		number, err := tx.NextEntryNumber(ctx, entry.EntryDate)
		if err != nil {
			return err
		}
		entry.EntryNumber = number
		return tx.InsertEntry(ctx, entry)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create draft entry")
		return nil, err
	}

	s.LogInfo(ctx, "Draft journal entry created",
		slog.String("journal_entry_id", entry.JournalEntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.Int("lines", len(entry.Lines)))
	return &entry, nil
}

func (s *journalService) UpdateDraft(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, apperrors.NewValidationError("journal description is required")
	}
	lines := dto.ToDomainLines(req.Lines)
	if err := s.validateDraftLines(ctx, lines); err != nil {
		return nil, err
	}

	var updated *domain.JournalEntry
	err := s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		entry, err := tx.LockEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != domain.Draft {
			return &apperrors.NotEditableError{EntryID: entryID, Status: string(entry.Status)}
		}

		now := s.Now()
		newDate := domain.DateOnly(req.EntryDate)
		if !newDate.Equal(domain.DateOnly(entry.EntryDate)) {
			number, err := tx.NextEntryNumber(ctx, newDate)
			if err != nil {
				return err
			}
			entry.EntryNumber = number
		}
		entry.EntryDate = newDate
		entry.Reference = req.Reference
		entry.Description = req.Description
		entry.Lines = prepareLines(entryID, lines, now)
		entry.TotalDebit, entry.TotalCredit = domain.Totals(entry.Lines)
		entry.LastUpdatedAt = now
		entry.LastUpdatedBy = actorID

		if err := tx.UpdateEntryHeader(ctx, *entry); err != nil {
			return err
		}
		if err := tx.ReplaceLines(ctx, entryID, entry.Lines); err != nil {
			return err
		}
		updated = entry
		return nil
	})
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to update draft entry", slog.String("journal_entry_id", entryID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Draft journal entry updated", slog.String("journal_entry_id", entryID))
	return updated, nil
}

func (s *journalService) DeleteDraft(ctx context.Context, entryID string, actorID string) error {
	err := s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		entry, err := tx.LockEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != domain.Draft {
			return &apperrors.NotEditableError{EntryID: entryID, Status: string(entry.Status)}
		}
		return tx.DeleteEntry(ctx, entryID)
	})
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to delete draft entry", slog.String("journal_entry_id", entryID))
		}
		return err
	}
	s.LogInfo(ctx, "Draft journal entry deleted",
		slog.String("journal_entry_id", entryID),
		slog.String("actor_id", actorID))
	return nil
}

func (s *journalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get journal entry", slog.String("journal_entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	filter := domain.JournalEntryFilter{
		Status:          domain.JournalStatus(params.Status),
		ReferencePrefix: params.Reference,
		Limit:           limit + 1,
	}
	if params.From != "" {
		from, err := dto.ParseDate(params.From)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid from date")
		}
		filter.From = &from
	}
	if params.To != "" {
		to, err := dto.ParseDate(params.To)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid to date")
		}
		filter.To = &to
	}
	if params.NextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		filter.AfterEntryDate = &entryDate
		filter.AfterCreatedAt = &createdAt
	}

	entries, err := s.journalRepo.ListEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, err
	}

	resp := &dto.ListJournalEntriesResponse{Entries: make([]dto.JournalEntryResponse, 0, len(entries))}
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		resp.NextToken = &token
		entries = entries[:limit]
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.ToJournalEntryResponse(&entries[i]))
	}
	return resp, nil
}

func (s *journalService) Post(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error) {
	var posted *domain.JournalEntry
	err := s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		entry, err := tx.LockEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if err := postExistingDraft(ctx, tx, entry, actorID, s.Now()); err != nil {
			return err
		}
		posted = entry
		return nil
	})
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to post journal entry", slog.String("journal_entry_id", entryID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry posted",
		slog.String("journal_entry_id", entryID),
		slog.String("entry_number", posted.EntryNumber),
		slog.String("total", posted.TotalDebit.String()))
	return posted, nil
}

func (s *journalService) Reverse(ctx context.Context, entryID string, reason string, actorID string) (*domain.JournalEntry, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewValidationError("reversal reason is required")
	}

	var reversal *domain.JournalEntry
	err := s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		original, err := tx.LockEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if original.Status != domain.Posted {
			return &apperrors.NotPostedError{EntryID: entryID, Status: string(original.Status)}
		}
		if original.ReversalOfID != "" {
			return apperrors.NewValidationError("cannot reverse a reversal entry")
		}

		now := s.Now()
		lines := make([]domain.JournalLine, len(original.Lines))
		for i, l := range original.Lines {
			lines[i] = l.Swapped()
		}
		rev := &domain.JournalEntry{
			EntryDate:         domain.DateOnly(now),
			Reference:         "REV-" + original.EntryNumber,
			Description:       fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, reason),
			IsSystemGenerated: true,
			ReversalOfID:      original.JournalEntryID,
			Lines:             lines,
		}
		if err := postNewEntry(ctx, tx, rev, nil, actorID, now); err != nil {
			return err
		}

		original.Status = domain.Reversed
		original.ReversedBy = actorID
		original.ReversedAt = &now
		original.ReversalReason = reason
		original.LastUpdatedAt = now
		original.LastUpdatedBy = actorID
		if err := tx.UpdateEntryHeader(ctx, *original); err != nil {
			return err
		}
		reversal = rev
		return nil
	})
	if err != nil {
		if !isExpected(err) {
			s.LogError(ctx, err, "Failed to reverse journal entry", slog.String("journal_entry_id", entryID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("journal_entry_id", entryID),
		slog.String("reversal_id", reversal.JournalEntryID),
		slog.String("reason", reason))
	return reversal, nil
}

// isExpected reports business-rule failures that callers surface without an error log.
func isExpected(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrInsufficientFunds)
}
