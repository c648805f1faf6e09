package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/member_ledger_app/internal/apperrors"
	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/member_ledger_app/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// cashGuard requires the locked cash account to cover amount before anything is written.
type cashGuard struct {
	accountID string
	amount    decimal.Decimal
}

// validatePostable checks the line count and that debits equal credits within tolerance.
func validatePostable(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return &apperrors.InsufficientLinesError{Count: len(lines)}
	}
	debit, credit := domain.Totals(lines)
	if !domain.WithinTolerance(debit, credit) {
		return &apperrors.UnbalancedEntryError{Debit: debit, Credit: credit}
	}
	return nil
}

// lockForPosting row-locks every account the lines touch, in ascending ID order,
// then runs the optional cash guard against the locked balance.
func lockForPosting(ctx context.Context, tx portsrepo.LedgerTx, lines []domain.JournalLine, guard *cashGuard) (map[string]domain.Account, error) {
	seen := make(map[string]struct{}, len(lines)+1)
	ids := make([]string, 0, len(lines)+1)
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, l := range lines {
		add(l.AccountID)
	}
	if guard != nil {
		add(guard.accountID)
	}
	sort.Strings(ids)

	locked, err := tx.LockAccountsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	if guard != nil {
		cash, ok := locked[guard.accountID]
		if !ok {
			return nil, apperrors.NewNotFoundError("cash account " + guard.accountID)
		}
		if cash.CurrentBalance.LessThan(guard.amount) {
			return nil, apperrors.NewInsufficientFundsError(guard.amount, cash.CurrentBalance)
		}
	}
	return locked, nil
}

// balanceDeltas nets each line's signed effect per account using the normal-balance rule.
func balanceDeltas(locked map[string]domain.Account, lines []domain.JournalLine) (map[string]decimal.Decimal, error) {
	deltas := make(map[string]decimal.Decimal, len(locked))
	for _, l := range lines {
		acc, ok := locked[l.AccountID]
		if !ok {
			return nil, fmt.Errorf("internal error: locked account %s not found during posting", l.AccountID)
		}
		deltas[l.AccountID] = deltas[l.AccountID].Add(acc.SignedEffect(l.Debit, l.Credit))
	}
	return deltas, nil
}

// prepareLines assigns IDs, entry linkage, ordering and timestamps to new lines.
func prepareLines(entryID string, lines []domain.JournalLine, now time.Time) []domain.JournalLine {
	out := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		l.LineID = uuid.NewString()
		l.JournalEntryID = entryID
		l.LineOrder = i + 1
		l.CreatedAt = now
		out[i] = l
	}
	return out
}

// postNewEntry writes entry directly in POSTED state and applies it to balances.
// Locks and the guard run before the first write, so a failed guard leaves storage untouched.
func postNewEntry(ctx context.Context, tx portsrepo.LedgerTx, entry *domain.JournalEntry, guard *cashGuard, actorID string, now time.Time) error {
	if err := validatePostable(entry.Lines); err != nil {
		return err
	}
	locked, err := lockForPosting(ctx, tx, entry.Lines, guard)
	if err != nil {
		return err
	}
	deltas, err := balanceDeltas(locked, entry.Lines)
	if err != nil {
		return err
	}

	number, err := tx.NextEntryNumber(ctx, entry.EntryDate)
	if err != nil {
		return err
	}

	if entry.JournalEntryID == "" {
		entry.JournalEntryID = uuid.NewString()
	}
	entry.EntryNumber = number
	entry.Lines = prepareLines(entry.JournalEntryID, entry.Lines, now)
	entry.TotalDebit, entry.TotalCredit = domain.Totals(entry.Lines)
	entry.Status = domain.Posted
	entry.PostedBy = actorID
	entry.PostedAt = &now
	entry.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}

	if err := tx.InsertEntry(ctx, *entry); err != nil {
		return err
	}
	return tx.ApplyBalanceDeltas(ctx, deltas, actorID, now)
}

// postExistingDraft transitions a locked draft to POSTED and applies its balances.
func postExistingDraft(ctx context.Context, tx portsrepo.LedgerTx, entry *domain.JournalEntry, actorID string, now time.Time) error {
	if entry.Status != domain.Draft {
		return &apperrors.NotEditableError{EntryID: entry.JournalEntryID, Status: string(entry.Status)}
	}
	if err := validatePostable(entry.Lines); err != nil {
		return err
	}
	locked, err := lockForPosting(ctx, tx, entry.Lines, nil)
	if err != nil {
		return err
	}
	deltas, err := balanceDeltas(locked, entry.Lines)
	if err != nil {
		return err
	}

	entry.Status = domain.Posted
	entry.PostedBy = actorID
	entry.PostedAt = &now
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorID
	if err := tx.UpdateEntryHeader(ctx, *entry); err != nil {
		return err
	}
	return tx.ApplyBalanceDeltas(ctx, deltas, actorID, now)
}
