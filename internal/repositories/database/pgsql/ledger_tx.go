package pgsql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/member_ledger_app/internal/apperrors"
	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/member_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/member_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// pgxLedgerTx runs the ledger write set on a single pgx transaction.
type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

// LockAccountsForUpdate row-locks accounts in ascending ID order so concurrent posts cannot deadlock.
func (t *pgxLedgerTx) LockAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns("") + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;`
	rows, err := t.tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts for update: %w", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	locked := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		locked[acc.AccountID] = acc
	}
	for _, id := range accountIDs {
		if _, ok := locked[id]; !ok {
			return nil, apperrors.NewNotFoundError("account " + id)
		}
	}
	return locked, nil
}

// ApplyBalanceDeltas adds each delta to current_balance in place.
func (t *pgxLedgerTx) ApplyBalanceDeltas(ctx context.Context, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	return t.updateBalances(ctx, `
		UPDATE accounts
		SET current_balance = current_balance + $1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4;`, deltas, userID, now)
}

// SetAccountBalances overwrites current_balance.
func (t *pgxLedgerTx) SetAccountBalances(ctx context.Context, balances map[string]decimal.Decimal, userID string, now time.Time) error {
	return t.updateBalances(ctx, `
		UPDATE accounts
		SET current_balance = $1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4;`, balances, userID, now)
}

func (t *pgxLedgerTx) updateBalances(ctx context.Context, query string, values map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(values) == 0 {
		return nil
	}
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(query, values[id], now, userID, id)
	}
	br := t.tx.SendBatch(ctx, batch)
	defer br.Close()

	for _, id := range ids {
		cmdTag, err := br.Exec()
		if err != nil {
			return fmt.Errorf("failed to update balance of account %s: %w", id, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("account " + id)
		}
	}
	return nil
}

// PostedActivity aggregates posted lines within this transaction's snapshot.
func (t *pgxLedgerTx) PostedActivity(ctx context.Context, filter domain.ActivityFilter) ([]domain.AccountActivity, error) {
	return queryActivity(ctx, t.tx, filter)
}

// NextEntryNumber bumps the per-day counter. The upsert holds the counter row lock until commit.
func (t *pgxLedgerTx) NextEntryNumber(ctx context.Context, day time.Time) (string, error) {
	day = domain.DateOnly(day)
	query := `
		INSERT INTO journal_entry_sequences (entry_day, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (entry_day) DO UPDATE SET last_seq = journal_entry_sequences.last_seq + 1
		RETURNING last_seq;`
	var seq int64
	if err := t.tx.QueryRow(ctx, query, day).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to allocate entry number for %s: %w", day.Format(time.DateOnly), err)
	}
	return domain.FormatEntryNumber(day, seq), nil
}

// InsertEntry persists a header and its lines.
func (t *pgxLedgerTx) InsertEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);`
	_, err := t.tx.Exec(ctx, query,
		m.JournalEntryID, m.EntryNumber, m.EntryDate, m.Reference, m.Description, m.Status,
		m.TotalDebit, m.TotalCredit, m.IsSystemGenerated,
		m.PostedBy, m.PostedAt, m.ReversedBy, m.ReversedAt, m.ReversalReason, m.ReversalOfID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "journal_entries_entry_number_key") {
			return fmt.Errorf("%w: entry number %s already taken", apperrors.ErrDuplicate, m.EntryNumber)
		}
		return fmt.Errorf("failed to insert journal entry %s: %w", m.JournalEntryID, err)
	}
	return t.insertLines(ctx, entry.Lines)
}

func (t *pgxLedgerTx) insertLines(ctx context.Context, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
		INSERT INTO journal_entry_lines (line_id, journal_entry_id, account_id, description, debit, credit, line_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	// queued in slice order so line_seq follows line order
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelJournalLine(line)
		batch.Queue(query, m.LineID, m.JournalEntryID, m.AccountID, m.Description, m.Debit, m.Credit, m.LineOrder, m.CreatedAt)
	}
	br := t.tx.SendBatch(ctx, batch)
	defer br.Close()

	for _, line := range lines {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert journal line %s: %w", line.LineID, err)
		}
	}
	return nil
}

// UpdateEntryHeader writes header fields, status and lifecycle stamps.
func (t *pgxLedgerTx) UpdateEntryHeader(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET entry_number = $1, entry_date = $2, reference = $3, description = $4, status = $5,
		    total_debit = $6, total_credit = $7,
		    posted_by = $8, posted_at = $9, reversed_by = $10, reversed_at = $11, reversal_reason = $12,
		    last_updated_at = $13, last_updated_by = $14
		WHERE journal_entry_id = $15;`
	cmdTag, err := t.tx.Exec(ctx, query,
		m.EntryNumber, m.EntryDate, m.Reference, m.Description, m.Status,
		m.TotalDebit, m.TotalCredit,
		m.PostedBy, m.PostedAt, m.ReversedBy, m.ReversedAt, m.ReversalReason,
		m.LastUpdatedAt, m.LastUpdatedBy,
		m.JournalEntryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal entry %s: %w", m.JournalEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry " + m.JournalEntryID)
	}
	return nil
}

// ReplaceLines deletes every line of the entry and inserts lines.
func (t *pgxLedgerTx) ReplaceLines(ctx context.Context, entryID string, lines []domain.JournalLine) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE journal_entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete lines of journal entry %s: %w", entryID, err)
	}
	return t.insertLines(ctx, lines)
}

// DeleteEntry removes an entry. Lines go with it through ON DELETE CASCADE.
func (t *pgxLedgerTx) DeleteEntry(ctx context.Context, entryID string) error {
	cmdTag, err := t.tx.Exec(ctx, `DELETE FROM journal_entries WHERE journal_entry_id = $1;`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry " + entryID)
	}
	return nil
}

// LockEntry selects an entry FOR UPDATE together with its lines.
func (t *pgxLedgerTx) LockEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return findEntry(ctx, t.tx, entryID, true)
}
