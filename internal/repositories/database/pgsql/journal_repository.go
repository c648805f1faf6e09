package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/member_ledger_app/internal/apperrors"
	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/member_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/member_ledger_app/internal/models"
	"github.com/SscSPs/member_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `journal_entry_id, entry_number, entry_date, reference, description, status,
	total_debit, total_credit, is_system_generated,
	posted_by, posted_at, reversed_by, reversed_at, reversal_reason, reversal_of_id,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, line_seq, journal_entry_id, account_id, description, debit, credit, line_order, created_at`

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.JournalEntryID, &m.EntryNumber, &m.EntryDate, &m.Reference, &m.Description, &m.Status,
		&m.TotalDebit, &m.TotalCredit, &m.IsSystemGenerated,
		&m.PostedBy, &m.PostedAt, &m.ReversedBy, &m.ReversedAt, &m.ReversalReason, &m.ReversalOfID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	return mapping.ToDomainJournalEntry(m), nil
}

// scanLine scans a row selected with lineColumns. extra receives any trailing columns.
func scanLine(row pgx.Row, extra ...any) (domain.JournalLine, error) {
	var m models.JournalLine
	dest := []any{
		&m.LineID, &m.LineSeq, &m.JournalEntryID, &m.AccountID, &m.Description,
		&m.Debit, &m.Credit, &m.LineOrder, &m.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.JournalLine{}, err
	}
	return mapping.ToDomainJournalLine(m), nil
}

// findEntry loads one entry and its lines; lock adds FOR UPDATE to the header select.
func findEntry(ctx context.Context, q querier, entryID string, lock bool) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE journal_entry_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	entry, err := scanEntry(q.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal entry " + entryID)
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	rows, err := q.Query(ctx, `SELECT `+lineColumns+` FROM journal_entry_lines WHERE journal_entry_id = $1 ORDER BY line_order;`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of journal entry %s: %w", entryID, err)
	}
	defer rows.Close()

	entry.Lines = []domain.JournalLine{}
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		entry.Lines = append(entry.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal lines: %w", err)
	}
	return &entry, nil
}

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// FindEntryByID retrieves an entry with its lines ordered by line_order.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return findEntry(ctx, r.Pool, entryID, false)
}

// ListEntries retrieves entry headers newest first, continuing after the keyset cursor when set.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter domain.JournalEntryFilter) ([]domain.JournalEntry, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("entry_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("entry_date <= $%d", len(args)))
	}
	if filter.ReferencePrefix != "" {
		args = append(args, escapeLike(filter.ReferencePrefix)+"%")
		conds = append(conds, fmt.Sprintf("reference LIKE $%d", len(args)))
	}
	if filter.AfterEntryDate != nil && filter.AfterCreatedAt != nil {
		args = append(args, *filter.AfterEntryDate, *filter.AfterCreatedAt)
		conds = append(conds, fmt.Sprintf("(entry_date, created_at) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY entry_date DESC, created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entries: %w", err)
	}
	return entries, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
