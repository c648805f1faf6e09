package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/member_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// activityQuery aggregates posted lines per account. Reversed entries stay in history
// because their reversal offsets them. Accounts without activity keep zero sums.
var activityQuery = `
	SELECT ` + accountColumns("a") + `,
		COALESCE(SUM(l.debit), 0) AS total_debit,
		COALESCE(SUM(l.credit), 0) AS total_credit
	FROM accounts a
	LEFT JOIN (
		journal_entry_lines l
		JOIN journal_entries e
		  ON e.journal_entry_id = l.journal_entry_id
		 AND e.status <> 'DRAFT'
		 AND ($1::date IS NULL OR e.entry_date >= $1::date)
		 AND ($2::date IS NULL OR e.entry_date <= $2::date)
	) ON l.account_id = a.account_id
	WHERE ($3::text[] IS NULL OR a.account_type = ANY($3::text[]))
	  AND ($4::text[] IS NULL OR a.account_id = ANY($4::text[]))
	  AND (NOT $5::boolean OR a.is_active)
	GROUP BY a.account_id
	ORDER BY a.code;`

func queryActivity(ctx context.Context, q querier, filter domain.ActivityFilter) ([]domain.AccountActivity, error) {
	var types, ids []string
	if len(filter.Types) > 0 {
		types = accountTypeStrings(filter.Types)
	}
	if len(filter.AccountIDs) > 0 {
		ids = filter.AccountIDs
	}

	rows, err := q.Query(ctx, activityQuery, dateParam(filter.From), dateParam(filter.To), types, ids, filter.ActiveOnly)
	if err != nil {
		return nil, fmt.Errorf("error querying account activity: %w", err)
	}
	defer rows.Close()

	result := []domain.AccountActivity{}
	for rows.Next() {
		var debit, credit decimal.Decimal
		acc, err := scanAccount(rows, &debit, &credit)
		if err != nil {
			return nil, fmt.Errorf("error scanning account activity row: %w", err)
		}
		result = append(result, domain.AccountActivity{Account: acc, Debit: debit, Credit: credit})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account activity rows: %w", err)
	}
	return result, nil
}

// dateParam passes a nil bound as SQL NULL and any other as its calendar day.
func dateParam(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.DateOnly(*t)
	return &d
}

// AccountActivity returns every matching account with its posted sums in the window.
func (r *reportingRepository) AccountActivity(ctx context.Context, filter domain.ActivityFilter) ([]domain.AccountActivity, error) {
	return queryActivity(ctx, r.Pool, filter)
}

// LedgerLines returns posted lines of one account in creation order.
func (r *reportingRepository) LedgerLines(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerLine, error) {
	query := `
		SELECT l.line_id, l.line_seq, l.journal_entry_id, l.account_id, l.description,
			l.debit, l.credit, l.line_order, l.created_at,
			e.entry_number, e.entry_date, e.reference
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.journal_entry_id = l.journal_entry_id
		WHERE l.account_id = $1
		  AND e.status <> 'DRAFT'
		  AND ($2::date IS NULL OR e.entry_date >= $2::date)
		  AND ($3::date IS NULL OR e.entry_date <= $3::date)
		ORDER BY l.line_seq;`

	rows, err := r.Pool.Query(ctx, query, accountID, dateParam(from), dateParam(to))
	if err != nil {
		return nil, fmt.Errorf("error querying ledger lines of %s: %w", accountID, err)
	}
	defer rows.Close()

	result := []domain.LedgerLine{}
	for rows.Next() {
		var ll domain.LedgerLine
		line, err := scanLine(rows, &ll.EntryNumber, &ll.EntryDate, &ll.Reference)
		if err != nil {
			return nil, fmt.Errorf("error scanning ledger line: %w", err)
		}
		ll.JournalLine = line
		result = append(result, ll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger lines: %w", err)
	}
	return result, nil
}

// CashEntryLines returns every line of posted entries in the window that touch a cash account.
func (r *reportingRepository) CashEntryLines(ctx context.Context, cashAccountIDs []string, from, to time.Time) ([]domain.CashEntryLine, error) {
	if len(cashAccountIDs) == 0 {
		return []domain.CashEntryLine{}, nil
	}
	query := `
		SELECT l.line_id, l.line_seq, l.journal_entry_id, l.account_id, l.description,
			l.debit, l.credit, l.line_order, l.created_at,
			e.entry_number, e.entry_date,
			a.code, a.name, a.account_type, a.subtype, a.normal_balance
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.journal_entry_id = l.journal_entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.status <> 'DRAFT'
		  AND e.entry_date >= $2::date
		  AND e.entry_date <= $3::date
		  AND EXISTS (
			SELECT 1 FROM journal_entry_lines c
			WHERE c.journal_entry_id = e.journal_entry_id AND c.account_id = ANY($1)
		  )
		ORDER BY e.entry_date, l.line_seq;`

	rows, err := r.Pool.Query(ctx, query, cashAccountIDs, domain.DateOnly(from), domain.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("error querying cash entry lines: %w", err)
	}
	defer rows.Close()

	result := []domain.CashEntryLine{}
	for rows.Next() {
		var (
			cl                          domain.CashEntryLine
			accountType, normalBalance string
		)
		line, err := scanLine(rows,
			&cl.EntryNumber, &cl.EntryDate,
			&cl.AccountCode, &cl.AccountName, &accountType, &cl.Subtype, &normalBalance,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning cash entry line: %w", err)
		}
		cl.JournalLine = line
		cl.AccountType = domain.AccountType(accountType)
		cl.NormalBalance = domain.NormalBalance(normalBalance)
		result = append(result, cl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash entry lines: %w", err)
	}
	return result, nil
}
