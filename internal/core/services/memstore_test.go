package services_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/member_ledger_app/internal/apperrors"
	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/member_ledger_app/internal/core/ports/repositories"
)

// memStore is an in-memory ledger backing every repository port.
// WithTx serializes transactions and restores a snapshot when fn fails.
type memStore struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	entries  map[string]domain.JournalEntry // headers only
	lines    []memLine                      // creation order
	seqs     map[string]int64
	nextSeq  int64
	txCount  int

	// failAfterInsert makes InsertEntry fail, simulating a storage fault mid-transaction.
	failAfterInsert error
}

type memLine struct {
	seq  int64
	line domain.JournalLine
}

var (
	_ portsrepo.AccountRepositoryFacade = (*memStore)(nil)
	_ portsrepo.JournalRepositoryWithTx = (*memStore)(nil)
	_ portsrepo.ReportingRepository     = (*memStore)(nil)
	_ portsrepo.LedgerTx                = (*memTx)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		accounts: map[string]domain.Account{},
		entries:  map[string]domain.JournalEntry{},
		seqs:     map[string]int64{},
	}
}

// addAccount inserts an account directly, bypassing the service layer.
func (m *memStore) addAccount(code string, t domain.AccountType, subtype string, opening decimal.Decimal) domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc := domain.Account{
		AccountID:      uuid.NewString(),
		Code:           code,
		Name:           "Account " + code,
		AccountType:    t,
		Subtype:        subtype,
		NormalBalance:  domain.DefaultNormalBalance(t),
		OpeningBalance: opening,
		CurrentBalance: opening,
		IsActive:       true,
	}
	m.accounts[acc.AccountID] = acc
	return acc
}

func (m *memStore) balance(accountID string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[accountID].CurrentBalance
}

func (m *memStore) entryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// setBalance corrupts the cached balance to simulate drift.
func (m *memStore) setBalance(accountID string, v decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc := m.accounts[accountID]
	acc.CurrentBalance = v
	m.accounts[accountID] = acc
}

// --- accounts ---

func (m *memStore) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return &acc, nil
}

func (m *memStore) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.Code == code {
			a := acc
			return &a, nil
		}
	}
	return nil, apperrors.NewNotFoundError("account code " + code)
}

func (m *memStore) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := m.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (m *memStore) ListAccounts(_ context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Account
	for _, acc := range m.sortedAccounts() {
		if filter.ActiveOnly && !acc.IsActive {
			continue
		}
		if len(filter.Types) > 0 && !hasType(filter.Types, acc.AccountType) {
			continue
		}
		if filter.ParentAccountID != "" && acc.ParentAccountID != filter.ParentAccountID {
			continue
		}
		out = append(out, acc)
	}
	return out, nil
}

func (m *memStore) CountChildAccounts(_ context.Context, accountID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, acc := range m.accounts {
		if acc.ParentAccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) HasJournalLines(_ context.Context, accountID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.lines {
		if l.line.AccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SaveAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.Code == account.Code {
			return &apperrors.DuplicateCodeError{Code: account.Code}
		}
	}
	m.accounts[account.AccountID] = account
	return nil
}

func (m *memStore) UpdateAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.accounts[account.AccountID]
	if !ok {
		return apperrors.NewNotFoundError("account " + account.AccountID)
	}
	account.CurrentBalance = cur.CurrentBalance
	account.OpeningBalance = cur.OpeningBalance
	m.accounts[account.AccountID] = account
	return nil
}

func (m *memStore) SetAccountActive(_ context.Context, accountID string, active bool, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[accountID]
	if !ok {
		return apperrors.NewNotFoundError("account " + accountID)
	}
	acc.IsActive = active
	acc.LastUpdatedBy = userID
	acc.LastUpdatedAt = now
	m.accounts[accountID] = acc
	return nil
}

func (m *memStore) DeleteAccount(_ context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, accountID)
	return nil
}

// --- journal reads ---

func (m *memStore) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entryWithLines(entryID)
}

func (m *memStore) ListEntries(_ context.Context, filter domain.JournalEntryFilter) ([]domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.JournalEntry
	for _, e := range m.entries {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if !inWindow(e.EntryDate, filter.From, filter.To) {
			continue
		}
		if filter.ReferencePrefix != "" && !strings.HasPrefix(e.Reference, filter.ReferencePrefix) {
			continue
		}
		if filter.AfterEntryDate != nil && filter.AfterCreatedAt != nil {
			older := e.EntryDate.Before(*filter.AfterEntryDate) ||
				(e.EntryDate.Equal(*filter.AfterEntryDate) && e.CreatedAt.Before(*filter.AfterCreatedAt))
			if !older {
				continue
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.After(out[j].EntryDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// --- transactions ---

func (m *memStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txCount++

	snapAccounts := make(map[string]domain.Account, len(m.accounts))
	for k, v := range m.accounts {
		snapAccounts[k] = v
	}
	snapEntries := make(map[string]domain.JournalEntry, len(m.entries))
	for k, v := range m.entries {
		snapEntries[k] = v
	}
	snapSeqs := make(map[string]int64, len(m.seqs))
	for k, v := range m.seqs {
		snapSeqs[k] = v
	}
	snapLines := append([]memLine(nil), m.lines...)

	if err := fn(ctx, &memTx{m: m}); err != nil {
		m.accounts, m.entries, m.seqs, m.lines = snapAccounts, snapEntries, snapSeqs, snapLines
		return err
	}
	return nil
}

// memTx runs with memStore.mu already held.
type memTx struct {
	m *memStore
}

func (t *memTx) LockAccountsForUpdate(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		acc, ok := t.m.accounts[id]
		if !ok {
			return nil, apperrors.NewNotFoundError("account " + id)
		}
		out[id] = acc
	}
	return out, nil
}

func (t *memTx) ApplyBalanceDeltas(_ context.Context, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	for id, d := range deltas {
		acc, ok := t.m.accounts[id]
		if !ok {
			return apperrors.NewNotFoundError("account " + id)
		}
		acc.CurrentBalance = acc.CurrentBalance.Add(d)
		acc.LastUpdatedBy = userID
		acc.LastUpdatedAt = now
		t.m.accounts[id] = acc
	}
	return nil
}

func (t *memTx) SetAccountBalances(_ context.Context, balances map[string]decimal.Decimal, userID string, now time.Time) error {
	for id, b := range balances {
		acc := t.m.accounts[id]
		acc.CurrentBalance = b
		acc.LastUpdatedBy = userID
		acc.LastUpdatedAt = now
		t.m.accounts[id] = acc
	}
	return nil
}

func (t *memTx) PostedActivity(_ context.Context, filter domain.ActivityFilter) ([]domain.AccountActivity, error) {
	return t.m.activity(filter), nil
}

func (t *memTx) NextEntryNumber(_ context.Context, day time.Time) (string, error) {
	key := day.Format("20060102")
	t.m.seqs[key]++
	return domain.FormatEntryNumber(day, t.m.seqs[key]), nil
}

func (t *memTx) InsertEntry(_ context.Context, entry domain.JournalEntry) error {
	if t.m.failAfterInsert != nil {
		return t.m.failAfterInsert
	}
	for _, e := range t.m.entries {
		if e.EntryNumber == entry.EntryNumber {
			return &apperrors.DuplicateCodeError{Code: entry.EntryNumber}
		}
	}
	lines := entry.Lines
	entry.Lines = nil
	t.m.entries[entry.JournalEntryID] = entry
	t.m.appendLines(lines)
	return nil
}

func (t *memTx) UpdateEntryHeader(_ context.Context, entry domain.JournalEntry) error {
	if _, ok := t.m.entries[entry.JournalEntryID]; !ok {
		return apperrors.NewNotFoundError("journal entry " + entry.JournalEntryID)
	}
	entry.Lines = nil
	t.m.entries[entry.JournalEntryID] = entry
	return nil
}

func (t *memTx) ReplaceLines(_ context.Context, entryID string, lines []domain.JournalLine) error {
	t.m.removeLines(entryID)
	t.m.appendLines(lines)
	return nil
}

func (t *memTx) DeleteEntry(_ context.Context, entryID string) error {
	delete(t.m.entries, entryID)
	t.m.removeLines(entryID)
	return nil
}

func (t *memTx) LockEntry(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	return t.m.entryWithLines(entryID)
}

// --- reporting ---

func (m *memStore) AccountActivity(_ context.Context, filter domain.ActivityFilter) ([]domain.AccountActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activity(filter), nil
}

func (m *memStore) LedgerLines(_ context.Context, accountID string, from, to *time.Time) ([]domain.LedgerLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.LedgerLine
	for _, l := range m.lines {
		if l.line.AccountID != accountID {
			continue
		}
		e := m.entries[l.line.JournalEntryID]
		if e.Status == domain.Draft || !inWindow(e.EntryDate, from, to) {
			continue
		}
		out = append(out, domain.LedgerLine{JournalLine: l.line, EntryNumber: e.EntryNumber, EntryDate: e.EntryDate, Reference: e.Reference})
	}
	return out, nil
}

func (m *memStore) CashEntryLines(_ context.Context, cashAccountIDs []string, from, to time.Time) ([]domain.CashEntryLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cash := map[string]bool{}
	for _, id := range cashAccountIDs {
		cash[id] = true
	}
	touches := map[string]bool{}
	for _, l := range m.lines {
		if cash[l.line.AccountID] {
			touches[l.line.JournalEntryID] = true
		}
	}
	var out []domain.CashEntryLine
	for _, l := range m.lines {
		e := m.entries[l.line.JournalEntryID]
		if !touches[e.JournalEntryID] || e.Status == domain.Draft || !inWindow(e.EntryDate, &from, &to) {
			continue
		}
		acc := m.accounts[l.line.AccountID]
		out = append(out, domain.CashEntryLine{
			JournalLine:   l.line,
			EntryNumber:   e.EntryNumber,
			EntryDate:     e.EntryDate,
			AccountCode:   acc.Code,
			AccountName:   acc.Name,
			AccountType:   acc.AccountType,
			Subtype:       acc.Subtype,
			NormalBalance: acc.NormalBalance,
		})
	}
	return out, nil
}

// --- helpers, mu held ---

func (m *memStore) activity(filter domain.ActivityFilter) []domain.AccountActivity {
	ids := map[string]bool{}
	for _, id := range filter.AccountIDs {
		ids[id] = true
	}
	var out []domain.AccountActivity
	for _, acc := range m.sortedAccounts() {
		if len(ids) > 0 && !ids[acc.AccountID] {
			continue
		}
		if len(filter.Types) > 0 && !hasType(filter.Types, acc.AccountType) {
			continue
		}
		if filter.ActiveOnly && !acc.IsActive {
			continue
		}
		a := domain.AccountActivity{Account: acc, Debit: decimal.Zero, Credit: decimal.Zero}
		for _, l := range m.lines {
			if l.line.AccountID != acc.AccountID {
				continue
			}
			e := m.entries[l.line.JournalEntryID]
			if e.Status == domain.Draft || !inWindow(e.EntryDate, filter.From, filter.To) {
				continue
			}
			a.Debit = a.Debit.Add(l.line.Debit)
			a.Credit = a.Credit.Add(l.line.Credit)
		}
		out = append(out, a)
	}
	return out
}

func (m *memStore) sortedAccounts() []domain.Account {
	out := make([]domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (m *memStore) entryWithLines(entryID string) (*domain.JournalEntry, error) {
	e, ok := m.entries[entryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("journal entry " + entryID)
	}
	for _, l := range m.lines {
		if l.line.JournalEntryID == entryID {
			e.Lines = append(e.Lines, l.line)
		}
	}
	sort.SliceStable(e.Lines, func(i, j int) bool { return e.Lines[i].LineOrder < e.Lines[j].LineOrder })
	return &e, nil
}

func (m *memStore) appendLines(lines []domain.JournalLine) {
	for _, l := range lines {
		m.nextSeq++
		m.lines = append(m.lines, memLine{seq: m.nextSeq, line: l})
	}
}

func (m *memStore) removeLines(entryID string) {
	kept := m.lines[:0:0]
	for _, l := range m.lines {
		if l.line.JournalEntryID != entryID {
			kept = append(kept, l)
		}
	}
	m.lines = kept
}

func inWindow(day time.Time, from, to *time.Time) bool {
	if from != nil && day.Before(*from) {
		return false
	}
	if to != nil && day.After(*to) {
		return false
	}
	return true
}

func hasType(types []domain.AccountType, t domain.AccountType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}
