package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/member_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/member_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ActivateAccount(ctx context.Context, accountID string, actorID string) error {
	return m.Called(ctx, accountID, actorID).Error(0)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, actorID string) error {
	return m.Called(ctx, accountID, actorID).Error(0)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string, actorID string) error {
	return m.Called(ctx, accountID, actorID).Error(0)
}

func (m *MockAccountService) SeedChart(ctx context.Context, chart []domain.ChartAccount, actorID string) (int, error) {
	args := m.Called(ctx, chart, actorID)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountService) FindByRole(ctx context.Context, role domain.AccountRole) (*domain.Account, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) FindExpenseAccount(ctx context.Context, category string) (*domain.Account, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) CashAccountID(ctx context.Context) string {
	return m.Called(ctx).String(0)
}

func (m *MockAccountService) ReconcileBalances(ctx context.Context, repair bool, actorID string) (*domain.ReconciliationResult, error) {
	args := m.Called(ctx, repair, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationResult), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) entry(args mock.Arguments) (*domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, entryID))
}

func (m *MockJournalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalEntriesResponse), args.Error(1)
}

func (m *MockJournalService) CreateDraft(ctx context.Context, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, req, actorID))
}

func (m *MockJournalService) UpdateDraft(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, entryID, req, actorID))
}

func (m *MockJournalService) DeleteDraft(ctx context.Context, entryID string, actorID string) error {
	return m.Called(ctx, entryID, actorID).Error(0)
}

func (m *MockJournalService) Post(ctx context.Context, entryID string, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, entryID, actorID))
}

func (m *MockJournalService) Reverse(ctx context.Context, entryID string, reason string, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, entryID, reason, actorID))
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock RecorderService ---
type MockRecorderService struct {
	mock.Mock
}

func (m *MockRecorderService) entry(args mock.Arguments) (*domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockRecorderService) RecordContribution(ctx context.Context, memberID string, amount decimal.Decimal, date time.Time, purpose string, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, memberID, amount, date, purpose, actorID))
}

func (m *MockRecorderService) RecordPayment(ctx context.Context, memberID string, amount decimal.Decimal, date time.Time, purpose string, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, memberID, amount, date, purpose, actorID))
}

func (m *MockRecorderService) RecordDisasterPayment(ctx context.Context, memberID string, amount decimal.Decimal, date time.Time, purpose string, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, memberID, amount, date, purpose, actorID))
}

func (m *MockRecorderService) RecordExpense(ctx context.Context, amount decimal.Decimal, date time.Time, category string, description string, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, amount, date, category, description, actorID))
}

func (m *MockRecorderService) RecordLoanDisbursement(ctx context.Context, memberID string, amount decimal.Decimal, purpose string, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, memberID, amount, purpose, actorID))
}

func (m *MockRecorderService) RecordLoanRepayment(ctx context.Context, memberID string, principal decimal.Decimal, interest decimal.Decimal, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, memberID, principal, interest, actorID))
}

func (m *MockRecorderService) RecordPenaltyPayment(ctx context.Context, memberID string, amount decimal.Decimal, reason string, month string, actorID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, memberID, amount, reason, month, actorID))
}

var _ portssvc.RecorderSvc = (*MockRecorderService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, asOf time.Time, types ...domain.AccountType) (*domain.TrialBalanceReport, error) {
	args := m.Called(ctx, asOf, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalanceReport), args.Error(1)
}

func (m *MockReportingService) GeneralLedger(ctx context.Context, accountID string, from, to *time.Time) (*domain.GeneralLedgerReport, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneralLedgerReport), args.Error(1)
}

func (m *MockReportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheetReport), args.Error(1)
}

func (m *MockReportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatementReport), args.Error(1)
}

func (m *MockReportingService) CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlowReport), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)
