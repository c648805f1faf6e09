package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/member_ledger_app/internal/apperrors"
	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/member_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/member_ledger_app/internal/core/services"
	"github.com/SscSPs/member_ledger_app/internal/dto"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CountChildAccounts(ctx context.Context, accountID string) (int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) HasJournalLines(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SetAccountActive(ctx context.Context, accountID string, active bool, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, active, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo, nil, testRoles(),
		services.WithNow(func() time.Time { return fixedNow }))
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:           "1000",
		Name:           "Cash on hand",
		AccountType:    domain.Asset,
		Subtype:        domain.SubtypeCash,
		OpeningBalance: decimal.NewFromInt(250),
	}

	suite.mockRepo.On("FindAccountByCode", ctx, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, actorID)

	suite.Require().NoError(err)
	suite.NotEmpty(created.AccountID)
	suite.Equal(domain.NormalDebit, created.NormalBalance, "asset defaults to debit normal")
	suite.True(created.CurrentBalance.Equal(decimal.NewFromInt(250)))
	suite.True(created.IsActive)
	suite.Equal(actorID, created.CreatedBy)
	suite.Equal(fixedNow, created.CreatedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "4000").Return(&domain.Account{AccountID: "a", Code: "4000"}, nil).Once()

	created, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Code: "4000", Name: "Dues", AccountType: domain.Revenue}, actorID)

	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	var dup *apperrors.DuplicateCodeError
	suite.True(errors.As(err, &dup))
	suite.Equal("4000", dup.Code)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "2000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(assert.AnError).Once()

	created, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Code: "2000", Name: "Payables", AccountType: domain.Liability}, actorID)

	suite.Nil(created)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	_, err := suite.service.CreateAccount(context.Background(), dto.CreateAccountRequest{Code: "9", Name: "x", AccountType: "OTHER"}, actorID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SubCentOpeningBalance() {
	req := dto.CreateAccountRequest{Code: "1100", Name: "Bank", AccountType: domain.Asset, OpeningBalance: decimal.RequireFromString("12.345")}

	_, err := suite.service.CreateAccount(context.Background(), req, actorID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	testID := uuid.NewString()
	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByID(ctx, testID)

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestSystemAccountIsProtected() {
	ctx := context.Background()
	sys := &domain.Account{AccountID: "sys", Code: "1000", IsSystemAccount: true}
	suite.mockRepo.On("FindAccountByID", ctx, "sys").Return(sys, nil)

	name := "renamed"
	_, err := suite.service.UpdateAccount(ctx, "sys", dto.UpdateAccountRequest{Name: &name}, actorID)
	suite.ErrorIs(err, apperrors.ErrConflict)

	suite.ErrorIs(suite.service.DeactivateAccount(ctx, "sys", actorID), apperrors.ErrConflict)

	err = suite.service.DeleteAccount(ctx, "sys", actorID)
	var sysErr *apperrors.SystemAccountError
	suite.Require().True(errors.As(err, &sysErr))
	suite.Equal("delete", sysErr.Operation)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Guards() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "parent").Return(&domain.Account{AccountID: "parent"}, nil)
	suite.mockRepo.On("CountChildAccounts", ctx, "parent").Return(2, nil).Once()

	err := suite.service.DeleteAccount(ctx, "parent", actorID)
	var children *apperrors.HasChildrenError
	suite.Require().True(errors.As(err, &children))
	suite.Equal(2, children.Children)

	suite.mockRepo.On("FindAccountByID", ctx, "used").Return(&domain.Account{AccountID: "used"}, nil)
	suite.mockRepo.On("CountChildAccounts", ctx, "used").Return(0, nil).Once()
	suite.mockRepo.On("HasJournalLines", ctx, "used").Return(true, nil).Once()

	err = suite.service.DeleteAccount(ctx, "used", actorID)
	var activity *apperrors.HasActivityError
	suite.True(errors.As(err, &activity))

	suite.mockRepo.On("FindAccountByID", ctx, "free").Return(&domain.Account{AccountID: "free"}, nil)
	suite.mockRepo.On("CountChildAccounts", ctx, "free").Return(0, nil).Once()
	suite.mockRepo.On("HasJournalLines", ctx, "free").Return(false, nil).Once()
	suite.mockRepo.On("DeleteAccount", ctx, "free").Return(nil).Once()

	suite.NoError(suite.service.DeleteAccount(ctx, "free", actorID))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SelfParentRejected() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "a").Return(&domain.Account{AccountID: "a"}, nil)

	self := "a"
	_, err := suite.service.UpdateAccount(ctx, "a", dto.UpdateAccountRequest{ParentAccountID: &self}, actorID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestFindByRole() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "1000").Return(&domain.Account{AccountID: "cash", Code: "1000", IsActive: true}, nil).Once()
	suite.mockRepo.On("FindAccountByCode", ctx, "4000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByCode", ctx, "4100").Return(&domain.Account{AccountID: "p", Code: "4100", IsActive: false}, nil).Once()

	cash, err := suite.service.FindByRole(ctx, domain.RoleCash)
	suite.Require().NoError(err)
	suite.Equal("cash", cash.AccountID)

	_, err = suite.service.FindByRole(ctx, domain.RoleContributionRevenue)
	var cfgErr *apperrors.AccountNotConfiguredError
	suite.Require().True(errors.As(err, &cfgErr))
	suite.Equal("4000", cfgErr.Code)

	_, err = suite.service.FindByRole(ctx, domain.RolePaymentRevenue)
	suite.ErrorIs(err, apperrors.ErrNotConfigured, "inactive accounts are not usable")

	_, err = suite.service.FindByRole(ctx, "unknown_role")
	suite.ErrorIs(err, apperrors.ErrNotConfigured)
}

// --- reconciliation and seeding run against the in-memory ledger ---

func TestReconcileBalances_DetectsAndRepairsDrift(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	_, err := f.recorder.RecordContribution(ctx, "42", dec(500), jan10, "", actorID)
	require.NoError(t, err)

	result, err := f.accounts.ReconcileBalances(ctx, false, actorID)
	require.NoError(t, err)
	assert.Empty(t, result.Drifts)
	assert.Equal(t, 9, result.CheckedAccounts)

	f.store.setBalance(f.cash.AccountID, dec(450))

	result, err = f.accounts.ReconcileBalances(ctx, false, actorID)
	require.NoError(t, err)
	require.Len(t, result.Drifts, 1)
	drift := result.Drifts[0]
	assert.Equal(t, "1000", drift.Code)
	assert.True(t, drift.Cached.Equal(dec(450)))
	assert.True(t, drift.Computed.Equal(dec(500)))
	assert.True(t, drift.Difference.Equal(dec(-50)))
	assert.False(t, result.Repaired)
	assert.True(t, f.store.balance(f.cash.AccountID).Equal(dec(450)), "detect-only leaves balances alone")

	result, err = f.accounts.ReconcileBalances(ctx, true, actorID)
	require.NoError(t, err)
	assert.True(t, result.Repaired)
	assert.True(t, f.store.balance(f.cash.AccountID).Equal(dec(500)))
}

func TestSeedChart_ResolvesParentsAndSkipsExisting(t *testing.T) {
	store := newMemStore()
	store.addAccount("1000", domain.Asset, domain.SubtypeCash, decimal.Zero)
	svc := services.NewAccountService(store, store, testRoles())
	ctx := context.Background()

	chart := []domain.ChartAccount{
		{Code: "1000", Name: "Cash", Type: domain.Asset, Subtype: domain.SubtypeCash},
		{Code: "5000", Name: "Expenses", Type: domain.Expense},
		{Code: "5200", Name: "Rent", Type: domain.Expense, ParentCode: "5000", IsSystem: true},
	}

	created, err := svc.SeedChart(ctx, chart, "system")
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	parent, err := store.FindAccountByCode(ctx, "5000")
	require.NoError(t, err)
	rent, err := store.FindAccountByCode(ctx, "5200")
	require.NoError(t, err)
	assert.Equal(t, parent.AccountID, rent.ParentAccountID)
	assert.True(t, rent.IsSystemAccount)
	assert.Equal(t, domain.NormalDebit, rent.NormalBalance)

	created, err = svc.SeedChart(ctx, chart, "system")
	require.NoError(t, err)
	assert.Zero(t, created, "seeding is idempotent")
}
