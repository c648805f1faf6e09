package services

import (
	"context"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	"github.com/SscSPs/member_ledger_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its chart code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves accounts ordered by code.
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account with current balance equal to its opening balance.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)

	// UpdateAccount updates descriptive fields of a non-system account.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error)

	// ActivateAccount marks an account as active.
	ActivateAccount(ctx context.Context, accountID string, actorID string) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, actorID string) error

	// DeleteAccount removes an account with no children and no activity.
	DeleteAccount(ctx context.Context, accountID string, actorID string) error

	// SeedChart creates the accounts whose codes do not exist yet.
	SeedChart(ctx context.Context, chart []domain.ChartAccount, actorID string) (int, error)
}

// AccountResolverSvc resolves well-known accounts for the transaction recorders
type AccountResolverSvc interface {
	// FindByRole returns the active account mapped to role.
	FindByRole(ctx context.Context, role domain.AccountRole) (*domain.Account, error)

	// FindExpenseAccount returns the active account mapped to an expense category.
	FindExpenseAccount(ctx context.Context, category string) (*domain.Account, error)

	// CashAccountID returns the ID of the account mapped to the cash role, or "" when unmapped.
	CashAccountID(ctx context.Context) string
}

// AccountReconcilerSvc detects and repairs drift between cached and computed balances
type AccountReconcilerSvc interface {
	ReconcileBalances(ctx context.Context, repair bool, actorID string) (*domain.ReconciliationResult, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountResolverSvc
	AccountReconcilerSvc
}
