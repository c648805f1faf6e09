package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/member_ledger_app/internal/apperrors"
	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/member_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/member_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/member_ledger_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	txRunner    portsrepo.TransactionRunner
	roles       domain.RoleMapping
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, txRunner portsrepo.TransactionRunner, roles domain.RoleMapping, options ...Option) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		txRunner:    txRunner,
		roles:       roles,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, apperrors.NewValidationError("account code is required")
	}
	if !req.AccountType.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown account type %q", req.AccountType))
	}
	if !domain.HasAmountScale(req.OpeningBalance) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("opening balance can have at most %d decimal places", domain.AmountScale))
	}
	normal := req.NormalBalance
	if normal == "" {
		normal = domain.DefaultNormalBalance(req.AccountType)
	}
	if !normal.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown normal balance %q", normal))
	}

	if existing, err := s.accountRepo.FindAccountByCode(ctx, code); err == nil && existing != nil {
		return nil, &apperrors.DuplicateCodeError{Code: code}
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code", slog.String("code", code))
		return nil, err
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID
		if _, err := s.accountRepo.FindAccountByID(ctx, parentID); err != nil {
			s.LogError(ctx, err, "Failed to find parent account", slog.String("parent_id", parentID))
			return nil, fmt.Errorf("invalid parent account: %w", err)
		}
	}

	now := s.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		Subtype:         req.Subtype,
		NormalBalance:   normal,
		ParentAccountID: parentID,
		Description:     req.Description,
		OpeningBalance:  req.OpeningBalance,
		CurrentBalance:  req.OpeningBalance,
		IsActive:        true,
		IsSystemAccount: req.IsSystemAccount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsSystemAccount {
		return nil, &apperrors.SystemAccountError{AccountID: accountID, Operation: "edit"}
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperrors.NewValidationError("account name cannot be empty")
		}
		account.Name = *req.Name
	}
	if req.Subtype != nil {
		account.Subtype = *req.Subtype
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.ParentAccountID != nil {
		parentID := *req.ParentAccountID
		if parentID == accountID {
			return nil, apperrors.NewValidationError("account cannot be its own parent")
		}
		if parentID != "" {
			if _, err := s.accountRepo.FindAccountByID(ctx, parentID); err != nil {
				return nil, fmt.Errorf("invalid parent account: %w", err)
			}
		}
		account.ParentAccountID = parentID
	}

	account.LastUpdatedAt = s.Now()
	account.LastUpdatedBy = actorID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

func (s *accountService) ActivateAccount(ctx context.Context, accountID string, actorID string) error {
	return s.setActive(ctx, accountID, true, actorID)
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, actorID string) error {
	return s.setActive(ctx, accountID, false, actorID)
}

func (s *accountService) setActive(ctx context.Context, accountID string, active bool, actorID string) error {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	op := "deactivate"
	if active {
		op = "activate"
	}
	if account.IsSystemAccount {
		return &apperrors.SystemAccountError{AccountID: accountID, Operation: op}
	}
	if err := s.accountRepo.SetAccountActive(ctx, accountID, active, actorID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to "+op+" account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account active flag changed",
		slog.String("account_id", accountID),
		slog.Bool("is_active", active))
	return nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string, actorID string) error {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.IsSystemAccount {
		return &apperrors.SystemAccountError{AccountID: accountID, Operation: "delete"}
	}

	children, err := s.accountRepo.CountChildAccounts(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count child accounts", slog.String("account_id", accountID))
		return err
	}
	if children > 0 {
		return &apperrors.HasChildrenError{AccountID: accountID, Children: children}
	}

	hasLines, err := s.accountRepo.HasJournalLines(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check account activity", slog.String("account_id", accountID))
		return err
	}
	if hasLines {
		return &apperrors.HasActivityError{AccountID: accountID}
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted",
		slog.String("account_id", accountID),
		slog.String("code", account.Code),
		slog.String("actor_id", actorID))
	return nil
}

// SeedChart creates chart accounts in file order, resolving parent codes as it goes.
// Existing codes are left untouched.
func (s *accountService) SeedChart(ctx context.Context, chart []domain.ChartAccount, actorID string) (int, error) {
	created := 0
	for _, def := range chart {
		if _, err := s.accountRepo.FindAccountByCode(ctx, def.Code); err == nil {
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return created, err
		}

		req := dto.CreateAccountRequest{
			Code:            def.Code,
			Name:            def.Name,
			AccountType:     def.Type,
			Subtype:         def.Subtype,
			NormalBalance:   def.NormalBalance,
			Description:     def.Description,
			OpeningBalance:  def.OpeningBalance,
			IsSystemAccount: def.IsSystem,
		}
		if def.ParentCode != "" {
			parent, err := s.accountRepo.FindAccountByCode(ctx, def.ParentCode)
			if err != nil {
				return created, fmt.Errorf("chart account %s: parent %s: %w", def.Code, def.ParentCode, err)
			}
			req.ParentAccountID = &parent.AccountID
		}
		if _, err := s.CreateAccount(ctx, req, actorID); err != nil {
			return created, fmt.Errorf("chart account %s: %w", def.Code, err)
		}
		created++
	}
	s.LogInfo(ctx, "Chart of accounts seeded", slog.Int("created", created), slog.Int("defined", len(chart)))
	return created, nil
}

// FindByRole resolves a role through the configured mapping. Unmapped, missing
// and inactive accounts all yield *apperrors.AccountNotConfiguredError.
func (s *accountService) FindByRole(ctx context.Context, role domain.AccountRole) (*domain.Account, error) {
	code, ok := s.roles.CodeForRole(role)
	if !ok {
		return nil, &apperrors.AccountNotConfiguredError{Role: string(role)}
	}
	return s.findConfigured(ctx, string(role), code)
}

func (s *accountService) FindExpenseAccount(ctx context.Context, category string) (*domain.Account, error) {
	key := strings.ToLower(strings.TrimSpace(category))
	code, ok := s.roles.CodeForCategory(key)
	if !ok {
		return nil, &apperrors.AccountNotConfiguredError{Role: "expense:" + key}
	}
	return s.findConfigured(ctx, "expense:"+key, code)
}

func (s *accountService) findConfigured(ctx context.Context, role, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, &apperrors.AccountNotConfiguredError{Role: role, Code: code}
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, &apperrors.AccountNotConfiguredError{Role: role, Code: code}
	}
	return account, nil
}

func (s *accountService) CashAccountID(ctx context.Context) string {
	account, err := s.FindByRole(ctx, domain.RoleCash)
	if err != nil {
		return ""
	}
	return account.AccountID
}

// ReconcileBalances recomputes every balance from posted history under row locks.
// The rows are locked before history is read, so a post committing concurrently is
// either wholly visible or blocked until the reconciliation commits.
// With repair, drifted balances are overwritten in the same transaction.
func (s *accountService) ReconcileBalances(ctx context.Context, repair bool, actorID string) (*domain.ReconciliationResult, error) {
	result := &domain.ReconciliationResult{RunAt: s.Now()}

	accounts, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for reconciliation")
		return nil, err
	}
	ids := make([]string, len(accounts))
	for i, acc := range accounts {
		ids[i] = acc.AccountID
	}
	sort.Strings(ids)

	err = s.txRunner.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		locked, err := tx.LockAccountsForUpdate(ctx, ids)
		if err != nil {
			return err
		}

		activity, err := tx.PostedActivity(ctx, domain.ActivityFilter{AccountIDs: ids})
		if err != nil {
			return err
		}
		computed := make(map[string]decimal.Decimal, len(activity))
		for _, a := range activity {
			computed[a.AccountID] = a.Balance()
		}

		result.CheckedAccounts = len(locked)

		fixes := make(map[string]decimal.Decimal)
		for _, id := range ids {
			acc := locked[id]
			want := computed[id]
			if acc.CurrentBalance.Equal(want) {
				continue
			}
			result.Drifts = append(result.Drifts, domain.BalanceDrift{
				AccountID:  id,
				Code:       acc.Code,
				Name:       acc.Name,
				Cached:     acc.CurrentBalance,
				Computed:   want,
				Difference: acc.CurrentBalance.Sub(want),
			})
			fixes[id] = want
		}

		if !repair || len(fixes) == 0 {
			return nil
		}
		if err := tx.SetAccountBalances(ctx, fixes, actorID, result.RunAt); err != nil {
			return err
		}
		result.Repaired = true
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Balance reconciliation failed")
		return nil, err
	}

	sort.Slice(result.Drifts, func(i, j int) bool {
		return result.Drifts[i].Code < result.Drifts[j].Code
	})
	for _, d := range result.Drifts {
		s.LogWarn(ctx, "Account balance drift detected",
			slog.String("account_id", d.AccountID),
			slog.String("code", d.Code),
			slog.String("cached", d.Cached.String()),
			slog.String("computed", d.Computed.String()))
	}
	s.LogInfo(ctx, "Balance reconciliation finished",
		slog.Int("checked", result.CheckedAccounts),
		slog.Int("drifts", len(result.Drifts)),
		slog.Bool("repaired", result.Repaired))
	return result, nil
}
