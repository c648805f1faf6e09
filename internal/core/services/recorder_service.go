package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/member_ledger_app/internal/apperrors"
	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/member_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/member_ledger_app/internal/core/ports/services"
)

// recorderService maps business events onto auto-posted journal entries.
type recorderService struct {
	BaseService
	accounts portssvc.AccountResolverSvc
	txRunner portsrepo.TransactionRunner
}

// NewRecorderService creates a new RecorderSvc.
func NewRecorderService(accounts portssvc.AccountResolverSvc, txRunner portsrepo.TransactionRunner, options ...Option) portssvc.RecorderSvc {
	svc := &recorderService{
		accounts: accounts,
		txRunner: txRunner,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.RecorderSvc = (*recorderService)(nil)

// eventEntry is what a recorder hands to record once its accounts are resolved.
type eventEntry struct {
	event       string
	date        time.Time
	reference   string
	description string
	lines       []domain.JournalLine
	outflow     decimal.Decimal // zero for inflows
	cashID      string
}

// record posts ev in one transaction. Outflows are guarded against the locked cash row.
func (s *recorderService) record(ctx context.Context, ev eventEntry, actorID string) (*domain.JournalEntry, error) {
	entry := &domain.JournalEntry{
		EntryDate:         domain.DateOnly(ev.date),
		Reference:         ev.reference,
		Description:       ev.description,
		IsSystemGenerated: true,
		Lines:             ev.lines,
	}
	var guard *cashGuard
	if ev.outflow.IsPositive() {
		guard = &cashGuard{accountID: ev.cashID, amount: ev.outflow}
	}

	err := s.txRunner.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return postNewEntry(ctx, tx, entry, guard, actorID, s.Now())
	})
	if err != nil {
		var fundsErr *apperrors.InsufficientFundsError
		if errors.As(err, &fundsErr) {
			s.LogWarn(ctx, "Outflow rejected by cash guard",
				slog.String("event", ev.event),
				slog.String("reference", ev.reference),
				slog.String("required", fundsErr.Required.String()),
				slog.String("available", fundsErr.Available.String()))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to record event",
			slog.String("event", ev.event),
			slog.String("reference", ev.reference))
		return nil, err
	}

	s.LogInfo(ctx, "Event recorded",
		slog.String("event", ev.event),
		slog.String("journal_entry_id", entry.JournalEntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("amount", entry.TotalDebit.String()),
		slog.String("actor_id", actorID))
	return entry, nil
}

// skipped logs a configuration gap. The event is not recorded and no error is returned.
func (s *recorderService) skipped(ctx context.Context, event string, err error) (*domain.JournalEntry, error) {
	var cfgErr *apperrors.AccountNotConfiguredError
	if errors.As(err, &cfgErr) {
		s.LogWarn(ctx, "Recording skipped, account not configured",
			slog.String("event", event),
			slog.String("role", cfgErr.Role),
			slog.String("code", cfgErr.Code))
		return nil, nil
	}
	s.LogError(ctx, err, "Failed to resolve accounts", slog.String("event", event))
	return nil, err
}

func requirePositive(name string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationError(name + " must be greater than zero")
	}
	if !domain.HasAmountScale(amount) {
		return apperrors.NewValidationError(fmt.Sprintf("%s can have at most %d decimal places", name, domain.AmountScale))
	}
	return nil
}

// resolvePair finds cash and the counterpart account for role.
func (s *recorderService) resolvePair(ctx context.Context, role domain.AccountRole) (cash, other *domain.Account, err error) {
	if cash, err = s.accounts.FindByRole(ctx, domain.RoleCash); err != nil {
		return nil, nil, err
	}
	if other, err = s.accounts.FindByRole(ctx, role); err != nil {
		return nil, nil, err
	}
	return cash, other, nil
}

func describe(base, detail string) string {
	if strings.TrimSpace(detail) == "" {
		return base
	}
	return base + ": " + detail
}

func (s *recorderService) RecordContribution(ctx context.Context, memberID string, amount decimal.Decimal, date time.Time, purpose string, actorID string) (*domain.JournalEntry, error) {
	return s.recordReceipt(ctx, "contribution", domain.RoleContributionRevenue, "CONTRIB-", "Member contribution",
		memberID, amount, date, purpose, actorID)
}

func (s *recorderService) RecordPayment(ctx context.Context, memberID string, amount decimal.Decimal, date time.Time, purpose string, actorID string) (*domain.JournalEntry, error) {
	return s.recordReceipt(ctx, "payment", domain.RolePaymentRevenue, "PAY-", "Member payment",
		memberID, amount, date, purpose, actorID)
}

// recordReceipt books Dr cash / Cr revenue for money received from a member.
func (s *recorderService) recordReceipt(ctx context.Context, event string, role domain.AccountRole, prefix, label string,
	memberID string, amount decimal.Decimal, date time.Time, purpose string, actorID string) (*domain.JournalEntry, error) {
	if err := requirePositive("amount", amount); err != nil {
		return nil, err
	}
	cash, revenue, err := s.resolvePair(ctx, role)
	if err != nil {
		return s.skipped(ctx, event, err)
	}
	desc := describe(fmt.Sprintf("%s from member %s", label, memberID), purpose)
	return s.record(ctx, eventEntry{
		event:       event,
		date:        date,
		reference:   prefix + memberID,
		description: desc,
		lines: []domain.JournalLine{
			domain.NewLine(cash.AccountID, domain.Debit, amount, desc),
			domain.NewLine(revenue.AccountID, domain.Credit, amount, desc),
		},
	}, actorID)
}

func (s *recorderService) RecordDisasterPayment(ctx context.Context, memberID string, amount decimal.Decimal, date time.Time, purpose string, actorID string) (*domain.JournalEntry, error) {
	if err := requirePositive("amount", amount); err != nil {
		return nil, err
	}
	cash, expense, err := s.resolvePair(ctx, domain.RoleDisasterReliefExpense)
	if err != nil {
		return s.skipped(ctx, "disaster_payment", err)
	}
	desc := describe("Disaster relief paid to member "+memberID, purpose)
	return s.record(ctx, eventEntry{
		event:       "disaster_payment",
		date:        date,
		reference:   "DISASTER-" + memberID,
		description: desc,
		lines: []domain.JournalLine{
			domain.NewLine(expense.AccountID, domain.Debit, amount, desc),
			domain.NewLine(cash.AccountID, domain.Credit, amount, desc),
		},
		outflow: amount,
		cashID:  cash.AccountID,
	}, actorID)
}

func (s *recorderService) RecordExpense(ctx context.Context, amount decimal.Decimal, date time.Time, category string, description string, actorID string) (*domain.JournalEntry, error) {
	if err := requirePositive("amount", amount); err != nil {
		return nil, err
	}
	cash, err := s.accounts.FindByRole(ctx, domain.RoleCash)
	if err != nil {
		return s.skipped(ctx, "expense", err)
	}
	expense, err := s.accounts.FindExpenseAccount(ctx, category)
	if err != nil {
		return s.skipped(ctx, "expense", err)
	}
	key := strings.ToLower(strings.TrimSpace(category))
	desc := describe("Expense "+key, description)
	return s.record(ctx, eventEntry{
		event:       "expense",
		date:        date,
		reference:   "EXP-" + key,
		description: desc,
		lines: []domain.JournalLine{
			domain.NewLine(expense.AccountID, domain.Debit, amount, desc),
			domain.NewLine(cash.AccountID, domain.Credit, amount, desc),
		},
		outflow: amount,
		cashID:  cash.AccountID,
	}, actorID)
}

func (s *recorderService) RecordLoanDisbursement(ctx context.Context, memberID string, amount decimal.Decimal, purpose string, actorID string) (*domain.JournalEntry, error) {
	if err := requirePositive("amount", amount); err != nil {
		return nil, err
	}
	cash, loans, err := s.resolvePair(ctx, domain.RoleLoansReceivable)
	if err != nil {
		return s.skipped(ctx, "loan_disbursement", err)
	}
	desc := describe("Loan disbursed to member "+memberID, purpose)
	return s.record(ctx, eventEntry{
		event:       "loan_disbursement",
		date:        s.Now(),
		reference:   "LOAN-" + memberID,
		description: desc,
		lines: []domain.JournalLine{
			domain.NewLine(loans.AccountID, domain.Debit, amount, desc),
			domain.NewLine(cash.AccountID, domain.Credit, amount, desc),
		},
		outflow: amount,
		cashID:  cash.AccountID,
	}, actorID)
}

// RecordLoanRepayment books Dr cash principal+interest, Cr loans receivable, Cr interest income.
// The interest line is omitted when interest is zero.
func (s *recorderService) RecordLoanRepayment(ctx context.Context, memberID string, principal decimal.Decimal, interest decimal.Decimal, actorID string) (*domain.JournalEntry, error) {
	if err := requirePositive("principal", principal); err != nil {
		return nil, err
	}
	if interest.IsNegative() {
		return nil, apperrors.NewValidationError("interest cannot be negative")
	}
	if !domain.HasAmountScale(interest) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("interest can have at most %d decimal places", domain.AmountScale))
	}
	cash, loans, err := s.resolvePair(ctx, domain.RoleLoansReceivable)
	if err != nil {
		return s.skipped(ctx, "loan_repayment", err)
	}

	desc := "Loan repayment from member " + memberID
	lines := []domain.JournalLine{
		domain.NewLine(cash.AccountID, domain.Debit, principal.Add(interest), desc),
		domain.NewLine(loans.AccountID, domain.Credit, principal, desc+" (principal)"),
	}
	if interest.IsPositive() {
		income, err := s.accounts.FindByRole(ctx, domain.RoleInterestIncome)
		if err != nil {
			return s.skipped(ctx, "loan_repayment", err)
		}
		lines = append(lines, domain.NewLine(income.AccountID, domain.Credit, interest, desc+" (interest)"))
	}

	return s.record(ctx, eventEntry{
		event:       "loan_repayment",
		date:        s.Now(),
		reference:   "LOANREPAY-" + memberID,
		description: desc,
		lines:       lines,
	}, actorID)
}

func (s *recorderService) RecordPenaltyPayment(ctx context.Context, memberID string, amount decimal.Decimal, reason string, month string, actorID string) (*domain.JournalEntry, error) {
	if err := requirePositive("amount", amount); err != nil {
		return nil, err
	}
	cash, income, err := s.resolvePair(ctx, domain.RolePenaltyIncome)
	if err != nil {
		return s.skipped(ctx, "penalty_payment", err)
	}
	desc := describe(fmt.Sprintf("Penalty from member %s for %s", memberID, month), reason)
	return s.record(ctx, eventEntry{
		event:       "penalty_payment",
		date:        s.Now(),
		reference:   "PENALTY-" + memberID,
		description: desc,
		lines: []domain.JournalLine{
			domain.NewLine(cash.AccountID, domain.Debit, amount, desc),
			domain.NewLine(income.AccountID, domain.Credit, amount, desc),
		},
	}, actorID)
}
