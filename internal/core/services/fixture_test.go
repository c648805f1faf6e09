package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/member_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/member_ledger_app/internal/core/services"
	"github.com/SscSPs/member_ledger_app/internal/dto"
)

const actorID = "user-1"

var (
	fixedNow = time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	jan10    = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ledgerFixture wires real services over a memStore with the standard chart.
type ledgerFixture struct {
	store     *memStore
	accounts  portssvc.AccountSvcFacade
	journal   portssvc.JournalSvcFacade
	recorder  portssvc.RecorderSvc
	reporting portssvc.ReportingService

	cash, loans, contribution, payment, interest, penalty, disaster, rent, other domain.Account
}

func testRoles() domain.RoleMapping {
	return domain.RoleMapping{
		Roles: map[domain.AccountRole]string{
			domain.RoleCash:                  "1000",
			domain.RoleLoansReceivable:       "1200",
			domain.RoleContributionRevenue:   "4000",
			domain.RolePaymentRevenue:        "4100",
			domain.RoleInterestIncome:        "4200",
			domain.RolePenaltyIncome:         "4300",
			domain.RoleDisasterReliefExpense: "5100",
			domain.RoleExpenseOther:          "5900",
		},
		ExpenseCategories: map[string]string{"rent": "5200"},
	}
}

func newLedgerFixture() *ledgerFixture {
	store := newMemStore()
	f := &ledgerFixture{store: store}
	f.cash = store.addAccount("1000", domain.Asset, domain.SubtypeCash, decimal.Zero)
	f.loans = store.addAccount("1200", domain.Asset, domain.SubtypeLoanReceivable, decimal.Zero)
	f.contribution = store.addAccount("4000", domain.Revenue, "", decimal.Zero)
	f.payment = store.addAccount("4100", domain.Revenue, "", decimal.Zero)
	f.interest = store.addAccount("4200", domain.Revenue, "", decimal.Zero)
	f.penalty = store.addAccount("4300", domain.Revenue, "", decimal.Zero)
	f.disaster = store.addAccount("5100", domain.Expense, "", decimal.Zero)
	f.rent = store.addAccount("5200", domain.Expense, "", decimal.Zero)
	f.other = store.addAccount("5900", domain.Expense, "", decimal.Zero)

	clock := services.WithNow(func() time.Time { return fixedNow })
	f.accounts = services.NewAccountService(store, store, testRoles(), clock)
	f.journal = services.NewJournalService(store, store, clock)
	f.recorder = services.NewRecorderService(f.accounts, store, clock)
	f.reporting = services.NewReportingService(store, f.accounts, clock)
	return f
}

// draft creates a draft with the given lines dated day.
func (f *ledgerFixture) draft(day time.Time, lines ...dto.JournalLineRequest) (*domain.JournalEntry, error) {
	return f.journal.CreateDraft(context.Background(), dto.CreateJournalEntryRequest{
		EntryDate:   day,
		Reference:   "MANUAL",
		Description: "manual entry",
		Lines:       lines,
	}, actorID)
}

func debitLine(accountID string, amount int64) dto.JournalLineRequest {
	return dto.JournalLineRequest{AccountID: accountID, Debit: dec(amount), Credit: decimal.Zero}
}

func creditLine(accountID string, amount int64) dto.JournalLineRequest {
	return dto.JournalLineRequest{AccountID: accountID, Debit: decimal.Zero, Credit: dec(amount)}
}
