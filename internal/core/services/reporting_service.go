package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/SscSPs/member_ledger_app/internal/apperrors"
	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/member_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/member_ledger_app/internal/core/ports/services"
)

var hundred = decimal.NewFromInt(100)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accounts      portssvc.AccountResolverSvc
	inflight      singleflight.Group
}

// NewReportingService creates a new reporting service. accounts resolves the
// role-mapped cash account for the cash flow statement and may be nil.
func NewReportingService(repo portsrepo.ReportingRepository, accounts portssvc.AccountResolverSvc, options ...Option) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
		accounts:      accounts,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// sharedReportTimeout bounds a coalesced report build once it no longer follows any caller's context.
const sharedReportTimeout = 2 * time.Minute

// coalesce runs fn once for all concurrent callers sharing key.
// The shared build runs detached from the caller that started it, so one caller
// going away cannot fail the others; each caller still stops waiting on its own ctx.
// Callers receive the same report value and must not mutate it.
func coalesce[T any](ctx context.Context, g *singleflight.Group, key string, fn func(context.Context) (*T, error)) (*T, error) {
	resultChan := g.DoChan(key, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedReportTimeout)
		defer cancel()
		return fn(shared)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*T), nil
	}
}

func dayKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

// dayBefore returns the inclusive upper bound for "strictly before t".
func dayBefore(t time.Time) time.Time {
	return domain.DateOnly(t).AddDate(0, 0, -1)
}

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time, types ...domain.AccountType) (*domain.TrialBalanceReport, error) {
	asOf = domain.DateOnly(asOf)
	typeKeys := make([]string, len(types))
	for i, t := range types {
		typeKeys[i] = string(t)
	}
	key := fmt.Sprintf("tb|%s|%s", dayKey(&asOf), strings.Join(typeKeys, ","))

	return coalesce(ctx, &s.inflight, key, func(ctx context.Context) (*domain.TrialBalanceReport, error) {
		activity, err := s.reportingRepo.AccountActivity(ctx, domain.ActivityFilter{
			To:         &asOf,
			Types:      types,
			ActiveOnly: true,
		})
		if err != nil {
			s.LogError(ctx, err, "Failed to get trial balance data", slog.Time("as_of", asOf))
			return nil, err
		}
		sortByCode(activity)

		report := &domain.TrialBalanceReport{
			AsOf:        asOf,
			Rows:        make([]domain.TrialBalanceRow, 0, len(activity)),
			TotalDebit:  decimal.Zero,
			TotalCredit: decimal.Zero,
		}
		for _, a := range activity {
			row := trialBalanceRow(a)
			report.TotalDebit = report.TotalDebit.Add(row.DebitBalance)
			report.TotalCredit = report.TotalCredit.Add(row.CreditBalance)
			report.Rows = append(report.Rows, row)
		}
		report.Difference = report.TotalDebit.Sub(report.TotalCredit)
		report.IsBalanced = domain.WithinTolerance(report.TotalDebit, report.TotalCredit)

		if !report.IsBalanced {
			s.LogWarn(ctx, "Trial balance does not balance",
				slog.Time("as_of", asOf),
				slog.String("difference", report.Difference.String()))
		}
		return report, nil
	})
}

// trialBalanceRow puts a positive balance in the account's natural column and a
// negative one in the opposite column as its absolute value.
func trialBalanceRow(a domain.AccountActivity) domain.TrialBalanceRow {
	balance := a.Balance()
	row := domain.TrialBalanceRow{
		AccountID:     a.AccountID,
		Code:          a.Code,
		Name:          a.Name,
		AccountType:   a.AccountType,
		NormalBalance: a.NormalBalance,
		Balance:       balance,
		DebitBalance:  decimal.Zero,
		CreditBalance: decimal.Zero,
	}
	debitSide := a.NormalBalance == domain.NormalDebit
	if balance.IsNegative() {
		debitSide = !debitSide
	}
	if debitSide {
		row.DebitBalance = balance.Abs()
	} else {
		row.CreditBalance = balance.Abs()
	}
	return row
}

// GeneralLedger lists the posted lines of one account with running balances.
func (s *reportingService) GeneralLedger(ctx context.Context, accountID string, from, to *time.Time) (*domain.GeneralLedgerReport, error) {
	if from != nil {
		f := domain.DateOnly(*from)
		from = &f
	}
	if to != nil {
		t := domain.DateOnly(*to)
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperrors.NewValidationError("to date must not be before from date")
	}
	key := fmt.Sprintf("gl|%s|%s|%s", accountID, dayKey(from), dayKey(to))

	return coalesce(ctx, &s.inflight, key, func(ctx context.Context) (*domain.GeneralLedgerReport, error) {
		var (
			prior []domain.AccountActivity
			lines []domain.LedgerLine
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			filter := domain.ActivityFilter{AccountIDs: []string{accountID}}
			if from != nil {
				before := dayBefore(*from)
				filter.To = &before
			}
			var err error
			prior, err = s.reportingRepo.AccountActivity(gctx, filter)
			return err
		})
		g.Go(func() error {
			var err error
			lines, err = s.reportingRepo.LedgerLines(gctx, accountID, from, to)
			return err
		})
		if err := g.Wait(); err != nil {
			s.LogError(ctx, err, "Failed to get general ledger data", slog.String("account_id", accountID))
			return nil, err
		}
		if len(prior) == 0 {
			return nil, apperrors.NewNotFoundError("account " + accountID)
		}

		acc := prior[0]
		opening := acc.OpeningBalance
		if from != nil {
			opening = acc.Balance()
		}

		report := &domain.GeneralLedgerReport{
			Account:        acc.Account,
			From:           from,
			To:             to,
			OpeningBalance: opening,
			Lines:          make([]domain.GeneralLedgerLine, 0, len(lines)),
			TotalDebit:     decimal.Zero,
			TotalCredit:    decimal.Zero,
		}
		running := opening
		for _, l := range lines {
			running = running.Add(acc.SignedEffect(l.Debit, l.Credit))
			report.TotalDebit = report.TotalDebit.Add(l.Debit)
			report.TotalCredit = report.TotalCredit.Add(l.Credit)
			report.Lines = append(report.Lines, domain.GeneralLedgerLine{
				LineID:         l.LineID,
				JournalEntryID: l.JournalEntryID,
				EntryNumber:    l.EntryNumber,
				EntryDate:      l.EntryDate,
				Reference:      l.Reference,
				Description:    l.Description,
				Debit:          l.Debit,
				Credit:         l.Credit,
				RunningBalance: running,
			})
		}
		report.EndingBalance = running
		return report, nil
	})
}

// BalanceSheet generates a balance sheet as of a specific date
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	asOf = domain.DateOnly(asOf)
	key := "bs|" + dayKey(&asOf)

	return coalesce(ctx, &s.inflight, key, func(ctx context.Context) (*domain.BalanceSheetReport, error) {
		var positions, results []domain.AccountActivity
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			positions, err = s.reportingRepo.AccountActivity(gctx, domain.ActivityFilter{
				To:    &asOf,
				Types: []domain.AccountType{domain.Asset, domain.Liability, domain.Equity},
			})
			return err
		})
		g.Go(func() error {
			var err error
			results, err = s.reportingRepo.AccountActivity(gctx, domain.ActivityFilter{
				To:    &asOf,
				Types: []domain.AccountType{domain.Revenue, domain.Expense},
			})
			return err
		})
		if err := g.Wait(); err != nil {
			s.LogError(ctx, err, "Failed to get balance sheet data", slog.Time("as_of", asOf))
			return nil, err
		}
		sortByCode(positions)

		report := &domain.BalanceSheetReport{
			AsOf:             asOf,
			Assets:           []domain.AccountAmount{},
			Liabilities:      []domain.AccountAmount{},
			Equity:           []domain.AccountAmount{},
			TotalAssets:      decimal.Zero,
			TotalLiabilities: decimal.Zero,
			TotalEquity:      decimal.Zero,
		}
		for _, a := range positions {
			balance := a.Balance()
			if !a.IsActive && balance.IsZero() {
				continue
			}
			item := domain.AccountAmount{AccountID: a.AccountID, Code: a.Code, Name: a.Name, Amount: balance}
			switch a.AccountType {
			case domain.Asset:
				report.Assets = append(report.Assets, item)
				report.TotalAssets = report.TotalAssets.Add(balance)
			case domain.Liability:
				report.Liabilities = append(report.Liabilities, item)
				report.TotalLiabilities = report.TotalLiabilities.Add(balance)
			case domain.Equity:
				report.Equity = append(report.Equity, item)
				report.TotalEquity = report.TotalEquity.Add(balance)
			}
		}

		netIncome := decimal.Zero
		for _, a := range results {
			switch a.AccountType {
			case domain.Revenue:
				netIncome = netIncome.Add(a.Balance())
			case domain.Expense:
				netIncome = netIncome.Sub(a.Balance())
			}
		}
		report.NetIncome = netIncome
		report.TotalEquityWithIncome = report.TotalEquity.Add(netIncome)
		report.TotalLiabilitiesAndEquity = report.TotalLiabilities.Add(report.TotalEquityWithIncome)
		report.Difference = report.TotalAssets.Sub(report.TotalLiabilitiesAndEquity)
		report.IsBalanced = domain.WithinTolerance(report.TotalAssets, report.TotalLiabilitiesAndEquity)

		if !report.IsBalanced {
			s.LogWarn(ctx, "Balance sheet does not balance",
				slog.Time("as_of", asOf),
				slog.String("difference", report.Difference.String()))
		}
		return report, nil
	})
}

// IncomeStatement generates revenue and expense activity within a period.
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if to.Before(from) {
		return nil, apperrors.NewValidationError("to date must not be before from date")
	}
	key := fmt.Sprintf("is|%s|%s", dayKey(&from), dayKey(&to))

	return coalesce(ctx, &s.inflight, key, func(ctx context.Context) (*domain.IncomeStatementReport, error) {
		activity, err := s.reportingRepo.AccountActivity(ctx, domain.ActivityFilter{
			From:  &from,
			To:    &to,
			Types: []domain.AccountType{domain.Revenue, domain.Expense},
		})
		if err != nil {
			s.LogError(ctx, err, "Failed to get income statement data",
				slog.Time("from", from), slog.Time("to", to))
			return nil, err
		}
		sortByCode(activity)

		report := &domain.IncomeStatementReport{
			From:          from,
			To:            to,
			Revenue:       []domain.AccountAmount{},
			Expenses:      []domain.AccountAmount{},
			TotalRevenue:  decimal.Zero,
			TotalExpenses: decimal.Zero,
		}
		for _, a := range activity {
			if a.Debit.IsZero() && a.Credit.IsZero() {
				continue
			}
			// period activity only, opening balances are not carried
			amount := a.SignedEffect(a.Debit, a.Credit)
			item := domain.AccountAmount{AccountID: a.AccountID, Code: a.Code, Name: a.Name, Amount: amount}
			if a.AccountType == domain.Revenue {
				report.Revenue = append(report.Revenue, item)
				report.TotalRevenue = report.TotalRevenue.Add(amount)
			} else {
				report.Expenses = append(report.Expenses, item)
				report.TotalExpenses = report.TotalExpenses.Add(amount)
			}
		}
		applyPercent(report.Revenue, report.TotalRevenue)
		applyPercent(report.Expenses, report.TotalRevenue)
		report.NetIncome = report.TotalRevenue.Sub(report.TotalExpenses)
		return report, nil
	})
}

func applyPercent(items []domain.AccountAmount, totalRevenue decimal.Decimal) {
	for i := range items {
		if totalRevenue.IsZero() {
			items[i].Percent = decimal.Zero
			continue
		}
		items[i].Percent = items[i].Amount.Div(totalRevenue).Mul(hundred).Round(2)
	}
}

// CashFlow generates a direct-method cash flow statement for a period.
func (s *reportingService) CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if to.Before(from) {
		return nil, apperrors.NewValidationError("to date must not be before from date")
	}
	key := fmt.Sprintf("cf|%s|%s", dayKey(&from), dayKey(&to))

	return coalesce(ctx, &s.inflight, key, func(ctx context.Context) (*domain.CashFlowReport, error) {
		closing, err := s.reportingRepo.AccountActivity(ctx, domain.ActivityFilter{To: &to})
		if err != nil {
			s.LogError(ctx, err, "Failed to get cash account balances")
			return nil, err
		}

		roleCash := ""
		if s.accounts != nil {
			roleCash = s.accounts.CashAccountID(ctx)
		}
		cashIDs := make([]string, 0)
		isCash := make(map[string]bool)
		report := &domain.CashFlowReport{From: from, To: to, OpeningCash: decimal.Zero, ClosingCash: decimal.Zero}
		for _, a := range closing {
			if a.Subtype != domain.SubtypeCash && a.AccountID != roleCash {
				continue
			}
			isCash[a.AccountID] = true
			cashIDs = append(cashIDs, a.AccountID)
			report.ClosingCash = report.ClosingCash.Add(a.Balance())
		}
		sort.Strings(cashIDs)
		report.CashAccountIDs = cashIDs
		if len(cashIDs) == 0 {
			s.LogWarn(ctx, "No cash accounts found for cash flow statement")
		}

		var (
			opening []domain.AccountActivity
			lines   []domain.CashEntryLine
		)
		if len(cashIDs) > 0 {
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				before := dayBefore(from)
				var err error
				opening, err = s.reportingRepo.AccountActivity(gctx, domain.ActivityFilter{To: &before, AccountIDs: cashIDs})
				return err
			})
			g.Go(func() error {
				var err error
				lines, err = s.reportingRepo.CashEntryLines(gctx, cashIDs, from, to)
				return err
			})
			if err := g.Wait(); err != nil {
				s.LogError(ctx, err, "Failed to get cash flow data",
					slog.Time("from", from), slog.Time("to", to))
				return nil, err
			}
		}
		for _, a := range opening {
			report.OpeningCash = report.OpeningCash.Add(a.Balance())
		}

		sections := map[domain.CashFlowCategory]map[string]*domain.CashFlowItem{}
		for _, l := range lines {
			if isCash[l.AccountID] {
				continue
			}
			cat := classifyCashFlow(l.AccountType, l.Subtype)
			if sections[cat] == nil {
				sections[cat] = map[string]*domain.CashFlowItem{}
			}
			item, ok := sections[cat][l.AccountID]
			if !ok {
				item = &domain.CashFlowItem{AccountID: l.AccountID, Code: l.AccountCode, Name: l.AccountName, Amount: decimal.Zero}
				sections[cat][l.AccountID] = item
			}
			item.Amount = item.Amount.Add(cashImpact(l.NormalBalance, l.Debit, l.Credit))
		}

		report.Operating = buildSection(domain.CashFlowOperating, sections[domain.CashFlowOperating])
		report.Investing = buildSection(domain.CashFlowInvesting, sections[domain.CashFlowInvesting])
		report.Financing = buildSection(domain.CashFlowFinancing, sections[domain.CashFlowFinancing])
		report.Unclassified = buildSection(domain.CashFlowUnclassified, sections[domain.CashFlowUnclassified])
		report.NetChange = report.Operating.Net.Add(report.Investing.Net).Add(report.Financing.Net)
		report.Difference = report.ClosingCash.Sub(report.OpeningCash.Add(report.NetChange))
		report.IsReconciled = domain.WithinTolerance(report.ClosingCash, report.OpeningCash.Add(report.NetChange))

		if !report.IsReconciled {
			s.LogWarn(ctx, "Cash flow statement does not reconcile",
				slog.String("difference", report.Difference.String()),
				slog.String("unclassified", report.Unclassified.Net.String()))
		}
		return report, nil
	})
}

// classifyCashFlow buckets a counterpart account. Subtype wins over type.
func classifyCashFlow(t domain.AccountType, subtype string) domain.CashFlowCategory {
	switch subtype {
	case domain.SubtypeReceivable, domain.SubtypePayable:
		return domain.CashFlowOperating
	case domain.SubtypeFixedAsset, domain.SubtypeInvestment:
		return domain.CashFlowInvesting
	case domain.SubtypeLoan, domain.SubtypeLoanReceivable, domain.SubtypeDebt:
		return domain.CashFlowFinancing
	}
	switch t {
	case domain.Revenue, domain.Expense:
		return domain.CashFlowOperating
	case domain.Equity:
		return domain.CashFlowFinancing
	}
	return domain.CashFlowUnclassified
}

// cashImpact is the cash movement implied by a counterpart line.
// Debiting a debit-normal counterpart means cash was credited, so the impact is negative.
func cashImpact(normal domain.NormalBalance, debit, credit decimal.Decimal) decimal.Decimal {
	if normal == domain.NormalDebit {
		return debit.Sub(credit).Neg()
	}
	return credit.Sub(debit)
}

func buildSection(cat domain.CashFlowCategory, items map[string]*domain.CashFlowItem) domain.CashFlowSection {
	section := domain.CashFlowSection{Category: cat, Items: []domain.CashFlowItem{}, Net: decimal.Zero}
	for _, item := range items {
		if item.Amount.IsZero() {
			continue
		}
		item.Direction = domain.Inflow
		if item.Amount.IsNegative() {
			item.Direction = domain.Outflow
		}
		section.Items = append(section.Items, *item)
		section.Net = section.Net.Add(item.Amount)
	}
	sort.Slice(section.Items, func(i, j int) bool {
		return section.Items[i].Code < section.Items[j].Code
	})
	return section
}

func sortByCode(activity []domain.AccountActivity) {
	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].Code < activity[j].Code
	})
}
