package dto

import (
	"time"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	AccountName   string          `json:"accountName"`
	AccountType   string          `json:"accountType"`
	NormalBalance string          `json:"normalBalance"`
	Balance       decimal.Decimal `json:"balance"`
	DebitBalance  decimal.Decimal `json:"debitBalance"`
	CreditBalance decimal.Decimal `json:"creditBalance"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	Difference decimal.Decimal `json:"difference"`
	IsBalanced bool            `json:"isBalanced"`
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(r *domain.TrialBalanceReport) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf:       r.AsOf.Format(DateLayout),
		Rows:       make([]TrialBalanceRowResponse, len(r.Rows)),
		Difference: r.Difference,
		IsBalanced: r.IsBalanced,
	}
	for i, row := range r.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:     row.AccountID,
			Code:          row.Code,
			AccountName:   row.Name,
			AccountType:   string(row.AccountType),
			NormalBalance: string(row.NormalBalance),
			Balance:       row.Balance,
			DebitBalance:  row.DebitBalance,
			CreditBalance: row.CreditBalance,
		}
	}
	response.Totals.Debit = r.TotalDebit
	response.Totals.Credit = r.TotalCredit
	return response
}

// GeneralLedgerLineResponse is one posted line with its running balance.
type GeneralLedgerLineResponse struct {
	LineID         string          `json:"lineID"`
	JournalEntryID string          `json:"journalEntryID"`
	EntryNumber    string          `json:"entryNumber"`
	EntryDate      string          `json:"entryDate"`
	Reference      string          `json:"reference"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// GeneralLedgerResponse represents the general ledger of one account
type GeneralLedgerResponse struct {
	Account        AccountResponse             `json:"account"`
	FromDate       string                      `json:"fromDate,omitempty"`
	ToDate         string                      `json:"toDate,omitempty"`
	OpeningBalance decimal.Decimal             `json:"openingBalance"`
	Lines          []GeneralLedgerLineResponse `json:"lines"`
	TotalDebit     decimal.Decimal             `json:"totalDebit"`
	TotalCredit    decimal.Decimal             `json:"totalCredit"`
	EndingBalance  decimal.Decimal             `json:"endingBalance"`
}

// ToGeneralLedgerResponse converts a domain general ledger to a DTO response
func ToGeneralLedgerResponse(r *domain.GeneralLedgerReport) GeneralLedgerResponse {
	res := GeneralLedgerResponse{
		Account:        ToAccountResponse(&r.Account),
		OpeningBalance: r.OpeningBalance,
		Lines:          make([]GeneralLedgerLineResponse, len(r.Lines)),
		TotalDebit:     r.TotalDebit,
		TotalCredit:    r.TotalCredit,
		EndingBalance:  r.EndingBalance,
	}
	if r.From != nil {
		res.FromDate = r.From.Format(DateLayout)
	}
	if r.To != nil {
		res.ToDate = r.To.Format(DateLayout)
	}
	for i, l := range r.Lines {
		res.Lines[i] = GeneralLedgerLineResponse{
			LineID:         l.LineID,
			JournalEntryID: l.JournalEntryID,
			EntryNumber:    l.EntryNumber,
			EntryDate:      l.EntryDate.Format(DateLayout),
			Reference:      l.Reference,
			Description:    l.Description,
			Debit:          l.Debit,
			Credit:         l.Credit,
			RunningBalance: l.RunningBalance,
		}
	}
	return res
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string           `json:"accountID"`
	Code      string           `json:"code"`
	Name      string           `json:"name"`
	Amount    decimal.Decimal  `json:"amount"`
	Percent   *decimal.Decimal `json:"percent,omitempty"`
}

func toAccountAmounts(items []domain.AccountAmount, withPercent bool) []AccountAmountResponse {
	res := make([]AccountAmountResponse, len(items))
	for i, it := range items {
		res[i] = AccountAmountResponse{
			AccountID: it.AccountID,
			Code:      it.Code,
			Name:      it.Name,
			Amount:    it.Amount,
		}
		if withPercent {
			p := it.Percent
			res[i].Percent = &p
		}
	}
	return res
}

// IncomeStatementResponse represents the income statement report response
type IncomeStatementResponse struct {
	FromDate string                  `json:"fromDate"`
	ToDate   string                  `json:"toDate"`
	Revenue  []AccountAmountResponse `json:"revenue"`
	Expenses []AccountAmountResponse `json:"expenses"`
	Summary  struct {
		TotalRevenue  decimal.Decimal `json:"totalRevenue"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		NetIncome     decimal.Decimal `json:"netIncome"`
	} `json:"summary"`
}

// ToIncomeStatementResponse converts a domain income statement to a DTO response
func ToIncomeStatementResponse(r *domain.IncomeStatementReport) IncomeStatementResponse {
	res := IncomeStatementResponse{
		FromDate: r.From.Format(DateLayout),
		ToDate:   r.To.Format(DateLayout),
		Revenue:  toAccountAmounts(r.Revenue, true),
		Expenses: toAccountAmounts(r.Expenses, true),
	}
	res.Summary.TotalRevenue = r.TotalRevenue
	res.Summary.TotalExpenses = r.TotalExpenses
	res.Summary.NetIncome = r.NetIncome
	return res
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Summary     struct {
		TotalAssets               decimal.Decimal `json:"totalAssets"`
		TotalLiabilities          decimal.Decimal `json:"totalLiabilities"`
		TotalEquity               decimal.Decimal `json:"totalEquity"`
		NetIncome                 decimal.Decimal `json:"netIncome"`
		TotalEquityWithIncome     decimal.Decimal `json:"totalEquityWithIncome"`
		TotalLiabilitiesAndEquity decimal.Decimal `json:"totalLiabilitiesAndEquity"`
		Difference                decimal.Decimal `json:"difference"`
		IsBalanced                bool            `json:"isBalanced"`
	} `json:"summary"`
}

// ToBalanceSheetResponse converts a domain balance sheet to a DTO response
func ToBalanceSheetResponse(r *domain.BalanceSheetReport) BalanceSheetResponse {
	res := BalanceSheetResponse{
		AsOf:        r.AsOf.Format(DateLayout),
		Assets:      toAccountAmounts(r.Assets, false),
		Liabilities: toAccountAmounts(r.Liabilities, false),
		Equity:      toAccountAmounts(r.Equity, false),
	}
	res.Summary.TotalAssets = r.TotalAssets
	res.Summary.TotalLiabilities = r.TotalLiabilities
	res.Summary.TotalEquity = r.TotalEquity
	res.Summary.NetIncome = r.NetIncome
	res.Summary.TotalEquityWithIncome = r.TotalEquityWithIncome
	res.Summary.TotalLiabilitiesAndEquity = r.TotalLiabilitiesAndEquity
	res.Summary.Difference = r.Difference
	res.Summary.IsBalanced = r.IsBalanced
	return res
}

// CashFlowItemResponse is one counterpart account's cash impact.
type CashFlowItemResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction"`
}

// CashFlowSectionResponse groups the items of one activity category.
type CashFlowSectionResponse struct {
	Items []CashFlowItemResponse `json:"items"`
	Net   decimal.Decimal        `json:"net"`
}

// CashFlowResponse represents the cash flow statement response
type CashFlowResponse struct {
	FromDate     string                  `json:"fromDate"`
	ToDate       string                  `json:"toDate"`
	OpeningCash  decimal.Decimal         `json:"openingCash"`
	ClosingCash  decimal.Decimal         `json:"closingCash"`
	Operating    CashFlowSectionResponse `json:"operating"`
	Investing    CashFlowSectionResponse `json:"investing"`
	Financing    CashFlowSectionResponse `json:"financing"`
	Unclassified CashFlowSectionResponse `json:"unclassified"`
	NetChange    decimal.Decimal         `json:"netChange"`
	Difference   decimal.Decimal         `json:"difference"`
	IsReconciled bool                    `json:"isReconciled"`
}

func toCashFlowSection(s domain.CashFlowSection) CashFlowSectionResponse {
	res := CashFlowSectionResponse{Items: make([]CashFlowItemResponse, len(s.Items)), Net: s.Net}
	for i, it := range s.Items {
		res.Items[i] = CashFlowItemResponse{
			AccountID: it.AccountID,
			Code:      it.Code,
			Name:      it.Name,
			Amount:    it.Amount,
			Direction: string(it.Direction),
		}
	}
	return res
}

// ToCashFlowResponse converts a domain cash flow statement to a DTO response
func ToCashFlowResponse(r *domain.CashFlowReport) CashFlowResponse {
	return CashFlowResponse{
		FromDate:     r.From.Format(DateLayout),
		ToDate:       r.To.Format(DateLayout),
		OpeningCash:  r.OpeningCash,
		ClosingCash:  r.ClosingCash,
		Operating:    toCashFlowSection(r.Operating),
		Investing:    toCashFlowSection(r.Investing),
		Financing:    toCashFlowSection(r.Financing),
		Unclassified: toCashFlowSection(r.Unclassified),
		NetChange:    r.NetChange,
		Difference:   r.Difference,
		IsReconciled: r.IsReconciled,
	}
}

// ParseDate parses a YYYY-MM-DD query value in UTC.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}
