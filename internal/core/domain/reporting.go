package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountActivity is an account together with its posted debit/credit sums over a window.
// It is the raw aggregate every report is built from.
type AccountActivity struct {
	Account
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Balance returns opening balance plus the signed activity.
func (a AccountActivity) Balance() decimal.Decimal {
	return a.OpeningBalance.Add(a.SignedEffect(a.Debit, a.Credit))
}

// ActivityFilter selects the window and accounts for an activity aggregate.
// Nil bounds are open. Both bounds are inclusive calendar dates.
type ActivityFilter struct {
	From       *time.Time
	To         *time.Time
	Types      []AccountType
	AccountIDs []string
	ActiveOnly bool
}

// LedgerLine is a posted line with its entry header fields, in creation order.
type LedgerLine struct {
	JournalLine
	EntryNumber string
	EntryDate   time.Time
	Reference   string
}

// CashEntryLine is a posted line belonging to an entry that touches a cash account.
type CashEntryLine struct {
	JournalLine
	EntryNumber   string
	EntryDate     time.Time
	AccountCode   string
	AccountName   string
	AccountType   AccountType
	Subtype       string
	NormalBalance NormalBalance
}

// TrialBalanceRow is one account in the trial balance.
type TrialBalanceRow struct {
	AccountID     string
	Code          string
	Name          string
	AccountType   AccountType
	NormalBalance NormalBalance
	Balance       decimal.Decimal
	DebitBalance  decimal.Decimal
	CreditBalance decimal.Decimal
}

// TrialBalanceReport lists every account balance split into debit/credit columns.
type TrialBalanceReport struct {
	AsOf        time.Time
	Rows        []TrialBalanceRow
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Difference  decimal.Decimal
	IsBalanced  bool
}

// GeneralLedgerLine is a posted line with the account's balance after it.
type GeneralLedgerLine struct {
	LineID         string
	JournalEntryID string
	EntryNumber    string
	EntryDate      time.Time
	Reference      string
	Description    string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	RunningBalance decimal.Decimal
}

// GeneralLedgerReport is the activity of one account over a period.
type GeneralLedgerReport struct {
	Account        Account
	From           *time.Time
	To             *time.Time
	OpeningBalance decimal.Decimal
	Lines          []GeneralLedgerLine
	TotalDebit     decimal.Decimal
	TotalCredit    decimal.Decimal
	EndingBalance  decimal.Decimal
}

// AccountAmount represents an account and its amount in a financial statement.
type AccountAmount struct {
	AccountID string
	Code      string
	Name      string
	Amount    decimal.Decimal
	Percent   decimal.Decimal // share of total revenue, income statement only
}

// BalanceSheetReport summarizes assets, liabilities and equity at a date.
type BalanceSheetReport struct {
	AsOf                      time.Time
	Assets                    []AccountAmount
	Liabilities               []AccountAmount
	Equity                    []AccountAmount
	TotalAssets               decimal.Decimal
	TotalLiabilities          decimal.Decimal
	TotalEquity               decimal.Decimal
	NetIncome                 decimal.Decimal
	TotalEquityWithIncome     decimal.Decimal
	TotalLiabilitiesAndEquity decimal.Decimal
	Difference                decimal.Decimal
	IsBalanced                bool
}

// IncomeStatementReport is revenue and expense activity within a period.
type IncomeStatementReport struct {
	From          time.Time
	To            time.Time
	Revenue       []AccountAmount
	Expenses      []AccountAmount
	TotalRevenue  decimal.Decimal
	TotalExpenses decimal.Decimal
	NetIncome     decimal.Decimal
}

// CashFlowCategory buckets cash movements.
type CashFlowCategory string

const (
	CashFlowOperating    CashFlowCategory = "OPERATING"
	CashFlowInvesting    CashFlowCategory = "INVESTING"
	CashFlowFinancing    CashFlowCategory = "FINANCING"
	CashFlowUnclassified CashFlowCategory = "UNCLASSIFIED"
)

// CashFlowDirection labels an item by the sign of its cash impact.
type CashFlowDirection string

const (
	Inflow  CashFlowDirection = "INFLOW"
	Outflow CashFlowDirection = "OUTFLOW"
)

// CashFlowItem is the net cash impact attributed to one counterpart account.
type CashFlowItem struct {
	AccountID string
	Code      string
	Name      string
	Amount    decimal.Decimal // positive is an inflow
	Direction CashFlowDirection
}

// CashFlowSection groups items of one category.
type CashFlowSection struct {
	Category CashFlowCategory
	Items    []CashFlowItem
	Net      decimal.Decimal
}

// CashFlowReport is a direct-method cash flow statement.
type CashFlowReport struct {
	From           time.Time
	To             time.Time
	CashAccountIDs []string
	OpeningCash    decimal.Decimal
	ClosingCash    decimal.Decimal
	Operating      CashFlowSection
	Investing      CashFlowSection
	Financing      CashFlowSection
	Unclassified   CashFlowSection
	NetChange      decimal.Decimal // operating + investing + financing
	Difference     decimal.Decimal // closing - (opening + net change)
	IsReconciled   bool
}

// BalanceDrift is an account whose cached balance disagrees with its posted history.
type BalanceDrift struct {
	AccountID  string
	Code       string
	Name       string
	Cached     decimal.Decimal
	Computed   decimal.Decimal
	Difference decimal.Decimal
}

// ReconciliationResult reports balance drift found, and whether it was repaired.
type ReconciliationResult struct {
	CheckedAccounts int
	Drifts          []BalanceDrift
	Repaired        bool
	RunAt           time.Time
}
