package domain

// AccountRole names a well-known account the recorders post against.
type AccountRole string

const (
	RoleCash                  AccountRole = "cash"
	RoleLoansReceivable       AccountRole = "loans_receivable"
	RoleContributionRevenue   AccountRole = "contribution_revenue"
	RolePaymentRevenue        AccountRole = "payment_revenue"
	RoleInterestIncome        AccountRole = "interest_income"
	RolePenaltyIncome         AccountRole = "penalty_income"
	RoleDisasterReliefExpense AccountRole = "disaster_relief_expense"
	RoleExpenseOther          AccountRole = "expense_other"
)

// RoleMapping resolves roles and expense categories to account codes.
type RoleMapping struct {
	Roles             map[AccountRole]string
	ExpenseCategories map[string]string
}

// CodeForRole returns the account code mapped to role.
func (m RoleMapping) CodeForRole(role AccountRole) (string, bool) {
	code, ok := m.Roles[role]
	return code, ok && code != ""
}

// CodeForCategory returns the expense account code for category, falling back to expense_other.
func (m RoleMapping) CodeForCategory(category string) (string, bool) {
	if code, ok := m.ExpenseCategories[category]; ok && code != "" {
		return code, true
	}
	return m.CodeForRole(RoleExpenseOther)
}
