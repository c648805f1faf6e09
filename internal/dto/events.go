package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberReceiptRequest records cash received from a member (contribution or payment).
type MemberReceiptRequest struct {
	MemberID string          `json:"memberID" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"gt=0"`
	Date     time.Time       `json:"date" binding:"required"`
	Purpose  string          `json:"purpose"`
}

// DisasterPaymentRequest records a disaster relief payout to a member.
type DisasterPaymentRequest struct {
	MemberID string          `json:"memberID" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"gt=0"`
	Date     time.Time       `json:"date" binding:"required"`
	Purpose  string          `json:"purpose"`
}

// ExpenseRequest records an approved expense paid in cash.
type ExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"gt=0"`
	Date        time.Time       `json:"date" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
}

// LoanDisbursementRequest records a loan paid out to a member.
type LoanDisbursementRequest struct {
	MemberID string          `json:"memberID" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"gt=0"`
	Purpose  string          `json:"purpose"`
}

// LoanRepaymentRequest records a member repaying principal and interest.
type LoanRepaymentRequest struct {
	MemberID  string          `json:"memberID" binding:"required"`
	Principal decimal.Decimal `json:"principal" binding:"gt=0"`
	Interest  decimal.Decimal `json:"interest" binding:"gte=0"`
}

// PenaltyPaymentRequest records a penalty paid by a member for a month (YYYY-MM).
type PenaltyPaymentRequest struct {
	MemberID string          `json:"memberID" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"gt=0"`
	Reason   string          `json:"reason" binding:"required"`
	Month    string          `json:"month" binding:"required,datetime=2006-01"`
}

// EventRecordedResponse reports the outcome of recording a domain event.
type EventRecordedResponse struct {
	Recorded bool                  `json:"recorded"`
	Entry    *JournalEntryResponse `json:"entry,omitempty"`
	Reason   string                `json:"reason,omitempty"`
}

// InsufficientFundsResponse is returned when an outflow is rejected.
type InsufficientFundsResponse struct {
	Error     string          `json:"error"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
	Shortfall decimal.Decimal `json:"shortfall"`
}
