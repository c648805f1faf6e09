package domain

import "github.com/shopspring/decimal"

// EntrySide indicates whether a line amount is a Debit or a Credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// NewLine builds a journal line carrying amount on the given side.
func NewLine(accountID string, side EntrySide, amount decimal.Decimal, description string) JournalLine {
	line := JournalLine{
		AccountID:   accountID,
		Description: description,
		Debit:       decimal.Zero,
		Credit:      decimal.Zero,
	}
	if side == Debit {
		line.Debit = amount
	} else {
		line.Credit = amount
	}
	return line
}

// Side reports which column of the line carries the amount.
func (l JournalLine) Side() EntrySide {
	if l.Debit.IsPositive() {
		return Debit
	}
	return Credit
}

// Amount returns the nonzero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// Swapped returns a copy of the line with debit and credit exchanged.
func (l JournalLine) Swapped() JournalLine {
	l.Debit, l.Credit = l.Credit, l.Debit
	return l
}
