package utils

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// AmountPrecision is the number of decimal places of the base currency.
const AmountPrecision = 2

var amountPrinter = message.NewPrinter(language.English)

// FormatWithPrecision formats an amount with the given precision
// Example: 12.3456 with precision 2 returns "12.35"
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).StringFixed(int32(precision))
}

// FormatAmount renders an amount with thousands grouping and the base currency precision.
// Example: 40000 returns "40,000.00"
func FormatAmount(amount decimal.Decimal) string {
	f, _ := amount.Round(AmountPrecision).Float64()
	return amountPrinter.Sprintf("%.2f", f)
}
