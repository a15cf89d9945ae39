package domain

import "github.com/shopspring/decimal"

func init() {
	// Amounts and balances are emitted as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// MaxAmount is the largest magnitude a decimal(15,2) column can hold
var MaxAmount = decimal.RequireFromString("9999999999999.99")

// ValidMoney reports whether d fits a decimal(15,2) column without rounding
func ValidMoney(d decimal.Decimal) bool {
	return d.Equal(d.Round(2)) && d.Abs().LessThanOrEqual(MaxAmount)
}
