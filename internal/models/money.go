package models

import "github.com/shopspring/decimal"

// DefaultBudget is the ceiling assigned to new users and new expense
// categories when the caller does not supply one.
var DefaultBudget = decimal.NewFromInt(500)

// MoneyPlaces is the scale of every stored amount (numeric(20,2)).
const MoneyPlaces = 2

// IsMoney reports whether d fits the stored scale without rounding.
func IsMoney(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}

func init() {
	// Amounts travel as JSON numbers, matching what clients post.
	decimal.MarshalJSONWithoutQuotes = true
}
