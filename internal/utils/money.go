package utils

import "github.com/shopspring/decimal"

// currencyPlaces is the minor-unit precision used for all monetary amounts.
const currencyPlaces = 2

// RoundCurrency rounds a monetary amount to the currency's minor-unit
// precision using round-half-even, so repeated pricing of the same inputs
// never drifts.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(currencyPlaces)
}

// HourlyAmount computes rate x (minutes / 60) rounded to currency precision.
func HourlyAmount(hourlyRate decimal.Decimal, durationMinutes int) decimal.Decimal {
	hours := decimal.NewFromInt(int64(durationMinutes)).Div(decimal.NewFromInt(60))
	return RoundCurrency(hourlyRate.Mul(hours))
}

// PercentOf returns amount x pct/100 rounded to currency precision.
// Used for tax amounts and business-use deductible portions.
func PercentOf(amount decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	return RoundCurrency(amount.Mul(pct).Div(decimal.NewFromInt(100)))
}
