// Package money holds the decimal helpers shared by budgets, bills and the
// aggregate endpoints.
package money

import (
	"github.com/shopspring/decimal"
)

// Places is the scale amounts are stored with.
const Places = 2

var hundred = decimal.NewFromInt(100)

// Limit is the smallest amount the NUMERIC(12,2) columns cannot hold.
var Limit = decimal.New(1, 10)

func init() {
	// amounts leave the API as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Round rounds half away from zero to two places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns part/whole*100, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero)
}

// Storable reports whether d fits the amount columns without rounding or
// overflow.
func Storable(d decimal.Decimal) bool {
	return d.Equal(d.Round(Places)) && d.Abs().LessThan(Limit)
}
