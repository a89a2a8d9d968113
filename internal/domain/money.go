package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in the currency's minor unit (cents).
// Stored amounts are always whole minor units; fractional intermediates
// only exist inside totals computation as decimals.
type Money int64

// Decimal returns the amount in minor units as a decimal for exact
// intermediate arithmetic.
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// RoundMoney rounds an amount in minor units to a whole Money value using
// round-half-up (half away from zero).
func RoundMoney(d decimal.Decimal) Money {
	return Money(d.Round(0).IntPart())
}

// Percent applies a basis-point rate (825 = 8.25%) to an amount in minor
// units without rounding.
func Percent(d decimal.Decimal, basisPoints int64) decimal.Decimal {
	return d.Mul(decimal.NewFromInt(basisPoints)).Div(decimal.NewFromInt(10000))
}
