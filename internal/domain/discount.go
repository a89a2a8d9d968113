package domain

import "github.com/shopspring/decimal"

type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

type DiscountScope string

const (
	DiscountScopeItem  DiscountScope = "item"
	DiscountScopeOrder DiscountScope = "order"
)

// Discount is either a percentage (Value in basis points, 1000 = 10%) or a
// fixed amount (Value in minor units). The effective amount is always
// computed against the base at evaluation time, never stored.
type Discount struct {
	Kind  DiscountKind  `json:"kind"`
	Value int64         `json:"value"`
	Scope DiscountScope `json:"scope"`
}

// Valid reports whether the discount can be applied at all.
func (d Discount) Valid() bool {
	if d.Value <= 0 {
		return false
	}
	switch d.Kind {
	case DiscountPercentage, DiscountFixed:
		return true
	}
	return false
}

// AmountAgainst computes the effective discount against a base amount in
// minor units. A fixed discount never exceeds the base; a percentage is
// computed exactly, without rounding.
func (d Discount) AmountAgainst(base decimal.Decimal) decimal.Decimal {
	if base.Sign() <= 0 {
		return decimal.Zero
	}
	switch d.Kind {
	case DiscountPercentage:
		return Percent(base, d.Value)
	case DiscountFixed:
		v := decimal.NewFromInt(d.Value)
		if v.GreaterThan(base) {
			return base
		}
		return v
	}
	return decimal.Zero
}
