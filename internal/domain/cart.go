package domain

import "github.com/shopspring/decimal"

// CartItem is one line of the active sale. The ID is generated when the
// line is first created and stays stable through quantity and modifier
// edits.
type CartItem struct {
	ID            string     `json:"id"`
	Product       Product    `json:"product"`
	Quantity      int        `json:"quantity"`
	Modifiers     []Modifier `json:"modifiers,omitempty"`
	ItemDiscount  *Discount  `json:"item_discount,omitempty"`
	PriceOverride *Money     `json:"price_override,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// UnitPrice is the effective per-unit price: the override when present,
// the catalog price otherwise. Modifiers add on top in either case.
func (ci CartItem) UnitPrice() Money {
	if ci.PriceOverride != nil {
		return *ci.PriceOverride
	}
	return ci.Product.Price
}

// LineBase is (unit price + modifiers) * quantity in exact minor units.
func (ci CartItem) LineBase() decimal.Decimal {
	perUnit := int64(ci.UnitPrice())
	for _, m := range ci.Modifiers {
		perUnit += int64(m.Price)
	}
	return decimal.NewFromInt(perUnit).Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// LineDiscount is the item discount evaluated against the line base.
func (ci CartItem) LineDiscount() decimal.Decimal {
	if ci.ItemDiscount == nil {
		return decimal.Zero
	}
	return ci.ItemDiscount.AmountAgainst(ci.LineBase())
}

// MergesWith reports whether an addition of the given product with the
// given modifier set should fold into this line instead of creating a new
// one.
func (ci CartItem) MergesWith(productID string, modifiers []Modifier) bool {
	return ci.Product.ID == productID && ModifierSetEqual(ci.Modifiers, modifiers)
}

// Clone returns a deep copy sharing no mutable structure.
func (ci CartItem) Clone() CartItem {
	out := ci
	if ci.Modifiers != nil {
		out.Modifiers = make([]Modifier, len(ci.Modifiers))
		copy(out.Modifiers, ci.Modifiers)
	}
	if ci.ItemDiscount != nil {
		d := *ci.ItemDiscount
		out.ItemDiscount = &d
	}
	if ci.PriceOverride != nil {
		p := *ci.PriceOverride
		out.PriceOverride = &p
	}
	return out
}

// Cart is the current, mutable, in-progress sale.
type Cart struct {
	Items         []CartItem `json:"items"`
	OrderDiscount *Discount  `json:"order_discount,omitempty"`
	CustomerID    string     `json:"customer_id,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount is the sum of line quantities.
func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Clone returns a deep copy sharing no mutable structure with the
// original.
func (c Cart) Clone() Cart {
	out := c
	if c.Items != nil {
		out.Items = make([]CartItem, len(c.Items))
		for i, it := range c.Items {
			out.Items[i] = it.Clone()
		}
	}
	if c.OrderDiscount != nil {
		d := *c.OrderDiscount
		out.OrderDiscount = &d
	}
	return out
}
