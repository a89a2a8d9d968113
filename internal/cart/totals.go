package cart

import (
	"github.com/shopspring/decimal"
	"github.com/theauraflow/pos/internal/domain"
)

// Totals is the money summary of a cart. Subtotal is exact by
// construction; DiscountTotal and TaxTotal are rounded half-up for
// display. Total is always derived from the exact intermediates and
// rounded once at the end, so it can differ from
// Subtotal-DiscountTotal+TaxTotal by a minor unit — that is the rounding
// contract, not a bug.
type Totals struct {
	Subtotal      domain.Money `json:"subtotal"`
	DiscountTotal domain.Money `json:"discount_total"`
	TaxTotal      domain.Money `json:"tax_total"`
	Total         domain.Money `json:"total"`
	ItemCount     int          `json:"item_count"`
}

// Compute is a pure function of the cart state and tax rate.
//
// Per line: base = (override ?? unit price + modifiers) * qty, the line
// discount is evaluated against that base, and the taxable remainder is
// base - discount for taxable products. The order discount is evaluated
// against the post-item-discount subtotal and reduces taxable bases
// pro-rata by each line's share of the taxable sum. Tax applies to the
// reduced bases. All intermediates are exact decimals; only the outputs
// are rounded.
func Compute(c domain.Cart, taxRateBps int64) Totals {
	subtotal := decimal.Zero
	itemDiscount := decimal.Zero
	taxableSum := decimal.Zero
	taxableLines := make([]decimal.Decimal, 0, len(c.Items))

	for _, it := range c.Items {
		base := it.LineBase()
		disc := it.LineDiscount()
		subtotal = subtotal.Add(base)
		itemDiscount = itemDiscount.Add(disc)
		if it.Product.Taxable {
			taxable := base.Sub(disc)
			taxableLines = append(taxableLines, taxable)
			taxableSum = taxableSum.Add(taxable)
		}
	}

	orderDiscount := decimal.Zero
	if c.OrderDiscount != nil {
		orderDiscount = c.OrderDiscount.AmountAgainst(subtotal.Sub(itemDiscount))
	}
	discountTotal := itemDiscount.Add(orderDiscount)

	taxTotal := decimal.Zero
	if taxableSum.Sign() > 0 {
		for _, taxable := range taxableLines {
			share := orderDiscount.Mul(taxable).Div(taxableSum)
			reduced := taxable.Sub(share)
			if reduced.Sign() < 0 {
				reduced = decimal.Zero
			}
			taxTotal = taxTotal.Add(domain.Percent(reduced, taxRateBps))
		}
	}

	total := subtotal.Sub(discountTotal).Add(taxTotal)

	return Totals{
		Subtotal:      domain.RoundMoney(subtotal),
		DiscountTotal: domain.RoundMoney(discountTotal),
		TaxTotal:      domain.RoundMoney(taxTotal),
		Total:         domain.RoundMoney(total),
		ItemCount:     c.ItemCount(),
	}
}
