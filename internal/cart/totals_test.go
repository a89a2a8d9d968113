package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/theauraflow/pos/internal/domain"
)

func taxableProduct(id string, price domain.Money) domain.Product {
	return domain.Product{ID: id, Name: id, Price: price, Taxable: true, Active: true}
}

func TestComputeEmptyCart(t *testing.T) {
	got := Compute(domain.Cart{}, 825)
	assert.Equal(t, Totals{}, got)
}

func TestComputeOrderDiscountReducesTaxBase(t *testing.T) {
	// $10.00 taxable item, 8% tax, 10% order discount:
	// discount $1.00, tax on $9.00 = $0.72, total $9.72.
	c := domain.Cart{
		Items: []domain.CartItem{{
			ID:       "l1",
			Product:  taxableProduct("p1", 1000),
			Quantity: 1,
		}},
		OrderDiscount: &domain.Discount{Kind: domain.DiscountPercentage, Value: 1000, Scope: domain.DiscountScopeOrder},
	}

	got := Compute(c, 800)
	assert.Equal(t, domain.Money(1000), got.Subtotal)
	assert.Equal(t, domain.Money(100), got.DiscountTotal)
	assert.Equal(t, domain.Money(72), got.TaxTotal)
	assert.Equal(t, domain.Money(972), got.Total)
}

func TestComputeNoIntermediateRounding(t *testing.T) {
	// 3 × $0.10 at 8.25%: tax is 2.475 cents exactly; rounding per line
	// (3 × 1 cent) would drift. One final rounding gives 2 cents.
	c := domain.Cart{
		Items: []domain.CartItem{{
			ID:       "l1",
			Product:  taxableProduct("p1", 10),
			Quantity: 3,
		}},
	}

	got := Compute(c, 825)
	assert.Equal(t, domain.Money(30), got.Subtotal)
	assert.Equal(t, domain.Money(2), got.TaxTotal)
	assert.Equal(t, domain.Money(32), got.Total)
}

func TestComputeItemDiscountBeforeTax(t *testing.T) {
	c := domain.Cart{
		Items: []domain.CartItem{{
			ID:           "l1",
			Product:      taxableProduct("p1", 1000),
			Quantity:     1,
			ItemDiscount: &domain.Discount{Kind: domain.DiscountFixed, Value: 200, Scope: domain.DiscountScopeItem},
		}},
	}

	got := Compute(c, 1000) // 10%
	assert.Equal(t, domain.Money(1000), got.Subtotal)
	assert.Equal(t, domain.Money(200), got.DiscountTotal)
	assert.Equal(t, domain.Money(80), got.TaxTotal, "tax applies to the discounted base")
	assert.Equal(t, domain.Money(880), got.Total)
}

func TestComputeNonTaxableLineCarriesNoTax(t *testing.T) {
	c := domain.Cart{
		Items: []domain.CartItem{
			{ID: "l1", Product: taxableProduct("p1", 500), Quantity: 1},
			{ID: "l2", Product: domain.Product{ID: "p2", Price: 500, Taxable: false, Active: true}, Quantity: 1},
		},
	}

	got := Compute(c, 1000)
	assert.Equal(t, domain.Money(1000), got.Subtotal)
	assert.Equal(t, domain.Money(50), got.TaxTotal, "only the taxable line is taxed")
	assert.Equal(t, domain.Money(1050), got.Total)
}

func TestComputeOrderDiscountProRataAcrossTaxableLines(t *testing.T) {
	// Taxable $6.00 + non-taxable $4.00, fixed $1.00 order discount.
	// The discount is spread over the taxable sum only: the taxable base
	// drops by the full taxable share 100 × (600/600) = 100.
	c := domain.Cart{
		Items: []domain.CartItem{
			{ID: "l1", Product: taxableProduct("p1", 600), Quantity: 1},
			{ID: "l2", Product: domain.Product{ID: "p2", Price: 400, Active: true}, Quantity: 1},
		},
		OrderDiscount: &domain.Discount{Kind: domain.DiscountFixed, Value: 100, Scope: domain.DiscountScopeOrder},
	}

	got := Compute(c, 1000)
	assert.Equal(t, domain.Money(1000), got.Subtotal)
	assert.Equal(t, domain.Money(100), got.DiscountTotal)
	assert.Equal(t, domain.Money(50), got.TaxTotal, "tax on 600-100=500 at 10%")
	assert.Equal(t, domain.Money(950), got.Total)
}

func TestComputeTaxableBaseNeverNegative(t *testing.T) {
	// A fixed order discount capped at the subtotal: the reduced taxable
	// base clamps at zero rather than producing negative tax.
	c := domain.Cart{
		Items: []domain.CartItem{{
			ID:       "l1",
			Product:  taxableProduct("p1", 100),
			Quantity: 1,
		}},
		OrderDiscount: &domain.Discount{Kind: domain.DiscountFixed, Value: 10000, Scope: domain.DiscountScopeOrder},
	}

	got := Compute(c, 825)
	assert.Equal(t, domain.Money(100), got.DiscountTotal)
	assert.Equal(t, domain.Money(0), got.TaxTotal)
	assert.Equal(t, domain.Money(0), got.Total)
}

func TestComputeIsDeterministic(t *testing.T) {
	c := domain.Cart{
		Items: []domain.CartItem{
			{ID: "l1", Product: taxableProduct("p1", 333), Quantity: 3,
				Modifiers: []domain.Modifier{{ID: "m1", Price: 17}}},
			{ID: "l2", Product: taxableProduct("p2", 129), Quantity: 7,
				ItemDiscount: &domain.Discount{Kind: domain.DiscountPercentage, Value: 1500, Scope: domain.DiscountScopeItem}},
		},
		OrderDiscount: &domain.Discount{Kind: domain.DiscountPercentage, Value: 750, Scope: domain.DiscountScopeOrder},
	}

	first := Compute(c, 825)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Compute(c, 825))
	}
}

func TestComputePriceOverrideWithModifiers(t *testing.T) {
	override := domain.Money(100)
	c := domain.Cart{
		Items: []domain.CartItem{{
			ID:            "l1",
			Product:       taxableProduct("p1", 500),
			Quantity:      2,
			Modifiers:     []domain.Modifier{{ID: "m1", Price: 50}},
			PriceOverride: &override,
		}},
	}

	got := Compute(c, 0)
	// (100 + 50) × 2 — modifiers still add on top of the override.
	assert.Equal(t, domain.Money(300), got.Subtotal)
	assert.Equal(t, domain.Money(300), got.Total)
}
