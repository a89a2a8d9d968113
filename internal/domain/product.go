package domain

// Product is a read-only catalog record. The core never mutates catalog
// data; it only copies products into cart items.
type Product struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	SKU     string `json:"sku,omitempty"`
	Price   Money  `json:"price"`
	Taxable bool   `json:"taxable"`
	Active  bool   `json:"active"`
}
