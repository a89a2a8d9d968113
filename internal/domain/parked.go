package domain

import "time"

// ParkedSale is a cart snapshot set aside to serve another customer. The
// snapshot is a deep copy; mutating the active cart after parking never
// touches it.
type ParkedSale struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	Cart      Cart      `json:"cart"`
	CreatedAt time.Time `json:"created_at"`
}

func (p ParkedSale) Clone() ParkedSale {
	out := p
	out.Cart = p.Cart.Clone()
	return out
}
