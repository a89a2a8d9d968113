package cart

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/theauraflow/pos/internal/domain"
	"github.com/theauraflow/pos/internal/feed"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidDiscount = errors.New("invalid discount")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrEmptyCart       = errors.New("cart is empty")
)

// Engine owns the single active cart. All mutations go through it; every
// mutation publishes a fully-formed deep copy of the cart plus recomputed
// totals, so readers never see a partially-updated state.
type Engine struct {
	mu         sync.Mutex
	taxRateBps int64
	newID      func() string
	cart       domain.Cart
	cartFeed   *feed.Feed[domain.Cart]
	totalsFeed *feed.Feed[Totals]
}

// NewEngine creates an engine with an empty cart. taxRateBps is the sales
// tax rate in basis points (825 = 8.25%).
func NewEngine(taxRateBps int64) *Engine {
	e := &Engine{
		taxRateBps: taxRateBps,
		newID:      uuid.NewString,
		cartFeed:   feed.New[domain.Cart](),
		totalsFeed: feed.New[Totals](),
	}
	e.publishLocked()
	return e
}

// SetIDFunc overrides cart item ID generation, for deterministic tests.
func (e *Engine) SetIDFunc(f func() string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.newID = f
}

// AddItem merges into an existing line when one exists for the same
// product with an identical modifier set (order-insensitive); otherwise it
// appends a new line. Returns the resulting line.
func (e *Engine) AddItem(product domain.Product, quantity int, modifiers []domain.Modifier) (domain.CartItem, error) {
	if quantity <= 0 {
		return domain.CartItem{}, ErrInvalidQuantity
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.cart.Items {
		if e.cart.Items[i].MergesWith(product.ID, modifiers) {
			e.cart.Items[i].Quantity += quantity
			item := e.cart.Items[i].Clone()
			e.publishLocked()
			return item, nil
		}
	}

	mods := make([]domain.Modifier, len(modifiers))
	copy(mods, modifiers)
	item := domain.CartItem{
		ID:        e.newID(),
		Product:   product,
		Quantity:  quantity,
		Modifiers: mods,
	}
	e.cart.Items = append(e.cart.Items, item)
	e.publishLocked()
	return item.Clone(), nil
}

// UpdateQuantity replaces the quantity on a line. Zero removes the line;
// negative values are rejected.
func (e *Engine) UpdateQuantity(itemID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOfLocked(itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	if quantity == 0 {
		e.cart.Items = append(e.cart.Items[:i], e.cart.Items[i+1:]...)
	} else {
		e.cart.Items[i].Quantity = quantity
	}
	e.publishLocked()
	return nil
}

// AddModifier appends a modifier to a line. The line keeps its identity;
// it is never re-merged with other lines.
func (e *Engine) AddModifier(itemID string, m domain.Modifier) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOfLocked(itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	e.cart.Items[i].Modifiers = append(e.cart.Items[i].Modifiers, m)
	e.publishLocked()
	return nil
}

// RemoveModifier removes a modifier from a line by modifier ID.
func (e *Engine) RemoveModifier(itemID, modifierID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOfLocked(itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	mods := e.cart.Items[i].Modifiers[:0]
	for _, m := range e.cart.Items[i].Modifiers {
		if m.ID != modifierID {
			mods = append(mods, m)
		}
	}
	e.cart.Items[i].Modifiers = mods
	e.publishLocked()
	return nil
}

// ApplyItemDiscount sets the line discount, replacing any prior one.
func (e *Engine) ApplyItemDiscount(itemID string, d domain.Discount) error {
	if !d.Valid() {
		return ErrInvalidDiscount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOfLocked(itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	d.Scope = domain.DiscountScopeItem
	e.cart.Items[i].ItemDiscount = &d
	e.publishLocked()
	return nil
}

// RemoveItemDiscount clears the line discount.
func (e *Engine) RemoveItemDiscount(itemID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOfLocked(itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	e.cart.Items[i].ItemDiscount = nil
	e.publishLocked()
	return nil
}

// ApplyOrderDiscount sets the order-level discount, replacing any prior
// one. At most one order discount is retained at a time.
func (e *Engine) ApplyOrderDiscount(d domain.Discount) error {
	if !d.Valid() {
		return ErrInvalidDiscount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	d.Scope = domain.DiscountScopeOrder
	e.cart.OrderDiscount = &d
	e.publishLocked()
	return nil
}

// RemoveOrderDiscount clears the order-level discount.
func (e *Engine) RemoveOrderDiscount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.OrderDiscount = nil
	e.publishLocked()
}

// SetPriceOverride replaces the unit price on a line; modifiers still add
// on top. A nil override restores the catalog price.
func (e *Engine) SetPriceOverride(itemID string, price *domain.Money) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOfLocked(itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	if price == nil {
		e.cart.Items[i].PriceOverride = nil
	} else {
		p := *price
		e.cart.Items[i].PriceOverride = &p
	}
	e.publishLocked()
	return nil
}

// RemoveItem removes a line. No error if the line is already gone.
func (e *Engine) RemoveItem(itemID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOfLocked(itemID)
	if i < 0 {
		return
	}
	e.cart.Items = append(e.cart.Items[:i], e.cart.Items[i+1:]...)
	e.publishLocked()
}

// SetCustomer attaches a customer reference to the sale.
func (e *Engine) SetCustomer(customerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.CustomerID = customerID
	e.publishLocked()
}

// SetNotes replaces the cart notes.
func (e *Engine) SetNotes(notes string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.Notes = notes
	e.publishLocked()
}

// Clear empties the cart unconditionally. Idempotent.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart = domain.Cart{}
	e.publishLocked()
}

// Cart returns a deep copy of the current cart.
func (e *Engine) Cart() domain.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Clone()
}

// Restore replaces the active cart wholesale. Used by park/resume; the
// caller owns any confirmation about overwriting a non-empty cart.
func (e *Engine) Restore(c domain.Cart) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart = c.Clone()
	e.publishLocked()
}

// Totals computes totals for the current cart state.
func (e *Engine) Totals() Totals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Compute(e.cart, e.taxRateBps)
}

// TaxRateBps returns the engine's tax rate in basis points.
func (e *Engine) TaxRateBps() int64 {
	return e.taxRateBps
}

// WatchCart subscribes to cart snapshots.
func (e *Engine) WatchCart() (<-chan domain.Cart, func()) {
	return e.cartFeed.Subscribe()
}

// WatchTotals subscribes to recomputed totals.
func (e *Engine) WatchTotals() (<-chan Totals, func()) {
	return e.totalsFeed.Subscribe()
}

func (e *Engine) indexOfLocked(itemID string) int {
	for i := range e.cart.Items {
		if e.cart.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (e *Engine) publishLocked() {
	e.cartFeed.Publish(e.cart.Clone())
	e.totalsFeed.Publish(Compute(e.cart, e.taxRateBps))
}
