package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentMobile   PaymentMethod = "mobile"
	PaymentGiftCard PaymentMethod = "gift_card"
	PaymentOther    PaymentMethod = "other"
)

// Order is an immutable record of a finalized sale. Money fields are never
// edited after creation; cancellations and refunds are recorded as new
// ledger transactions referencing the order.
type Order struct {
	ID             string        `json:"id"`
	OrderNumber    string        `json:"order_number"`
	Items          []CartItem    `json:"items"`
	Subtotal       Money         `json:"subtotal"`
	DiscountTotal  Money         `json:"discount_total"`
	TaxTotal       Money         `json:"tax_total"`
	Total          Money         `json:"total"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	AmountTendered Money         `json:"amount_tendered"`
	ChangeDue      Money         `json:"change_due"`
	CustomerID     string        `json:"customer_id,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	Status         OrderStatus   `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// OrderNumberFor formats a sequence value as a display order number.
func OrderNumberFor(seq int64) string {
	return fmt.Sprintf("ORD-%d", seq)
}
