package customer

import (
	"context"
	"errors"
)

var ErrCustomerNotFound = errors.New("customer not found")

// Repository defines the interface for customer directory operations.
// Consumers define this interface, not the MongoDB implementation.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	Search(ctx context.Context, query string, limit int64) ([]*Customer, error)
	AdjustLoyaltyPoints(ctx context.Context, id string, delta int64) error
}
