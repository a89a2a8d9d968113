package orders

import (
	"context"
	"errors"

	"github.com/theauraflow/pos/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already archived")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// Repository archives finalized orders. The archive is a write-behind
// record of immutable orders; the ledger stays the source of truth for
// money movement.
type Repository interface {
	SaveOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Order, error)
	RunMigrations(cred *Credentials) error
	Close() error
}
