package catalog

import (
	"context"
	"errors"

	"github.com/theauraflow/pos/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Repository is the catalog collaborator. The core treats products as
// read-only; Save exists for provisioning and sync jobs, not for the
// sales flow.
type Repository interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	SaveProduct(ctx context.Context, p *domain.Product) error
	RunMigrations(migrationsPath string) error
	Close() error
}
