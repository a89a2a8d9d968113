package catalog

import (
	"context"
	"errors"

	"github.com/theauraflow/pos/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service fronts the repository with a read-through cache. Cache errors
// are logged and ignored; the catalog answer always comes from somewhere.
type Service struct {
	repo  Repository
	cache ProductCache
	log   *zap.Logger
	sfg   singleflight.Group // prevents cache stampede per product
}

func NewService(repo Repository, cache ProductCache, log *zap.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	// Collapse concurrent misses for the same product into one lookup.
	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		p, err := s.cache.Get(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("product cache get failed", zap.String("product_id", id), zap.Error(err))
		}

		p, errGet := s.repo.GetProduct(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), id, p); errSet != nil {
				s.log.Warn("product cache set failed", zap.String("product_id", id), zap.Error(errSet))
			}
		}()

		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

// SaveProduct writes through to the repository and refreshes the cache so
// the next lookup sees the new price immediately.
func (s *Service) SaveProduct(ctx context.Context, p *domain.Product) error {
	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return err
	}
	if err := s.cache.Set(ctx, p.ID, p); err != nil {
		s.log.Warn("product cache refresh failed", zap.String("product_id", p.ID), zap.Error(err))
	}
	return nil
}
