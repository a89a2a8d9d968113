package store

import (
	"context"
	"errors"

	"github.com/sony/gobreaker/v2"
)

// BreakerKV wraps a KV with a circuit breaker. When the backing store is
// down, writes fail fast instead of stalling every checkout on a
// timing-out connection; callers keep their in-memory state and retry
// persistence later.
type BreakerKV struct {
	inner KV
	cb    *gobreaker.CircuitBreaker[[]byte]
}

func NewBreakerKV(name string, inner KV) *BreakerKV {
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &BreakerKV{inner: inner, cb: cb}
}

func (b *BreakerKV) Get(ctx context.Context, key string) ([]byte, error) {
	// A miss is a valid answer, not a store failure; it must neither trip
	// the breaker nor get lost inside it.
	var missed bool
	data, err := b.cb.Execute(func() ([]byte, error) {
		data, err := b.inner.Get(ctx, key)
		if errors.Is(err, ErrKeyNotFound) {
			missed = true
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		return nil, err
	}
	if missed {
		return nil, ErrKeyNotFound
	}
	return data, nil
}

func (b *BreakerKV) Put(ctx context.Context, key string, value []byte) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.inner.Put(ctx, key, value)
	})
	return err
}

func (b *BreakerKV) Delete(ctx context.Context, key string) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.inner.Delete(ctx, key)
	})
	return err
}
