package store

import (
	"context"
	"errors"
)

// KV is the durable key/value collaborator used for snapshot persistence.
// Put replaces the whole value atomically; there is no partial write.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrKeyNotFound = errors.New("key not found")
