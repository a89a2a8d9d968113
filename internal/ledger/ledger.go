// Package ledger keeps the append-only, newest-first log of monetary
// events and persists it as a single serialized snapshot in durable
// key/value storage.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/theauraflow/pos/internal/domain"
	"github.com/theauraflow/pos/internal/feed"
	"github.com/theauraflow/pos/internal/store"
	"go.uber.org/zap"
)

const storageKey = "pos:transactions"

var (
	// ErrWriteFailed marks a persistence failure after the in-memory
	// append already happened. The entry is kept; the caller may retry
	// persistence via Flush.
	ErrWriteFailed = errors.New("ledger write failed")

	// ErrStorageReadFailed marks unreadable or corrupt stored data at
	// load time. The ledger starts empty and stays usable.
	ErrStorageReadFailed = errors.New("ledger storage read failed")
)

// Filter selects transactions from the in-memory log. Zero fields match
// everything.
type Filter struct {
	OrderID string
	Type    domain.TransactionType
	Status  domain.TransactionStatus
}

// Ledger is single-writer: commands arrive sequentially from one logical
// actor. Concurrent readers get full snapshots via Query/Observe.
type Ledger struct {
	mu      sync.Mutex
	kv      store.KV
	log     *zap.Logger
	entries []domain.Transaction
	feed    *feed.Feed[[]domain.Transaction]
}

func New(kv store.KV, log *zap.Logger) *Ledger {
	return &Ledger{
		kv:   kv,
		log:  log,
		feed: feed.New[[]domain.Transaction](),
	}
}

// Load restores the stored snapshot. A missing snapshot is an empty
// ledger, not an error. Corrupt or unreadable data is reported via
// ErrStorageReadFailed but the ledger still starts empty and usable — the
// till must keep working.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := l.kv.Get(ctx, storageKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		l.entries = nil
		l.publishLocked()
		return nil
	}
	if err != nil {
		l.entries = nil
		l.publishLocked()
		l.log.Warn("ledger snapshot unreadable, starting empty", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorageReadFailed, err)
	}

	var entries []domain.Transaction
	if err := json.Unmarshal(data, &entries); err != nil {
		l.entries = nil
		l.publishLocked()
		l.log.Warn("ledger snapshot corrupt, starting empty", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorageReadFailed, err)
	}

	l.entries = entries
	l.publishLocked()
	l.log.Info("ledger loaded", zap.Int("transactions", len(entries)))
	return nil
}

// Append inserts at the head of the log, then writes the entire log as
// one atomic snapshot. On persistence failure the in-memory insert is
// kept — other components may already observe the record — and
// ErrWriteFailed is returned for the caller to retry.
func (l *Ledger) Append(ctx context.Context, tx domain.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]domain.Transaction{tx}, l.entries...)
	l.publishLocked()
	return l.persistLocked(ctx)
}

// Flush retries snapshot persistence for the current in-memory log.
func (l *Ledger) Flush(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.persistLocked(ctx)
}

// Query filters the in-memory log; it never touches storage. Results keep
// newest-first order.
func (l *Ledger) Query(f Filter) []domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Transaction, 0, len(l.entries))
	for _, tx := range l.entries {
		if f.OrderID != "" && tx.OrderID != f.OrderID {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Status != "" && tx.Status != f.Status {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// All returns the whole log, newest first.
func (l *Ledger) All() []domain.Transaction {
	return l.Query(Filter{})
}

// Observe subscribes to the log; every successful Append and Clear
// publishes the full current log.
func (l *Ledger) Observe() (<-chan []domain.Transaction, func()) {
	return l.feed.Subscribe()
}

// Clear wipes the ledger wholesale. This is a distinct administrative
// action, logged for audit.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	dropped := len(l.entries)
	l.entries = nil
	l.publishLocked()
	l.log.Warn("ledger cleared", zap.Int("dropped", dropped))
	return l.persistLocked(ctx)
}

func (l *Ledger) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(l.entries)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := l.kv.Put(ctx, storageKey, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

func (l *Ledger) publishLocked() {
	snapshot := make([]domain.Transaction, len(l.entries))
	copy(snapshot, l.entries)
	l.feed.Publish(snapshot)
}
