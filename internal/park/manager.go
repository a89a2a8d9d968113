// Package park snapshots the active cart so the cashier can serve another
// customer and come back to the sale later.
package park

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/theauraflow/pos/internal/cart"
	"github.com/theauraflow/pos/internal/domain"
	"github.com/theauraflow/pos/internal/feed"
	"github.com/theauraflow/pos/internal/store"
	"go.uber.org/zap"
)

const storageKey = "pos:parked-sales"

var ErrParkedSaleNotFound = errors.New("parked sale not found")

// Manager owns the parked sales. Snapshots are deep copies: a parked sale
// is immune to any mutation of a cart built before it is resumed.
type Manager struct {
	mu     sync.Mutex
	engine *cart.Engine
	kv     store.KV
	log    *zap.Logger
	newID  func() string
	now    func() time.Time
	sales  map[string]domain.ParkedSale
	feed   *feed.Feed[[]domain.ParkedSale]
}

func NewManager(engine *cart.Engine, kv store.KV, log *zap.Logger) *Manager {
	return &Manager{
		engine: engine,
		kv:     kv,
		log:    log,
		newID:  uuid.NewString,
		now:    time.Now,
		sales:  make(map[string]domain.ParkedSale),
		feed:   feed.New[[]domain.ParkedSale](),
	}
}

// SetIDFunc overrides parked-sale ID generation, for deterministic tests.
func (m *Manager) SetIDFunc(f func() string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.newID = f
}

// SetClock overrides the clock, for deterministic tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Load restores parked sales from storage. A missing snapshot means none
// are parked; corrupt data is logged and the manager starts empty.
func (m *Manager) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.kv.Get(ctx, storageKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		m.publishLocked()
		return
	}
	if err != nil {
		m.log.Warn("parked sales unreadable, starting empty", zap.Error(err))
		m.publishLocked()
		return
	}

	var sales []domain.ParkedSale
	if err := json.Unmarshal(data, &sales); err != nil {
		m.log.Warn("parked sales corrupt, starting empty", zap.Error(err))
		m.publishLocked()
		return
	}
	for _, s := range sales {
		m.sales[s.ID] = s
	}
	m.publishLocked()
}

// Park snapshots the current cart by value under a fresh ID, then clears
// the active cart. An empty cart cannot be parked.
func (m *Manager) Park(ctx context.Context, label string) (string, error) {
	snapshot := m.engine.Cart()
	if snapshot.IsEmpty() {
		return "", cart.ErrEmptyCart
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.newID()
	m.sales[id] = domain.ParkedSale{
		ID:        id,
		Label:     label,
		Cart:      snapshot,
		CreatedAt: m.now(),
	}
	m.engine.Clear()
	m.persistLocked(ctx)
	m.publishLocked()
	return id, nil
}

// List returns all parked sales, newest first.
func (m *Manager) List() []domain.ParkedSale {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listLocked()
}

// Resume replaces the active cart with the snapshot and deletes the
// parked entry, in one critical section — the same ID can never be
// resumed twice. The overwrite is unconditional; confirming over a
// non-empty cart is the caller's responsibility.
func (m *Manager) Resume(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sales[id]
	if !ok {
		return ErrParkedSaleNotFound
	}
	m.engine.Restore(s.Cart)
	delete(m.sales, id)
	m.persistLocked(ctx)
	m.publishLocked()
	return nil
}

// Delete removes a parked sale without resuming it. Idempotent.
func (m *Manager) Delete(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sales[id]; !ok {
		return
	}
	delete(m.sales, id)
	m.persistLocked(ctx)
	m.publishLocked()
}

// Watch subscribes to the parked list, newest first.
func (m *Manager) Watch() (<-chan []domain.ParkedSale, func()) {
	return m.feed.Subscribe()
}

func (m *Manager) listLocked() []domain.ParkedSale {
	out := make([]domain.ParkedSale, 0, len(m.sales))
	for _, s := range m.sales {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// persistLocked snapshots the parked set to storage. Parking stays usable
// when the store is down; the failure is only logged and the next
// successful persist writes the full current set anyway.
func (m *Manager) persistLocked(ctx context.Context) {
	sales := make([]domain.ParkedSale, 0, len(m.sales))
	for _, s := range m.sales {
		sales = append(sales, s)
	}
	data, err := json.Marshal(sales)
	if err != nil {
		m.log.Warn("parked sales marshal failed", zap.Error(err))
		return
	}
	if err := m.kv.Put(ctx, storageKey, data); err != nil {
		m.log.Warn("parked sales persist failed", zap.Error(err))
	}
}

func (m *Manager) publishLocked() {
	m.feed.Publish(m.listLocked())
}
