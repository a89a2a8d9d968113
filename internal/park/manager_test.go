package park

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theauraflow/pos/internal/cart"
	"github.com/theauraflow/pos/internal/domain"
	"github.com/theauraflow/pos/internal/store"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) (*Manager, *cart.Engine, store.KV) {
	t.Helper()
	engine := cart.NewEngine(825)
	kv := store.NewMemoryKV()
	m := NewManager(engine, kv, zap.NewNop())

	n := 0
	m.SetIDFunc(func() string {
		n++
		return fmt.Sprintf("park-%d", n)
	})
	return m, engine, kv
}

func addItem(t *testing.T, engine *cart.Engine, productID string, price domain.Money, qty int) {
	t.Helper()
	_, err := engine.AddItem(domain.Product{ID: productID, Name: productID, Price: price, Taxable: true, Active: true}, qty, nil)
	require.NoError(t, err)
}

func TestParkEmptyCartRejected(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Park(context.Background(), "table 4")
	assert.ErrorIs(t, err, cart.ErrEmptyCart)
}

func TestParkSnapshotsAndClearsActiveCart(t *testing.T) {
	m, engine, _ := newTestManager(t)
	addItem(t, engine, "p1", 500, 2)

	id, err := m.Park(context.Background(), "table 4")
	require.NoError(t, err)
	assert.Equal(t, "park-1", id)

	assert.True(t, engine.Cart().IsEmpty(), "parking clears the active cart")

	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, "table 4", list[0].Label)
	assert.Len(t, list[0].Cart.Items, 1)
}

func TestParkedSnapshotImmuneToLaterMutations(t *testing.T) {
	m, engine, _ := newTestManager(t)
	addItem(t, engine, "p1", 500, 2)

	_, err := m.Park(context.Background(), "first")
	require.NoError(t, err)

	// Build a new cart after parking; the snapshot must not change.
	addItem(t, engine, "p2", 900, 1)

	list := m.List()
	require.Len(t, list, 1)
	require.Len(t, list[0].Cart.Items, 1)
	assert.Equal(t, "p1", list[0].Cart.Items[0].Product.ID)
	assert.Equal(t, 2, list[0].Cart.Items[0].Quantity)
}

func TestResumeRestoresCartByteForByte(t *testing.T) {
	m, engine, _ := newTestManager(t)
	addItem(t, engine, "p1", 500, 2)
	require.NoError(t, engine.ApplyOrderDiscount(domain.Discount{Kind: domain.DiscountPercentage, Value: 1000}))
	engine.SetCustomer("c1")
	parked := engine.Cart()

	id, err := m.Park(context.Background(), "t")
	require.NoError(t, err)
	require.NoError(t, m.Resume(context.Background(), id))

	assert.Equal(t, parked, engine.Cart())
}

func TestResumeIsExactlyOnce(t *testing.T) {
	m, engine, _ := newTestManager(t)
	addItem(t, engine, "p1", 500, 1)

	id, err := m.Park(context.Background(), "t")
	require.NoError(t, err)

	require.NoError(t, m.Resume(context.Background(), id))
	assert.ErrorIs(t, m.Resume(context.Background(), id), ErrParkedSaleNotFound)
	assert.Empty(t, m.List())
}

func TestResumeOverwritesActiveCartUnconditionally(t *testing.T) {
	m, engine, _ := newTestManager(t)
	addItem(t, engine, "p1", 500, 1)

	id, err := m.Park(context.Background(), "t")
	require.NoError(t, err)

	// Something else is now in progress; resume still replaces it.
	addItem(t, engine, "p2", 900, 3)
	require.NoError(t, m.Resume(context.Background(), id))

	got := engine.Cart()
	require.Len(t, got.Items, 1)
	assert.Equal(t, "p1", got.Items[0].Product.ID)
}

func TestResumeUnknownID(t *testing.T) {
	m, _, _ := newTestManager(t)
	assert.ErrorIs(t, m.Resume(context.Background(), "nope"), ErrParkedSaleNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	m, engine, _ := newTestManager(t)
	addItem(t, engine, "p1", 500, 1)

	id, err := m.Park(context.Background(), "t")
	require.NoError(t, err)

	m.Delete(context.Background(), id)
	m.Delete(context.Background(), id)
	assert.Empty(t, m.List())
}

func TestListIsNewestFirst(t *testing.T) {
	m, engine, _ := newTestManager(t)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	m.SetClock(func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	})

	for i := 1; i <= 3; i++ {
		addItem(t, engine, fmt.Sprintf("p%d", i), 100, 1)
		_, err := m.Park(context.Background(), fmt.Sprintf("sale %d", i))
		require.NoError(t, err)
	}

	list := m.List()
	require.Len(t, list, 3)
	assert.Equal(t, "sale 3", list[0].Label)
	assert.Equal(t, "sale 1", list[2].Label)
}

func TestLoadRestoresParkedSales(t *testing.T) {
	m, engine, kv := newTestManager(t)
	addItem(t, engine, "p1", 500, 2)
	_, err := m.Park(context.Background(), "held")
	require.NoError(t, err)

	// A fresh manager over the same storage sees the held sale.
	restarted := NewManager(cart.NewEngine(825), kv, zap.NewNop())
	restarted.Load(context.Background())

	list := restarted.List()
	require.Len(t, list, 1)
	assert.Equal(t, "held", list[0].Label)
	assert.Len(t, list[0].Cart.Items, 1)
}

func TestLoadCorruptDataStartsEmpty(t *testing.T) {
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Put(context.Background(), "pos:parked-sales", []byte("][")))

	m := NewManager(cart.NewEngine(825), kv, zap.NewNop())
	m.Load(context.Background())
	assert.Empty(t, m.List())
}

func TestParkSurvivesStorageFailure(t *testing.T) {
	engine := cart.NewEngine(825)
	m := NewManager(engine, &downKV{}, zap.NewNop())
	addItem(t, engine, "p1", 500, 1)

	// Persistence fails but the park itself succeeds in memory.
	id, err := m.Park(context.Background(), "t")
	require.NoError(t, err)
	require.Len(t, m.List(), 1)
	require.NoError(t, m.Resume(context.Background(), id))
}

type downKV struct{}

func (d *downKV) Get(context.Context, string) ([]byte, error) { return nil, store.ErrKeyNotFound }
func (d *downKV) Put(context.Context, string, []byte) error { return fmt.Errorf("store down") }
func (d *downKV) Delete(context.Context, string) error { return fmt.Errorf("store down") }
