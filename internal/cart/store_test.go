package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	data    map[string]string
	getErr  error
	setErr  error
	setKeys []string
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string]string{}}
}

func (m *memStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *memStorage) Set(ctx context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.setKeys = append(m.setKeys, key)
	return nil
}

func (m *memStorage) Key(sessionID string) string {
	return "cart:" + sessionID
}

func snapshot(id string, price int64) ItemSnapshot {
	return ItemSnapshot{
		ID:    id,
		Name:  "Work " + id,
		Image: "/images/products/" + id + ".jpg",
		Price: decimal.NewFromInt(price),
	}
}

func hydratedStore(t *testing.T) (*Store, *memStorage) {
	t.Helper()
	storage := newMemStorage()
	store := NewStore(storage.Key("s1"), storage, nil)
	store.Hydrate(context.Background())
	return store, storage
}

func TestAddMergesSameProduct(t *testing.T) {
	store, _ := hydratedStore(t)
	ctx := context.Background()

	store.Add(ctx, snapshot("p1", 100))
	store.Add(ctx, snapshot("p1", 100))
	store.Add(ctx, snapshot("p1", 100))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddKeepsOriginalSnapshot(t *testing.T) {
	store, _ := hydratedStore(t)
	ctx := context.Background()

	store.Add(ctx, snapshot("p1", 100))

	// a later add with drifted display data only bumps the quantity
	changed := snapshot("p1", 250)
	changed.Name = "Renamed Work"
	store.Add(ctx, changed)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Work p1", items[0].Name)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	store, _ := hydratedStore(t)
	ctx := context.Background()

	store.Add(ctx, snapshot("p1", 100))
	store.Add(ctx, snapshot("p2", 200))
	store.Add(ctx, snapshot("p1", 100))
	store.Add(ctx, snapshot("p3", 300))

	items := store.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, "p2", items[1].ID)
	assert.Equal(t, "p3", items[2].ID)
}

func TestUpdateQuantityFloor(t *testing.T) {
	store, _ := hydratedStore(t)
	ctx := context.Background()

	store.Add(ctx, snapshot("p1", 100))
	store.UpdateQuantity(ctx, "p1", 5)
	require.Equal(t, 5, store.Items()[0].Quantity)

	store.UpdateQuantity(ctx, "p1", 0)
	assert.Equal(t, 5, store.Items()[0].Quantity)

	store.UpdateQuantity(ctx, "p1", -5)
	assert.Equal(t, 5, store.Items()[0].Quantity)

	// unknown ids are ignored
	store.UpdateQuantity(ctx, "ghost", 2)
	require.Len(t, store.Items(), 1)
}

func TestRemoveIsIdempotent(t *testing.T) {
	store, _ := hydratedStore(t)
	ctx := context.Background()

	store.Add(ctx, snapshot("p1", 100))
	store.Remove(ctx, "p1")
	assert.Empty(t, store.Items())

	store.Remove(ctx, "p1")
	assert.Empty(t, store.Items())
}

func TestAggregates(t *testing.T) {
	store, _ := hydratedStore(t)
	ctx := context.Background()

	assert.Equal(t, 0, store.Count())
	assert.True(t, store.Total().IsZero())

	store.Add(ctx, snapshot("p1", 100))
	store.Add(ctx, snapshot("p1", 100))
	store.Add(ctx, snapshot("p2", 250))
	store.UpdateQuantity(ctx, "p2", 3)

	assert.Equal(t, 5, store.Count())
	assert.True(t, store.Total().Equal(decimal.NewFromInt(950)), "got %s", store.Total())

	store.Clear(ctx)
	assert.Equal(t, 0, store.Count())
	assert.True(t, store.Total().IsZero())
}

func TestPersistenceRoundTrip(t *testing.T) {
	storage := newMemStorage()
	ctx := context.Background()

	first := NewStore(storage.Key("s1"), storage, nil)
	first.Hydrate(ctx)
	first.Add(ctx, snapshot("p1", 100))
	first.Add(ctx, snapshot("p2", 200))
	first.UpdateQuantity(ctx, "p2", 4)

	second := NewStore(storage.Key("s1"), storage, nil)
	second.Hydrate(ctx)

	want := first.Items()
	got := second.Items()
	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.True(t, want[i].Price.Equal(got[i].Price))
	}
}

func TestNoWriteBackBeforeHydration(t *testing.T) {
	storage := newMemStorage()
	storage.data[storage.Key("s1")] = `[{"id":"p9","name":"Persisted","image":"","price":"50","quantity":1}]`

	store := NewStore(storage.Key("s1"), storage, nil)

	// mutation before hydration must not clobber the persisted cart
	store.Add(context.Background(), snapshot("p1", 100))
	assert.Empty(t, storage.setKeys)

	fresh := NewStore(storage.Key("s1"), storage, nil)
	fresh.Hydrate(context.Background())
	items := fresh.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p9", items[0].ID)
}

func TestHydrateToleratesCorruptPayload(t *testing.T) {
	storage := newMemStorage()
	storage.data[storage.Key("s1")] = "{not json"

	store := NewStore(storage.Key("s1"), storage, nil)
	store.Hydrate(context.Background())

	assert.Empty(t, store.Items())
	assert.Equal(t, 0, store.Count())
}

func TestHydrateToleratesReadError(t *testing.T) {
	storage := newMemStorage()
	storage.getErr = errors.New("redis down")

	store := NewStore(storage.Key("s1"), storage, nil)
	store.Hydrate(context.Background())

	assert.Empty(t, store.Items())

	// store still works in memory when persistence is unavailable
	storage.setErr = errors.New("redis down")
	store.Add(context.Background(), snapshot("p1", 100))
	assert.Equal(t, 1, store.Count())
}
