package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/kibidoart/kibido-backend/pkg/errors"
)

func newTestManager(t *testing.T) (*Manager, *memStorage) {
	t.Helper()
	storage := newMemStorage()
	manager, err := NewManager(storage, nil)
	require.NoError(t, err)
	return manager, storage
}

func TestManagerAddAndGet(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	view, err := manager.Add(ctx, "sess-1", snapshot("p1", 120))
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, "120.00", view.Total)

	view, err = manager.Add(ctx, "sess-1", snapshot("p1", 120))
	require.NoError(t, err)
	assert.Equal(t, 2, view.Count)
	require.Len(t, view.Items, 1)

	// a different session sees an independent cart
	other, err := manager.Get(ctx, "sess-2")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
	assert.Equal(t, "0.00", other.Total)
}

func TestManagerValidation(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	_, err := manager.Add(ctx, "sess-1", ItemSnapshot{ID: "  "})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	bad := snapshot("p1", 0)
	bad.Price = decimal.NewFromInt(-10)
	_, err = manager.Add(ctx, "sess-1", bad)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = manager.Get(ctx, "")
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestManagerMutationsPersistAcrossCalls(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	_, err := manager.Add(ctx, "sess-1", snapshot("p1", 100))
	require.NoError(t, err)
	_, err = manager.Add(ctx, "sess-1", snapshot("p2", 200))
	require.NoError(t, err)

	view, err := manager.UpdateQuantity(ctx, "sess-1", "p2", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Count)
	assert.Equal(t, "700.00", view.Total)

	view, err = manager.Remove(ctx, "sess-1", "p1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "p2", view.Items[0].ID)

	view, err = manager.Clear(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	// clear persists too
	view, err = manager.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestManagerSnapshotForCheckout(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	_, err := manager.Add(ctx, "sess-1", snapshot("p1", 150))
	require.NoError(t, err)

	items, err := manager.Snapshot(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, 1, items[0].Quantity)
}
