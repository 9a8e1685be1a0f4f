package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/kibidoart/kibido-backend/pkg/errors"
	"github.com/kibidoart/kibido-backend/pkg/logger"
)

// CartView is the cart payload returned to clients: the line items plus the
// aggregates, recomputed on every read.
type CartView struct {
	Items []LineItem `json:"items"`
	Count int        `json:"count"`
	Total string     `json:"total"`
}

type sessionStorage interface {
	Storage
	Key(sessionID string) string
}

// Manager exposes session-scoped cart operations. Each call hydrates a store
// for the session, applies the mutation, and lets the store write back.
type Manager struct {
	storage sessionStorage
	logg    *logger.Logger
}

// NewManager constructs a cart manager over the given storage.
func NewManager(storage sessionStorage, logg *logger.Logger) (*Manager, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	return &Manager{storage: storage, logg: logg}, nil
}

// Get returns the current cart for the session.
func (m *Manager) Get(ctx context.Context, sessionID string) (*CartView, error) {
	store, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return view(store), nil
}

// Add puts one unit of the product snapshot into the cart, merging with an
// existing line for the same product id.
func (m *Manager) Add(ctx context.Context, sessionID string, snapshot ItemSnapshot) (*CartView, error) {
	if strings.TrimSpace(snapshot.ID) == "" {
		return nil, errors.New(errors.CodeValidation, "item id is required")
	}
	if snapshot.Price.IsNegative() {
		return nil, errors.New(errors.CodeValidation, "item price cannot be negative")
	}

	store, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	store.Add(ctx, snapshot)
	return view(store), nil
}

// Remove deletes the line for the given product id, if present.
func (m *Manager) Remove(ctx context.Context, sessionID, itemID string) (*CartView, error) {
	store, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	store.Remove(ctx, itemID)
	return view(store), nil
}

// UpdateQuantity sets the line's quantity. Quantities below 1 leave the cart
// unchanged.
func (m *Manager) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*CartView, error) {
	store, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	store.UpdateQuantity(ctx, itemID, quantity)
	return view(store), nil
}

// Clear empties the session's cart.
func (m *Manager) Clear(ctx context.Context, sessionID string) (*CartView, error) {
	store, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	store.Clear(ctx)
	return view(store), nil
}

// Snapshot returns the raw line items for checkout hand-off.
func (m *Manager) Snapshot(ctx context.Context, sessionID string) ([]LineItem, error) {
	store, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return store.Items(), nil
}

func (m *Manager) load(ctx context.Context, sessionID string) (*Store, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.New(errors.CodeValidation, "cart session id is required")
	}
	store := NewStore(m.storage.Key(sessionID), m.storage, m.logg)
	store.Hydrate(ctx)
	return store, nil
}

func view(store *Store) *CartView {
	items := store.Items()
	if items == nil {
		items = []LineItem{}
	}
	return &CartView{
		Items: items,
		Count: store.Count(),
		Total: store.Total().StringFixed(2),
	}
}
