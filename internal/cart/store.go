package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/kibidoart/kibido-backend/pkg/logger"
)

// LineItem is one cart entry: one distinct product id and its quantity.
// Display fields are snapshotted at add time and not re-synced if the
// underlying product changes later.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	Artist   *string         `json:"artist,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// ItemSnapshot is the add-time product snapshot, without a quantity.
type ItemSnapshot struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Image  string          `json:"image"`
	Artist *string         `json:"artist,omitempty"`
	Price  decimal.Decimal `json:"price"`
}

// Storage is the durable backing for a cart: a key-value store holding an
// opaque JSON-serialized line item list.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

// Store maintains the ordered set of items one session intends to purchase.
// Insertion order governs display order. All operations are safe for
// concurrent use; each mutation runs to completion under the store's lock.
type Store struct {
	mu       sync.Mutex
	key      string
	items    []LineItem
	hydrated bool
	storage  Storage
	logg     *logger.Logger
}

// NewStore constructs an unhydrated store bound to the given storage key.
func NewStore(key string, storage Storage, logg *logger.Logger) *Store {
	return &Store{key: key, storage: storage, logg: logg}
}

// Hydrate performs the one-time initial load from durable storage. Missing or
// corrupt data is never fatal: the store starts empty and the failure is
// logged. After Hydrate returns, mutations write back to storage; before it,
// they only touch memory so a not-yet-loaded cart is never clobbered.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return
	}

	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.logWarn(ctx, "cart storage read failed, starting empty", err)
	} else if ok {
		var items []LineItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			s.logWarn(ctx, "persisted cart is corrupt, starting empty", err)
		} else {
			s.items = items
		}
	}
	s.hydrated = true
}

// Add appends a new line item with quantity 1, or increments the quantity of
// the existing line with the same id. The existing snapshot's fields are kept
// as-is; only the quantity changes.
func (s *Store) Add(ctx context.Context, snapshot ItemSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == snapshot.ID {
			s.items[i].Quantity++
			s.writeBack(ctx)
			return
		}
	}

	s.items = append(s.items, LineItem{
		ID:       snapshot.ID,
		Name:     snapshot.Name,
		Image:    snapshot.Image,
		Artist:   snapshot.Artist,
		Price:    snapshot.Price,
		Quantity: 1,
	})
	s.writeBack(ctx)
}

// Remove deletes the line with the matching id; absent ids are a no-op.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.writeBack(ctx)
}

// UpdateQuantity sets the line's quantity to the given absolute value.
// Values below 1 are ignored: removal must go through Remove.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.writeBack(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.writeBack(ctx)
}

// Items returns a copy of the line items in display order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Count is the sum of all quantities; 0 for an empty cart.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Total is the sum of price x quantity across all items; zero for an empty
// cart. No currency rounding is applied here.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// writeBack persists the current items. Best-effort: a write failure leaves
// the in-memory cart correct for the session and is only logged. Callers must
// hold s.mu.
func (s *Store) writeBack(ctx context.Context) {
	if !s.hydrated {
		return
	}
	payload, err := json.Marshal(s.items)
	if err != nil {
		s.logWarn(ctx, "serializing cart for write-back failed", err)
		return
	}
	if err := s.storage.Set(ctx, s.key, string(payload)); err != nil {
		s.logWarn(ctx, "cart write-back failed", err)
	}
}

func (s *Store) logWarn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
}
