package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kibidoart/kibido-backend/internal/cart"
	"github.com/kibidoart/kibido-backend/pkg/config"
	"github.com/kibidoart/kibido-backend/pkg/db/models"
	pkgerrors "github.com/kibidoart/kibido-backend/pkg/errors"
	"github.com/kibidoart/kibido-backend/pkg/logger"
	"github.com/kibidoart/kibido-backend/pkg/outbox"
)

// HandoffDTO is the checkout payload returned to the storefront: the deep
// link to open plus the recorded order summary.
type HandoffDTO struct {
	ID        uuid.UUID `json:"id"`
	Link      string    `json:"link"`
	Message   string    `json:"message"`
	ItemCount int       `json:"item_count"`
	Subtotal  string    `json:"subtotal"`
	CreatedAt time.Time `json:"created_at"`
}

// HandoffEventData is the outbox payload for checkout.handoff.created.
type HandoffEventData struct {
	HandoffID uuid.UUID       `json:"handoff_id"`
	SessionID string          `json:"session_id"`
	ItemCount int             `json:"item_count"`
	Subtotal  string          `json:"subtotal"`
	Items     []cart.LineItem `json:"items"`
}

type cartReader interface {
	Snapshot(ctx context.Context, sessionID string) ([]cart.LineItem, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// InquiryDTO is the deep link for a single-artwork WhatsApp inquiry.
type InquiryDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Link      string    `json:"link"`
	Message   string    `json:"message"`
}

// Service exposes the WhatsApp checkout hand-off.
type Service interface {
	CreateHandoff(ctx context.Context, sessionID string) (*HandoffDTO, error)
	GetHandoff(ctx context.Context, id uuid.UUID) (*HandoffDTO, error)
	ProductInquiry(ctx context.Context, productID uuid.UUID) (*InquiryDTO, error)
}

type service struct {
	repo     *Repository
	carts    cartReader
	products productReader
	db       txRunner
	events   eventEmitter
	cfg      config.CheckoutConfig
	logg     *logger.Logger
}

// NewService constructs a checkout service instance.
func NewService(repo *Repository, carts cartReader, products productReader, db txRunner, events eventEmitter, cfg config.CheckoutConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if cfg.WhatsAppNumber == "" {
		return nil, fmt.Errorf("whatsapp number required")
	}
	return &service{repo: repo, carts: carts, products: products, db: db, events: events, cfg: cfg, logg: logg}, nil
}

// CreateHandoff snapshots the session's cart, records the handoff, queues the
// domain event, and returns the deep link. The cart itself is left intact so
// the customer can keep editing if the conversation stalls.
func (s *service) CreateHandoff(ctx context.Context, sessionID string) (*HandoffDTO, error) {
	items, err := s.carts.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	count := 0
	subtotal := decimal.Zero
	for _, item := range items {
		count += item.Quantity
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	message := BuildOrderMessage(items, subtotal)
	link := BuildDeepLink(s.cfg.WhatsAppNumber, message)

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "serializing cart items")
	}

	handoff := &models.CheckoutHandoff{
		SessionID: sessionID,
		Items:     itemsJSON,
		ItemCount: count,
		Subtotal:  subtotal,
		Message:   message,
		Link:      link,
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, handoff); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     models.EventCheckoutHandoffCreated,
			AggregateType: models.AggregateCheckoutHandoff,
			AggregateID:   handoff.ID,
			SessionID:     sessionID,
			Version:       1,
			Data: HandoffEventData{
				HandoffID: handoff.ID,
				SessionID: sessionID,
				ItemCount: count,
				Subtotal:  subtotal.StringFixed(2),
				Items:     items,
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording checkout handoff")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"handoff_id": handoff.ID.String(),
			"item_count": count,
		})
		s.logg.Info(logCtx, "checkout handoff created")
	}

	return newHandoffDTO(handoff), nil
}

// ProductInquiry builds the per-artwork deep link without touching the cart.
// Nothing is persisted; the conversation itself is the record.
func (s *service) ProductInquiry(ctx context.Context, productID uuid.UUID) (*InquiryDTO, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	message := BuildInquiryMessage(product.Name, product.Price)
	return &InquiryDTO{
		ProductID: product.ID,
		Link:      BuildDeepLink(s.cfg.WhatsAppNumber, message),
		Message:   message,
	}, nil
}

func (s *service) GetHandoff(ctx context.Context, id uuid.UUID) (*HandoffDTO, error) {
	handoff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading handoff")
	}
	if handoff == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "handoff not found")
	}
	return newHandoffDTO(handoff), nil
}

func newHandoffDTO(handoff *models.CheckoutHandoff) *HandoffDTO {
	return &HandoffDTO{
		ID:        handoff.ID,
		Link:      handoff.Link,
		Message:   handoff.Message,
		ItemCount: handoff.ItemCount,
		Subtotal:  handoff.Subtotal.StringFixed(2),
		CreatedAt: handoff.CreatedAt,
	}
}
