package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutHandoff records a cart snapshot handed off to the WhatsApp channel.
type CheckoutHandoff struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SessionID string          `gorm:"column:session_id;type:text;not null;index:idx_checkout_handoffs_session"`
	Items     json.RawMessage `gorm:"column:items;type:jsonb;not null"`
	ItemCount int             `gorm:"column:item_count;not null"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Message   string          `gorm:"column:message;not null"`
	Link      string          `gorm:"column:link;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
