package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kibidoart/kibido-backend/internal/repo"
	"github.com/kibidoart/kibido-backend/pkg/db/models"
)

// Repository persists checkout handoff records.
type Repository struct {
	repo.Base
}

// NewRepository constructs a checkout repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateTx inserts the handoff inside the caller's transaction.
func (r *Repository) CreateTx(tx *gorm.DB, handoff *models.CheckoutHandoff) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(handoff).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutHandoff, error) {
	var handoff models.CheckoutHandoff
	err := r.DB(ctx).First(&handoff, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &handoff, nil
}

// ListBySession returns a session's handoffs newest-first.
func (r *Repository) ListBySession(ctx context.Context, sessionID string) ([]models.CheckoutHandoff, error) {
	var handoffs []models.CheckoutHandoff
	err := r.DB(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&handoffs).Error
	return handoffs, err
}
