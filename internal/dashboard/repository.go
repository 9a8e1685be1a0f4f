package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kibidoart/kibido-backend/internal/repo"
	"github.com/kibidoart/kibido-backend/pkg/db/models"
)

// TopCategory pairs a category with how many products it holds.
type TopCategory struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProductCount int64     `json:"product_count"`
}

// RecentHandoff is the trimmed hand-off row shown on the dashboard.
type RecentHandoff struct {
	ID        uuid.UUID       `json:"id"`
	SessionID string          `json:"session_id"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
}

// Repository aggregates catalog and checkout figures for the admin dashboard.
type Repository struct {
	repo.Base
}

// NewRepository constructs a dashboard repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Category{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountFeatured(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Product{}).Where("featured = ?", true).Count(&count).Error
	return count, err
}

func (r *Repository) CountHandoffs(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.CheckoutHandoff{}).Count(&count).Error
	return count, err
}

// SumStock totals the units on hand across the whole catalog.
func (r *Repository) SumStock(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB(ctx).Model(&models.Product{}).
		Select("COALESCE(SUM(stock), 0)").
		Scan(&total).Error
	return total, err
}

// TopCategories ranks categories by product count, busiest first.
func (r *Repository) TopCategories(ctx context.Context, limit int) ([]TopCategory, error) {
	var rows []TopCategory
	err := r.DB(ctx).Model(&models.Category{}).
		Select("categories.id, categories.name, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("product_count DESC, categories.name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// RecentHandoffs returns the newest checkout hand-offs without their payloads.
func (r *Repository) RecentHandoffs(ctx context.Context, limit int) ([]RecentHandoff, error) {
	var rows []RecentHandoff
	err := r.DB(ctx).Model(&models.CheckoutHandoff{}).
		Select("id, session_id, item_count, subtotal, created_at").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
