package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products under a browsable label.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;type:text;not null;uniqueIndex:idx_categories_name"`
	Slug      string    `gorm:"column:slug;type:text;not null;uniqueIndex:idx_categories_slug"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
