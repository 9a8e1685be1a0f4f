package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/kibidoart/kibido-backend/pkg/db/models"
)

// ProductDTO represents the product payload returned to clients. Price is
// serialized as a decimal string.
type ProductDTO struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Price       string       `json:"price"`
	Images      []string     `json:"images"`
	Gallery     []string     `json:"gallery,omitempty"`
	Stock       int          `json:"stock"`
	Artist      *string      `json:"artist,omitempty"`
	Featured    bool         `json:"featured"`
	Latest      bool         `json:"latest"`
	CategoryID  uuid.UUID    `json:"category_id"`
	Category    *CategoryRef `json:"category,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CategoryRef is the denormalized category block embedded in product payloads.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		Price:       product.Price.StringFixed(2),
		Images:      append([]string{}, product.Images...),
		Gallery:     append([]string{}, product.Gallery...),
		Stock:       product.Stock,
		Artist:      product.Artist,
		Featured:    product.Featured,
		Latest:      product.Latest,
		CategoryID:  product.CategoryID,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Category != nil {
		dto.Category = &CategoryRef{
			ID:   product.Category.ID,
			Name: product.Category.Name,
			Slug: product.Category.Slug,
		}
	}
	return dto
}

// NewCatalogItem projects a persisted product into the browse read-model.
func NewCatalogItem(product models.Product) CatalogItem {
	item := CatalogItem{
		ID:          product.ID.String(),
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		Artist:      product.Artist,
		Price:       product.Price,
		CategoryID:  product.CategoryID.String(),
		Stock:       product.Stock,
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0]
	}
	return item
}
