package product

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/kibidoart/kibido-backend/pkg/config"
	"github.com/kibidoart/kibido-backend/pkg/db"
	"github.com/kibidoart/kibido-backend/pkg/db/models"
	pkgerrors "github.com/kibidoart/kibido-backend/pkg/errors"
	"github.com/kibidoart/kibido-backend/pkg/logger"
	"github.com/kibidoart/kibido-backend/pkg/types"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

const catalogCacheKey = "catalog:all"

// Service exposes catalog product management and browsing.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	ListProducts(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
	Browse(ctx context.Context, input BrowseInput) (*BrowseOutput, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Slug        string
	Description string
	Price       string
	Images      []string
	Gallery     []string
	Stock       int
	Artist      *string
	Featured    bool
	Latest      bool
	CategoryID  uuid.UUID
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Slug        *string
	Description *string
	Price       *string
	Images      *[]string
	Gallery     *[]string
	Stock       *int
	Artist      *string
	Featured    *bool
	Latest      *bool
	CategoryID  *uuid.UUID
}

// BrowseInput carries the client-chosen filter dimensions.
type BrowseInput struct {
	Category string
	PriceMin *string
	PriceMax *string
	Search   string
	Sort     string
	Page     int
	PerPage  int
}

// BrowseOutput is the derived page plus the metadata the storefront needs to
// render filter controls.
type BrowseOutput struct {
	Items         []CatalogItem  `json:"items"`
	Meta          types.PageMeta `json:"meta"`
	MaxPriceBound string         `json:"max_price_bound"`
}

type categoryReader interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo       *Repository
	categories categoryReader
	cache      *gocache.Cache
	cfg        config.CatalogConfig
	logg       *logger.Logger
}

// NewService constructs a product service instance.
func NewService(repo *Repository, categories categoryReader, cfg config.CatalogConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category reader required")
	}
	return &service{
		repo:       repo,
		categories: categories,
		cache:      gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		cfg:        cfg,
		logg:       logg,
	}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}

	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if !slugRe.MatchString(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must be lowercase alphanumerics separated by hyphens")
	}

	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		Price:       price,
		Images:      input.Images,
		Gallery:     input.Gallery,
		Stock:       input.Stock,
		Artist:      input.Artist,
		Featured:    input.Featured,
		Latest:      input.Latest,
		CategoryID:  input.CategoryID,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "idx_products_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}

	s.invalidateCatalog()
	return s.GetProduct(ctx, product.ID)
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = name
	}
	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if !slugRe.MatchString(slug) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must be lowercase alphanumerics separated by hyphens")
		}
		product.Slug = slug
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		price, err := parsePrice(*input.Price)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}
	if input.Images != nil {
		product.Images = *input.Images
	}
	if input.Gallery != nil {
		product.Gallery = *input.Gallery
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	if input.Artist != nil {
		product.Artist = input.Artist
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}
	if input.Latest != nil {
		product.Latest = *input.Latest
	}
	if input.CategoryID != nil {
		if err := s.checkCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
		product.Category = nil
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "idx_products_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}

	s.invalidateCatalog()
	return s.GetProduct(ctx, product.ID)
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	s.invalidateCatalog()
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return NewProductDTO(product), nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	product, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *NewProductDTO(&products[i]))
	}
	return dtos, nil
}

// Browse loads the catalog (cached), applies the filter pipeline, and returns
// the visible page with its pagination metadata.
func (s *service) Browse(ctx context.Context, input BrowseInput) (*BrowseOutput, error) {
	items, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	bound := MaxPriceBound(items, s.cfg.PriceBoundSlack)

	state := FilterState{
		SelectedCategory: strings.TrimSpace(input.Category),
		PriceMin:         decimal.Zero,
		PriceMax:         bound,
		SearchQuery:      input.Search,
		Sort:             SortOption(input.Sort),
		CurrentPage:      input.Page,
		ItemsPerPage:     input.PerPage,
	}
	if input.PriceMin != nil {
		state.PriceMin = CoercePrice(*input.PriceMin)
	}
	if input.PriceMax != nil {
		state.PriceMax = CoercePrice(*input.PriceMax)
	}
	state = state.Normalize(s.cfg.DefaultPerPage, s.cfg.MaxPerPage)

	result := DeriveVisibleProducts(items, state)

	return &BrowseOutput{
		Items: result.Visible,
		Meta: types.PageMeta{
			Page:       state.CurrentPage,
			PerPage:    state.ItemsPerPage,
			TotalItems: result.TotalItems,
			TotalPages: result.TotalPages,
		},
		MaxPriceBound: bound.StringFixed(2),
	}, nil
}

func (s *service) loadCatalog(ctx context.Context) ([]CatalogItem, error) {
	if cached, ok := s.cache.Get(catalogCacheKey); ok {
		if items, ok := cached.([]CatalogItem); ok {
			return items, nil
		}
	}

	products, err := s.repo.List(ctx, ListFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading catalog")
	}
	items := make([]CatalogItem, 0, len(products))
	for _, p := range products {
		items = append(items, NewCatalogItem(p))
	}
	s.cache.SetDefault(catalogCacheKey, items)
	return items, nil
}

func (s *service) invalidateCatalog() {
	s.cache.Delete(catalogCacheKey)
}

func (s *service) checkCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	exists, err := s.categories.Exists(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking category")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
	}
	return nil
}

func parsePrice(value string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number")
	}
	if price.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return price, nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a product or category name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
