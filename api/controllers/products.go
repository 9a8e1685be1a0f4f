package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kibidoart/kibido-backend/api/responses"
	"github.com/kibidoart/kibido-backend/api/validators"
	product "github.com/kibidoart/kibido-backend/internal/products"
	pkgerrors "github.com/kibidoart/kibido-backend/pkg/errors"
	"github.com/kibidoart/kibido-backend/pkg/logger"
)

// BrowseProducts serves the public catalog with filtering, sorting, and
// pagination driven by query parameters.
func BrowseProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		perPage, err := validators.ParseQueryInt(r, "per_page", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.Browse(r.Context(), product.BrowseInput{
			Category: validators.QueryString(r, "category", product.CategoryAll),
			PriceMin: validators.QueryStringPtr(r, "price_min"),
			PriceMax: validators.QueryStringPtr(r, "price_max"),
			Search:   validators.QueryString(r, "q", ""),
			Sort:     validators.QueryString(r, "sort", ""),
			Page:     page,
			PerPage:  perPage,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, out)
	}
}

// GetProduct serves a single public product page. The path parameter may be
// the product id or its slug; slug is the fallback.
func GetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(chi.URLParam(r, "idOrSlug"))
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id or slug is required"))
			return
		}

		var (
			dto *product.ProductDTO
			err error
		)
		if id, parseErr := uuid.Parse(key); parseErr == nil {
			dto, err = svc.GetProduct(r.Context(), id)
		} else {
			dto, err = svc.GetProductBySlug(r.Context(), key)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

type productRequest struct {
	Name        string   `json:"name" validate:"required"`
	Slug        string   `json:"slug,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       string   `json:"price" validate:"required"`
	Images      []string `json:"images,omitempty"`
	Gallery     []string `json:"gallery,omitempty"`
	Stock       int      `json:"stock" validate:"min=0"`
	Artist      *string  `json:"artist,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
	Latest      bool     `json:"latest,omitempty"`
	CategoryID  string   `json:"category_id" validate:"required,uuid4"`
}

func (r productRequest) toCreateInput() (product.CreateProductInput, error) {
	categoryID, err := uuid.Parse(r.CategoryID)
	if err != nil {
		return product.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category_id")
	}
	return product.CreateProductInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Price:       r.Price,
		Images:      r.Images,
		Gallery:     r.Gallery,
		Stock:       r.Stock,
		Artist:      r.Artist,
		Featured:    r.Featured,
		Latest:      r.Latest,
		CategoryID:  categoryID,
	}, nil
}

type productUpdateRequest struct {
	Name        *string   `json:"name,omitempty"`
	Slug        *string   `json:"slug,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *string   `json:"price,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	Gallery     *[]string `json:"gallery,omitempty"`
	Stock       *int      `json:"stock,omitempty" validate:"omitempty,min=0"`
	Artist      *string   `json:"artist,omitempty"`
	Featured    *bool     `json:"featured,omitempty"`
	Latest      *bool     `json:"latest,omitempty"`
	CategoryID  *string   `json:"category_id,omitempty" validate:"omitempty,uuid4"`
}

func (r productUpdateRequest) toUpdateInput() (product.UpdateProductInput, error) {
	input := product.UpdateProductInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Price:       r.Price,
		Images:      r.Images,
		Gallery:     r.Gallery,
		Stock:       r.Stock,
		Artist:      r.Artist,
		Featured:    r.Featured,
		Latest:      r.Latest,
	}
	if r.CategoryID != nil {
		categoryID, err := uuid.Parse(*r.CategoryID)
		if err != nil {
			return product.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category_id")
		}
		input.CategoryID = &categoryID
	}
	return input, nil
}

// AdminCreateProduct handles catalog product creation.
func AdminCreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AdminUpdateProduct applies a partial update to a product.
func AdminUpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := urlParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// AdminDeleteProduct removes a product from the catalog.
func AdminDeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := urlParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminGetProduct returns a single product for the admin panel.
func AdminGetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := urlParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ListProducts returns the catalog newest-first with optional flag filters.
// Shared by the public listing and the admin panel.
func ListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := product.ListFilter{}

		if raw := validators.QueryString(r, "category_id", ""); raw != "" {
			categoryID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category_id"))
				return
			}
			filter.CategoryID = &categoryID
		}
		if raw := validators.QueryString(r, "featured", ""); raw != "" {
			featured := raw == "true"
			filter.Featured = &featured
		}
		if raw := validators.QueryString(r, "latest", ""); raw != "" {
			latest := raw == "true"
			filter.Latest = &latest
		}

		items, err := svc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

func urlParamUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key)
	}
	return id, nil
}
