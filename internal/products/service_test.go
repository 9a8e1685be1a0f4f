package product

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/kibidoart/kibido-backend/pkg/config"
	pkgerrors "github.com/kibidoart/kibido-backend/pkg/errors"
)

type fakeCategoryReader struct {
	exists bool
	err    error
}

func (f fakeCategoryReader) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.exists, f.err
}

func testCatalogConfig() config.CatalogConfig {
	return config.CatalogConfig{
		DefaultPerPage:  12,
		MaxPerPage:      48,
		PriceBoundSlack: 5000,
	}
}

func newValidationTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(nil), fakeCategoryReader{exists: true}, testCatalogConfig(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Blue Abstract":        "blue-abstract",
		"  Sunset / Dunes  ":   "sunset-dunes",
		"Étude":                "tude",
		"already-a-slug":       "already-a-slug",
		"Multiple   Spaces!!!": "multiple-spaces",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := newValidationTestService(t)
	ctx := context.Background()

	t.Run("emptyName", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "  ", Price: "100"})
		assertValidationError(t, err)
	})

	t.Run("malformedPrice", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Work", Price: "abc"})
		assertValidationError(t, err)
	})

	t.Run("negativePrice", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Work", Price: "-5"})
		assertValidationError(t, err)
	})

	t.Run("negativeStock", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Work", Price: "100", Stock: -1})
		assertValidationError(t, err)
	})

	t.Run("badSlug", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Work", Price: "100", Slug: "Not A Slug"})
		assertValidationError(t, err)
	})

	t.Run("missingCategory", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Work", Price: "100"})
		assertValidationError(t, err)
	})
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	svc, err := NewService(NewRepository(nil), fakeCategoryReader{exists: false}, testCatalogConfig(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.CreateProduct(context.Background(), CreateProductInput{
		Name:       "Work",
		Price:      "100",
		CategoryID: uuid.New(),
	})
	assertValidationError(t, err)
}

func TestParsePrice(t *testing.T) {
	price, err := parsePrice(" 149.99 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price.StringFixed(2) != "149.99" {
		t.Fatalf("unexpected price %s", price)
	}

	if _, err := parsePrice(""); err == nil {
		t.Fatal("expected error for empty price")
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error code, got %v", err)
	}
}
