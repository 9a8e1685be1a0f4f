package product

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kibidoart/kibido-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("KIBIDO_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("KIBIDO_TEST_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateTestCategory(t *testing.T, tx *gorm.DB) *models.Category {
	t.Helper()
	suffix := uuid.NewString()[:8]
	category := &models.Category{
		Name: fmt.Sprintf("Paintings %s", suffix),
		Slug: fmt.Sprintf("paintings-%s", suffix),
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, categoryID uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:       "Test Work",
		Slug:       fmt.Sprintf("test-work-%s", uuid.NewString()[:8]),
		Price:      decimal.NewFromInt(250),
		Images:     pq.StringArray{"/images/products/test.jpg"},
		Stock:      3,
		CategoryID: categoryID,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestRepositoryRoundTrip(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	err := conn.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		category := mustCreateTestCategory(t, tx)
		created := mustCreateTestProduct(t, tx, category.ID)

		bySlug, err := repo.FindBySlug(ctx, created.Slug)
		if err != nil {
			t.Fatalf("find by slug: %v", err)
		}
		if bySlug == nil || bySlug.ID != created.ID {
			t.Fatalf("expected to load created product by slug")
		}
		if bySlug.Category == nil || bySlug.Category.ID != category.ID {
			t.Fatalf("expected category preloaded")
		}

		count, err := repo.CountByCategory(ctx, category.ID)
		if err != nil {
			t.Fatalf("count by category: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected count 1, got %d", count)
		}

		listed, err := repo.List(ctx, ListFilter{CategoryID: &category.ID})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(listed) != 1 {
			t.Fatalf("expected 1 product, got %d", len(listed))
		}

		return gorm.ErrRecordNotFound // roll back test data
	})
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("unexpected transaction error: %v", err)
	}
}
