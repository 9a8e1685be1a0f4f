package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kibidoart/kibido-backend/pkg/config"
	"github.com/kibidoart/kibido-backend/pkg/db/models"
	"github.com/kibidoart/kibido-backend/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Category{}, &models.Product{}, &models.CheckoutHandoff{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB, cfg config.DashboardConfig) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), cfg, logger.New(logger.Options{ServiceName: "dashboard-test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedCatalog(t *testing.T, conn *gorm.DB) (paintings, prints models.Category) {
	t.Helper()
	paintings = models.Category{Name: "Paintings", Slug: "paintings"}
	prints = models.Category{Name: "Prints", Slug: "prints"}
	if err := conn.Create(&paintings).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if err := conn.Create(&prints).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	for i, p := range []models.Product{
		{Name: "Harbor Dusk", Slug: "harbor-dusk", Price: decimal.NewFromInt(400), Images: pq.StringArray{"harbor-dusk.png"}, Gallery: pq.StringArray{}, Stock: 2, Featured: true, CategoryID: paintings.ID},
		{Name: "Blue Field", Slug: "blue-field", Price: decimal.NewFromInt(250), Images: pq.StringArray{"blue-field.png"}, Gallery: pq.StringArray{}, Stock: 1, CategoryID: paintings.ID},
		{Name: "City Lines", Slug: "city-lines", Price: decimal.NewFromInt(90), Images: pq.StringArray{"city-lines.png"}, Gallery: pq.StringArray{}, Stock: 7, CategoryID: prints.ID},
	} {
		if err := conn.Create(&p).Error; err != nil {
			t.Fatalf("seed product %d: %v", i, err)
		}
	}
	return paintings, prints
}

func TestStatsAggregatesCatalog(t *testing.T) {
	conn := newTestDB(t)
	paintings, _ := seedCatalog(t, conn)

	older := models.CheckoutHandoff{SessionID: "sess-old", Items: json.RawMessage(`[]`), ItemCount: 1, Subtotal: decimal.NewFromInt(90), CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.CheckoutHandoff{SessionID: "sess-new", Items: json.RawMessage(`[]`), ItemCount: 2, Subtotal: decimal.NewFromInt(650), CreatedAt: time.Now()}
	for _, h := range []*models.CheckoutHandoff{&older, &newer} {
		if err := conn.Create(h).Error; err != nil {
			t.Fatalf("seed handoff: %v", err)
		}
	}

	svc := newTestService(t, conn, config.DashboardConfig{CacheTTL: time.Minute, RecentHandoffs: 1, TopCategories: 5})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.ProductCount != 3 || stats.CategoryCount != 2 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.FeaturedCount != 1 {
		t.Fatalf("expected 1 featured, got %d", stats.FeaturedCount)
	}
	if stats.StockSum != 10 {
		t.Fatalf("expected stock sum 10, got %d", stats.StockSum)
	}
	if stats.HandoffCount != 2 {
		t.Fatalf("expected 2 handoffs, got %d", stats.HandoffCount)
	}

	if len(stats.TopCategories) != 2 {
		t.Fatalf("expected 2 top categories, got %d", len(stats.TopCategories))
	}
	if stats.TopCategories[0].ID != paintings.ID || stats.TopCategories[0].ProductCount != 2 {
		t.Fatalf("expected paintings first with 2 products, got %+v", stats.TopCategories[0])
	}

	if len(stats.RecentHandoffs) != 1 {
		t.Fatalf("expected recent handoffs trimmed to 1, got %d", len(stats.RecentHandoffs))
	}
	if stats.RecentHandoffs[0].SessionID != "sess-new" {
		t.Fatalf("expected newest handoff first, got %s", stats.RecentHandoffs[0].SessionID)
	}
}

func TestStatsServesFromCacheUntilInvalidated(t *testing.T) {
	conn := newTestDB(t)
	seedCatalog(t, conn)

	svc := newTestService(t, conn, config.DashboardConfig{CacheTTL: time.Minute, RecentHandoffs: 5, TopCategories: 5})
	ctx := context.Background()

	first, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	extra := models.Product{Name: "Late Addition", Slug: "late-addition", Price: decimal.NewFromInt(50), Images: pq.StringArray{"late.png"}, Gallery: pq.StringArray{}, Stock: 1, CategoryID: first.TopCategories[0].ID}
	if err := conn.Create(&extra).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	cached, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if cached.ProductCount != first.ProductCount {
		t.Fatalf("expected cached count %d, got %d", first.ProductCount, cached.ProductCount)
	}

	svc.Invalidate()
	fresh, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if fresh.ProductCount != first.ProductCount+1 {
		t.Fatalf("expected refreshed count %d, got %d", first.ProductCount+1, fresh.ProductCount)
	}
}

func TestStatsEmptyDatabase(t *testing.T) {
	conn := newTestDB(t)
	svc := newTestService(t, conn, config.DashboardConfig{CacheTTL: time.Minute, RecentHandoffs: 5, TopCategories: 5})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ProductCount != 0 || stats.StockSum != 0 || stats.HandoffCount != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
}
