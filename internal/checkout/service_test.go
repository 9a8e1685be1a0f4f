package checkout

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kibidoart/kibido-backend/internal/cart"
	"github.com/kibidoart/kibido-backend/pkg/config"
	"github.com/kibidoart/kibido-backend/pkg/db/models"
	pkgerrors "github.com/kibidoart/kibido-backend/pkg/errors"
	"github.com/kibidoart/kibido-backend/pkg/outbox"
)

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"0":        "0.00",
		"950":      "950.00",
		"1234.5":   "1,234.50",
		"12345.67": "12,345.67",
		"1234567":  "1,234,567.00",
	}
	for input, want := range cases {
		d, err := decimal.NewFromString(input)
		require.NoError(t, err)
		assert.Equal(t, want, FormatAmount(d), "input %s", input)
	}
}

func TestBuildOrderMessage(t *testing.T) {
	items := []cart.LineItem{
		{ID: "p1", Name: "Blue Abstract", Price: decimal.NewFromInt(100), Quantity: 2},
		{ID: "p2", Name: "Red Nature", Price: decimal.NewFromFloat(1250.50), Quantity: 1},
	}
	total := decimal.NewFromFloat(1450.50)

	message := BuildOrderMessage(items, total)

	assert.True(t, strings.HasPrefix(message, "Hello, I would like to order the following items:\n\n"))
	assert.Contains(t, message, "• 2x Blue Abstract - $200.00\n")
	assert.Contains(t, message, "• 1x Red Nature - $1,250.50\n")
	assert.Contains(t, message, "\nSubtotal: $1,450.50")
	assert.True(t, strings.HasSuffix(message, "Please let me know the payment details and delivery options."))
}

func TestBuildDeepLink(t *testing.T) {
	link := BuildDeepLink("+212 600-000-000", "order: 2x café")

	assert.True(t, strings.HasPrefix(link, "https://wa.me/212600000000?text="))
	assert.NotContains(t, link, "+2")
	assert.NotContains(t, link, "+", "spaces must encode as %20, not +")
	assert.Contains(t, link, "%20")

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", parsed.Host)
	assert.Equal(t, "order: 2x café", parsed.Query().Get("text"))
}

type fakeCartReader struct {
	items []cart.LineItem
	err   error
}

func (f fakeCartReader) Snapshot(ctx context.Context, sessionID string) ([]cart.LineItem, error) {
	return f.items, f.err
}

type sqliteTxRunner struct {
	db *gorm.DB
}

func (r sqliteTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type fakeProductReader struct {
	product *models.Product
	err     error
}

func (f fakeProductReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return f.product, f.err
}

func newTestService(t *testing.T, items []cart.LineItem) (Service, *gorm.DB) {
	t.Helper()
	return newTestServiceWithProduct(t, items, nil)
}

func newTestServiceWithProduct(t *testing.T, items []cart.LineItem, product *models.Product) (Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.CheckoutHandoff{}, &models.OutboxEvent{}))

	svc, err := NewService(
		NewRepository(conn),
		fakeCartReader{items: items},
		fakeProductReader{product: product},
		sqliteTxRunner{db: conn},
		outbox.NewService(outbox.NewRepository(conn), nil),
		config.CheckoutConfig{WhatsAppNumber: "+212600000000"},
		nil,
	)
	require.NoError(t, err)
	return svc, conn
}

func TestCreateHandoffRecordsAndEmits(t *testing.T) {
	items := []cart.LineItem{
		{ID: "p1", Name: "Blue Abstract", Price: decimal.NewFromInt(100), Quantity: 2},
		{ID: "p2", Name: "Red Nature", Price: decimal.NewFromInt(300), Quantity: 1},
	}
	svc, conn := newTestService(t, items)

	dto, err := svc.CreateHandoff(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 3, dto.ItemCount)
	assert.Equal(t, "500.00", dto.Subtotal)
	assert.Contains(t, dto.Link, "https://wa.me/212600000000?text=")
	assert.Contains(t, dto.Message, "• 2x Blue Abstract - $200.00")

	var handoffs []models.CheckoutHandoff
	require.NoError(t, conn.Find(&handoffs).Error)
	require.Len(t, handoffs, 1)
	assert.Equal(t, "sess-1", handoffs[0].SessionID)

	var events []models.OutboxEvent
	require.NoError(t, conn.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventCheckoutHandoffCreated, events[0].EventType)
	assert.Equal(t, handoffs[0].ID, events[0].AggregateID)
}

func TestCreateHandoffRejectsEmptyCart(t *testing.T) {
	svc, conn := newTestService(t, nil)

	_, err := svc.CreateHandoff(context.Background(), "sess-1")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	var count int64
	require.NoError(t, conn.Model(&models.CheckoutHandoff{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductInquiryBuildsDeepLink(t *testing.T) {
	product := &models.Product{
		ID:    uuid.New(),
		Name:  "Bronze Wave",
		Price: decimal.RequireFromString("950.00"),
	}
	svc, _ := newTestServiceWithProduct(t, nil, product)

	dto, err := svc.ProductInquiry(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, dto.ProductID)
	assert.Contains(t, dto.Message, "Bronze Wave")
	assert.Contains(t, dto.Message, "$950.00")
	assert.Contains(t, dto.Link, "https://wa.me/212600000000?text=")
}

func TestProductInquiryUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.ProductInquiry(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetHandoffNotFound(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.GetHandoff(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
