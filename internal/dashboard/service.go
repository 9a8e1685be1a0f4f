package dashboard

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kibidoart/kibido-backend/pkg/config"
	pkgerrors "github.com/kibidoart/kibido-backend/pkg/errors"
	"github.com/kibidoart/kibido-backend/pkg/logger"
)

const statsCacheKey = "dashboard:stats"

// Stats is the aggregate snapshot rendered on the admin landing page.
type Stats struct {
	ProductCount   int64           `json:"product_count"`
	CategoryCount  int64           `json:"category_count"`
	FeaturedCount  int64           `json:"featured_count"`
	StockSum       int64           `json:"stock_sum"`
	HandoffCount   int64           `json:"handoff_count"`
	TopCategories  []TopCategory   `json:"top_categories"`
	RecentHandoffs []RecentHandoff `json:"recent_handoffs"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// Service serves cached dashboard statistics.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
	Invalidate()
}

type statsRepository interface {
	CountProducts(ctx context.Context) (int64, error)
	CountCategories(ctx context.Context) (int64, error)
	CountFeatured(ctx context.Context) (int64, error)
	CountHandoffs(ctx context.Context) (int64, error)
	SumStock(ctx context.Context) (int64, error)
	TopCategories(ctx context.Context, limit int) ([]TopCategory, error)
	RecentHandoffs(ctx context.Context, limit int) ([]RecentHandoff, error)
}

type service struct {
	repo  statsRepository
	cfg   config.DashboardConfig
	cache *gocache.Cache
	logg  *logger.Logger
}

// NewService constructs a dashboard service with an in-process stats cache.
func NewService(repo statsRepository, cfg config.DashboardConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	return &service{
		repo:  repo,
		cfg:   cfg,
		cache: gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logg:  logg,
	}, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	if cached, ok := s.cache.Get(statsCacheKey); ok {
		if stats, ok := cached.(*Stats); ok {
			return stats, nil
		}
	}

	stats, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(statsCacheKey, stats)
	return stats, nil
}

// Invalidate drops the cached snapshot so the next read hits the database.
func (s *service) Invalidate() {
	s.cache.Delete(statsCacheKey)
}

func (s *service) collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{GeneratedAt: time.Now().UTC()}

	var err error
	if stats.ProductCount, err = s.repo.CountProducts(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if stats.CategoryCount, err = s.repo.CountCategories(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count categories")
	}
	if stats.FeaturedCount, err = s.repo.CountFeatured(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count featured")
	}
	if stats.StockSum, err = s.repo.SumStock(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum stock")
	}
	if stats.HandoffCount, err = s.repo.CountHandoffs(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count handoffs")
	}
	if stats.TopCategories, err = s.repo.TopCategories(ctx, s.cfg.TopCategories); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top categories")
	}
	if stats.RecentHandoffs, err = s.repo.RecentHandoffs(ctx, s.cfg.RecentHandoffs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recent handoffs")
	}

	s.logg.Debug(ctx, "dashboard stats refreshed")
	return stats, nil
}
