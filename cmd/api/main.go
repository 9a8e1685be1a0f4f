package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/kibidoart/kibido-backend/api/routes"
	"github.com/kibidoart/kibido-backend/internal/auth"
	"github.com/kibidoart/kibido-backend/internal/cart"
	category "github.com/kibidoart/kibido-backend/internal/categories"
	"github.com/kibidoart/kibido-backend/internal/checkout"
	"github.com/kibidoart/kibido-backend/internal/dashboard"
	"github.com/kibidoart/kibido-backend/internal/media"
	product "github.com/kibidoart/kibido-backend/internal/products"
	"github.com/kibidoart/kibido-backend/pkg/config"
	"github.com/kibidoart/kibido-backend/pkg/db"
	"github.com/kibidoart/kibido-backend/pkg/logger"
	"github.com/kibidoart/kibido-backend/pkg/migrate"
	"github.com/kibidoart/kibido-backend/pkg/outbox"
	"github.com/kibidoart/kibido-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	svcs, err := buildServices(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (routes.Services, error) {
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       auth.NewRepository(dbClient.DB()),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return routes.Services{}, err
	}

	productRepo := product.NewRepository(dbClient.DB())
	categoryRepo := category.NewRepository(dbClient.DB())

	productService, err := product.NewService(productRepo, categoryRepo, cfg.Catalog, logg)
	if err != nil {
		return routes.Services{}, err
	}

	categoryService, err := category.NewService(categoryRepo, productRepo)
	if err != nil {
		return routes.Services{}, err
	}

	cartStorage, err := cart.NewRedisStorage(redisClient, cfg.Cart)
	if err != nil {
		return routes.Services{}, err
	}
	cartManager, err := cart.NewManager(cartStorage, logg)
	if err != nil {
		return routes.Services{}, err
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	checkoutService, err := checkout.NewService(
		checkout.NewRepository(dbClient.DB()),
		cartManager,
		productRepo,
		dbClient,
		outboxService,
		cfg.Checkout,
		logg,
	)
	if err != nil {
		return routes.Services{}, err
	}

	mediaStore, err := media.NewDiskStore(cfg.Media.UploadDir)
	if err != nil {
		return routes.Services{}, err
	}
	mediaService, err := media.NewService(mediaStore, cfg.Media, logg)
	if err != nil {
		return routes.Services{}, err
	}

	dashboardService, err := dashboard.NewService(dashboard.NewRepository(dbClient.DB()), cfg.Dashboard, logg)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:       authService,
		Products:   productService,
		Categories: categoryService,
		Carts:      cartManager,
		Checkout:   checkoutService,
		Media:      mediaService,
		Dashboard:  dashboardService,
	}, nil
}
