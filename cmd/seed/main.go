package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	product "github.com/kibidoart/kibido-backend/internal/products"
	"github.com/kibidoart/kibido-backend/pkg/config"
	"github.com/kibidoart/kibido-backend/pkg/db"
	"github.com/kibidoart/kibido-backend/pkg/db/models"
	"github.com/kibidoart/kibido-backend/pkg/logger"
	"github.com/kibidoart/kibido-backend/pkg/migrate"
	"github.com/kibidoart/kibido-backend/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	adminEmail := flag.String("admin-email", "admin@kibido.art", "admin account email")
	adminPassword := flag.String("admin-password", "", "admin account password (required)")
	withSamples := flag.Bool("samples", true, "seed sample categories and artworks")
	flag.Parse()

	if *adminPassword == "" {
		fmt.Fprintln(os.Stderr, "missing -admin-password")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env})

	if err := seedAdmin(ctx, dbClient.DB(), cfg.Password, *adminEmail, *adminPassword); err != nil {
		logg.Error(ctx, "failed to seed admin user", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "email", *adminEmail), "admin user ready")

	if *withSamples {
		if err := seedCatalog(ctx, dbClient.DB()); err != nil {
			logg.Error(ctx, "failed to seed catalog", err)
			os.Exit(1)
		}
		logg.Info(ctx, "sample catalog ready")
	}
}

func seedAdmin(ctx context.Context, gdb *gorm.DB, cfg config.PasswordConfig, email, password string) error {
	var existing models.User
	err := gdb.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := security.HashPassword(password, cfg)
	if err != nil {
		return err
	}
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Gallery Admin",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	return gdb.WithContext(ctx).Create(&user).Error
}

func seedCatalog(ctx context.Context, gdb *gorm.DB) error {
	categories := []models.Category{
		{Name: "Paintings", Slug: "paintings"},
		{Name: "Prints", Slug: "prints"},
		{Name: "Sculptures", Slug: "sculptures"},
	}
	byID := map[string]*models.Category{}
	for i := range categories {
		c := &categories[i]
		if err := gdb.WithContext(ctx).
			Where("slug = ?", c.Slug).
			FirstOrCreate(c).Error; err != nil {
			return err
		}
		byID[c.Slug] = c
	}

	artist := func(name string) *string { return &name }
	samples := []models.Product{
		{
			Name:        "Sunset Over Harbor",
			Description: "Oil on canvas, warm evening light over a fishing harbor.",
			Price:       decimal.RequireFromString("480.00"),
			Images:      pq.StringArray{"/images/products/sunset-over-harbor.jpg"},
			Gallery:     pq.StringArray{},
			Stock:       1,
			Artist:      artist("M. Ferran"),
			Featured:    true,
			Latest:      true,
			CategoryID:  byID["paintings"].ID,
		},
		{
			Name:        "Blue Meridian",
			Description: "Limited giclee print, numbered series of 50.",
			Price:       decimal.RequireFromString("120.00"),
			Images:      pq.StringArray{"/images/products/blue-meridian.jpg"},
			Gallery:     pq.StringArray{},
			Stock:       12,
			Artist:      artist("A. Soler"),
			Latest:      true,
			CategoryID:  byID["prints"].ID,
		},
		{
			Name:        "Bronze Wave",
			Description: "Cast bronze sculpture with patina finish.",
			Price:       decimal.RequireFromString("950.00"),
			Images:      pq.StringArray{"/images/products/bronze-wave.jpg"},
			Gallery:     pq.StringArray{},
			Stock:       2,
			Artist:      artist("R. Duran"),
			Featured:    true,
			CategoryID:  byID["sculptures"].ID,
		},
	}
	for i := range samples {
		p := &samples[i]
		p.Slug = product.Slugify(p.Name)
		if err := gdb.WithContext(ctx).
			Where("slug = ?", p.Slug).
			FirstOrCreate(p).Error; err != nil {
			return err
		}
	}
	return nil
}
