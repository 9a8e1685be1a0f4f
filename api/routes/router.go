package routes

import (
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/go-chi/chi/v5"

	"github.com/kibidoart/kibido-backend/api/controllers"
	"github.com/kibidoart/kibido-backend/api/middleware"
	"github.com/kibidoart/kibido-backend/internal/auth"
	"github.com/kibidoart/kibido-backend/internal/cart"
	category "github.com/kibidoart/kibido-backend/internal/categories"
	checkoutsvc "github.com/kibidoart/kibido-backend/internal/checkout"
	"github.com/kibidoart/kibido-backend/internal/dashboard"
	"github.com/kibidoart/kibido-backend/internal/media"
	product "github.com/kibidoart/kibido-backend/internal/products"
	"github.com/kibidoart/kibido-backend/pkg/config"
	"github.com/kibidoart/kibido-backend/pkg/db/models"
	"github.com/kibidoart/kibido-backend/pkg/logger"
	"github.com/kibidoart/kibido-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth       auth.Service
	Products   product.Service
	Categories category.Service
	Carts      *cart.Manager
	Checkout   checkoutsvc.Service
	Media      media.Service
	Dashboard  dashboard.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	readiness := map[string]controllers.Pinger{"database": dbPinger}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog, gzip-compressed.
		r.Group(func(r chi.Router) {
			r.Use(gziphandler.GzipHandler)
			r.Get("/products", controllers.ListProducts(svcs.Products, logg))
			r.Get("/products/browse", controllers.BrowseProducts(svcs.Products, logg))
			r.Get("/products/{idOrSlug}", controllers.GetProduct(svcs.Products, logg))
			r.Get("/categories", controllers.ListCategories(svcs.Categories, logg))
			r.Get("/categories/{categoryId}", controllers.GetCategory(svcs.Categories, logg))
		})

		// Session cart and checkout hand-off.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logg))
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(svcs.Carts, logg))
				r.Delete("/", controllers.ClearCart(svcs.Carts, logg))
				r.Post("/items", controllers.AddCartItem(svcs.Carts, logg))
				r.Patch("/items/{productId}", controllers.UpdateCartItem(svcs.Carts, logg))
				r.Delete("/items/{productId}", controllers.RemoveCartItem(svcs.Carts, logg))
			})
			r.Post("/checkout/whatsapp", controllers.CreateCheckoutHandoff(svcs.Checkout, logg))
			r.Post("/checkout/whatsapp/product", controllers.CreateProductInquiry(svcs.Checkout, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(cfg.AuthRateLimit, limiterFor(redisClient), logg)).
				Post("/login", controllers.Login(svcs.Auth, logg))
		})

		// Admin panel, JWT-gated.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(logg, models.RoleAdmin, models.RoleEditor))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListProducts(svcs.Products, logg))
				r.Post("/", controllers.AdminCreateProduct(svcs.Products, logg))
				r.Get("/{productId}", controllers.AdminGetProduct(svcs.Products, logg))
				r.Patch("/{productId}", controllers.AdminUpdateProduct(svcs.Products, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(svcs.Products, logg))
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateCategory(svcs.Categories, logg))
				r.Get("/{categoryId}", controllers.AdminGetCategory(svcs.Categories, logg))
				r.Patch("/{categoryId}", controllers.AdminUpdateCategory(svcs.Categories, logg))
				r.Delete("/{categoryId}", controllers.AdminDeleteCategory(svcs.Categories, logg))
			})

			r.Post("/media", controllers.AdminUploadMedia(svcs.Media, int64(cfg.Media.MaxUploadMB)*1024*1024, logg))
			r.Delete("/media", controllers.AdminDeleteMedia(svcs.Media, logg))

			r.Get("/checkout-handoffs/{handoffId}", controllers.AdminGetCheckoutHandoff(svcs.Checkout, logg))
			r.Get("/dashboard", controllers.AdminDashboard(svcs.Dashboard, logg))
		})
	})

	return r
}

// limiterFor avoids handing the middleware a typed-nil interface when redis
// is not wired (tests, local tooling).
func limiterFor(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return client
}
