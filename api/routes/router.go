package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/shopfront-backend/api/controllers"
	"github.com/angelmondragon/shopfront-backend/api/middleware"
	"github.com/angelmondragon/shopfront-backend/internal/products"
	"github.com/angelmondragon/shopfront-backend/internal/reviews"
	"github.com/angelmondragon/shopfront-backend/internal/search"
	"github.com/angelmondragon/shopfront-backend/internal/shops"
	"github.com/angelmondragon/shopfront-backend/internal/subscriptions"
	"github.com/angelmondragon/shopfront-backend/pkg/config"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/metrics"
	"github.com/angelmondragon/shopfront-backend/pkg/redis"
)

// Dependencies bundles everything the HTTP surface needs. Nil services answer
// with an internal error rather than panicking.
type Dependencies struct {
	DB    controllers.Pinger
	Redis *redis.Client

	Shops         shops.Service
	Products      products.Service
	Reviews       reviews.Service
	Search        search.Service
	Subscriptions subscriptions.Service

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Metrics(deps.HTTPMetrics),
	)

	ready := map[string]controllers.Pinger{"db": deps.DB}
	if deps.Redis != nil {
		ready["redis"] = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, ready))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	reviewLimit := func(next http.Handler) http.Handler { return next }
	if deps.Redis != nil {
		policy := middleware.NewRateLimitPolicy("reviews", cfg.RateLimit.ReviewWindow, cfg.RateLimit.ReviewLimit)
		reviewLimit = middleware.RateLimit(policy, deps.Redis, logg)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", controllers.Search(deps.Search, logg))
		r.Get("/search/locations", controllers.SearchLocations(deps.Search, logg))

		r.Route("/shops/{name}", func(r chi.Router) {
			r.Get("/", controllers.ShopPublic(deps.Shops, logg))
			r.Get("/products", controllers.ShopProducts(deps.Products, logg))
			r.Get("/reviews", controllers.ReviewList(deps.Reviews, logg))
			r.With(reviewLimit).Post("/reviews", controllers.ReviewSubmit(deps.Reviews, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Auth, logg))

			r.Post("/shops", controllers.ShopCreate(deps.Shops, logg))
			r.Route("/me/shop", func(r chi.Router) {
				r.Get("/", controllers.MyShop(deps.Shops, logg))
				r.Patch("/", controllers.MyShopUpdate(deps.Shops, logg))

				r.Route("/products", func(r chi.Router) {
					r.Post("/", controllers.ProductCreate(deps.Products, logg))
					r.Patch("/{productId}", controllers.ProductUpdate(deps.Products, logg))
					r.Delete("/{productId}", controllers.ProductDelete(deps.Products, logg))
				})

				r.Route("/subscription", func(r chi.Router) {
					r.Get("/", controllers.SubscriptionStatus(deps.Subscriptions, logg))
					r.Post("/payments", controllers.SubscriptionPayment(deps.Subscriptions, logg))
					r.Post("/cancel", controllers.SubscriptionCancel(deps.Subscriptions, logg))
				})
			})
		})
	})

	return r
}
