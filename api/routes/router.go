package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-client/api/controllers"
	"github.com/angelmondragon/storefront-client/api/middleware"
	"github.com/angelmondragon/storefront-client/pkg/config"
	"github.com/angelmondragon/storefront-client/pkg/db"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/metrics"
)

// NewRouter mounts the sandbox collaborator services under /api/v1.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	gatherer prometheus.Gatherer,
	opMetrics *metrics.OperationMetrics,
	userService controllers.UserService,
	catalogService controllers.CatalogService,
	cartService controllers.CartService,
	orderService controllers.OrderService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(opMetrics),
		middleware.CORS(cfg.Sandbox.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(logg, dbP))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", controllers.UsersCreate(userService, logg))
		r.Post("/login", controllers.UsersLogin(userService, logg))

		r.Get("/products", controllers.ProductsList(catalogService, logg))
		r.Get("/products/{id}", controllers.ProductsGet(catalogService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/user/{userId}", controllers.CartByUser(cartService, logg))
			r.Post("/", controllers.CartAdd(cartService, logg))
			r.Put("/{id}/items", controllers.CartReplaceItems(cartService, logg))
		})

		r.With(middleware.Auth(cfg.Sandbox.JWT, logg)).Post("/orders/checkout", controllers.OrdersCheckout(orderService, logg))
	})

	return r
}
