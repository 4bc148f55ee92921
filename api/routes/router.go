package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dhruvmehta-dev/storefront-backend/api/controllers"
	"github.com/dhruvmehta-dev/storefront-backend/api/middleware"
	addresssvc "github.com/dhruvmehta-dev/storefront-backend/internal/address"
	cartsvc "github.com/dhruvmehta-dev/storefront-backend/internal/cart"
	orderssvc "github.com/dhruvmehta-dev/storefront-backend/internal/orders"
	paymentssvc "github.com/dhruvmehta-dev/storefront-backend/internal/payments"
	productssvc "github.com/dhruvmehta-dev/storefront-backend/internal/products"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/config"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/db"
	"github.com/dhruvmehta-dev/storefront-backend/pkg/logger"
	pkgredis "github.com/dhruvmehta-dev/storefront-backend/pkg/redis"
)

// Deps carries everything the router composes into the HTTP surface.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *pkgredis.Client
	Sessions middleware.SessionStore
	Metrics  prometheus.Gatherer

	Products  productssvc.Service
	Cart      cartsvc.Service
	Addresses addresssvc.Service
	Orders    orderssvc.Service
	Payments  paymentssvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	var idemStore pkgredis.IdempotencyStore
	var limiterStore middleware.RateLimiterStore
	var cachePinger controllers.Pinger
	if deps.Redis != nil {
		idemStore = deps.Redis
		limiterStore = deps.Redis
		cachePinger = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, cachePinger))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.Session(deps.Sessions, cfg.Session, logg),
		)

		r.Get("/products", controllers.ProductsList(deps.Products, logg))
		r.Get("/products/{productID}", controllers.ProductsGet(deps.Products, logg))
		r.Get("/categories", controllers.CategoriesList(deps.Products, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Idempotency(idemStore, logg))
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Post("/", controllers.CartAddItem(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Put("/{itemID}", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/{itemID}", controllers.CartRemoveItem(deps.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(
				middleware.CheckoutRateLimit(cfg.RateLimit, limiterStore, logg),
				middleware.Idempotency(idemStore, logg),
			)
			r.Post("/", controllers.OrdersCreate(deps.Orders, logg))
			r.Post("/create-pending", controllers.OrdersCreatePending(deps.Orders, logg))
			r.Post("/verify-payment", controllers.PaymentsVerify(deps.Payments, logg))
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Get("/user/{userID}", controllers.OrdersListByUser(deps.Orders, logg))
			r.Get("/{orderID}", controllers.OrdersGet(deps.Orders, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Use(middleware.RequireUser(logg))
			r.Get("/", controllers.AddressesList(deps.Addresses, logg))
			r.Post("/", controllers.AddressesCreate(deps.Addresses, logg))
			r.Delete("/{addressID}", controllers.AddressesDelete(deps.Addresses, logg))
		})
	})

	return r
}
