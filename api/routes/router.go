package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/threadline-app/threadline-backend/api/controllers"
	"github.com/threadline-app/threadline-backend/api/middleware"
	"github.com/threadline-app/threadline-backend/internal/catalog"
	"github.com/threadline-app/threadline-backend/internal/shopper"
	"github.com/threadline-app/threadline-backend/pkg/config"
	"github.com/threadline-app/threadline-backend/pkg/logger"
)

// RouterParams groups the collaborators the HTTP surface needs. DBPinger and
// StatePinger may be nil when the backing store has no health probe.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	Manager     *shopper.Manager
	Catalog     catalog.Service
	Registry    *prometheus.Registry
	DBPinger    controllers.Pinger
	StatePinger controllers.Pinger
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DBPinger, params.StatePinger))
	})

	if params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(params.Catalog, logg))
		r.Get("/{productId}", controllers.ProductsGet(params.Catalog, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Shopper(logg))

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(params.Manager, logg))
			r.Delete("/", controllers.CartClear(params.Manager, logg))
			r.Post("/items", controllers.CartAddItem(params.Manager, params.Catalog, logg))
			r.Delete("/items/{key}", controllers.CartRemoveItem(params.Manager, logg))
			r.Post("/items/{key}/increment", controllers.CartIncrementItem(params.Manager, logg))
			r.Post("/items/{key}/decrement", controllers.CartDecrementItem(params.Manager, logg))
		})

		r.Route("/api/v1/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutGet(params.Manager, logg))
			r.Delete("/", controllers.CheckoutClear(params.Manager, logg))
			r.Put("/address", controllers.CheckoutSetAddress(params.Manager, logg))
			r.Put("/payment", controllers.CheckoutSetPayment(params.Manager, logg))
			r.Put("/voucher", controllers.CheckoutSetVoucher(params.Manager, logg))
			r.Post("/place-order", controllers.CheckoutPlaceOrder(params.Manager, logg))
		})

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(params.Manager, logg))
			r.Get("/{orderId}", controllers.OrdersGet(params.Manager, logg))
			r.Patch("/{orderId}/status", controllers.OrdersUpdateStatus(params.Manager, logg))
		})

		r.Route("/api/v1/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistGet(params.Manager, logg))
			r.Post("/", controllers.WishlistAdd(params.Manager, params.Catalog, logg))
			r.Post("/toggle", controllers.WishlistToggle(params.Manager, params.Catalog, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(params.Manager, logg))
		})
	})

	return r
}
