package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kofiadjei/sleekline-backend/api/controllers"
	"github.com/kofiadjei/sleekline-backend/api/middleware"
	cartsvc "github.com/kofiadjei/sleekline-backend/internal/cart"
	catalogsvc "github.com/kofiadjei/sleekline-backend/internal/catalog"
	checkoutsvc "github.com/kofiadjei/sleekline-backend/internal/checkout"
	"github.com/kofiadjei/sleekline-backend/internal/notifications"
	"github.com/kofiadjei/sleekline-backend/internal/orders"
	"github.com/kofiadjei/sleekline-backend/internal/payments"
	"github.com/kofiadjei/sleekline-backend/internal/verification"
	"github.com/kofiadjei/sleekline-backend/pkg/config"
	"github.com/kofiadjei/sleekline-backend/pkg/db"
	"github.com/kofiadjei/sleekline-backend/pkg/logger"
	pkgredis "github.com/kofiadjei/sleekline-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	cartStore cartsvc.Store,
	catalogService catalogsvc.Service,
	checkoutService checkoutsvc.Service,
	payLaterService payments.PayLaterService,
	ordersRepo *orders.Repository,
	dispatcher notifications.Dispatcher,
	verifier verification.Verifier,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CartSession(logg))
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Get("/{productRef}", controllers.ProductDetail(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartStore, logg))
			r.Post("/items", controllers.CartAddItem(cartStore, logg))
			r.Delete("/items", controllers.CartRemoveItem(cartStore, logg))
			r.Patch("/items", controllers.CartSetQuantity(cartStore, logg))
			r.Post("/coupon", controllers.CartApplyCoupon(cartStore, logg))
			r.Delete("/coupon", controllers.CartRemoveCoupon(cartStore, logg))
		})

		r.Post("/checkout/shipping", controllers.CheckoutShipping(logg))
		r.Post("/checkout", controllers.CheckoutSubmit(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/{orderRef}", controllers.OrderDetail(ordersRepo, logg))
			// the pay-later page loads over GET and retries over POST
			r.Get("/{orderRef}/pay", controllers.OrderPay(payLaterService, logg))
			r.Post("/{orderRef}/pay", controllers.OrderPay(payLaterService, logg))
		})

		r.Post("/contact", controllers.Contact(verifier, dispatcher, logg))
	})

	return r
}
