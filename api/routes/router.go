package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietthreads/backoffice-backend/api/controllers"
	"github.com/vietthreads/backoffice-backend/api/middleware"
	"github.com/vietthreads/backoffice-backend/internal/analytics"
	"github.com/vietthreads/backoffice-backend/internal/customers"
	"github.com/vietthreads/backoffice-backend/internal/insights"
	"github.com/vietthreads/backoffice-backend/internal/inventory"
	"github.com/vietthreads/backoffice-backend/internal/invoices"
	"github.com/vietthreads/backoffice-backend/internal/orders"
	"github.com/vietthreads/backoffice-backend/pkg/config"
	"github.com/vietthreads/backoffice-backend/pkg/logger"
	"github.com/vietthreads/backoffice-backend/pkg/metrics"
	pkgredis "github.com/vietthreads/backoffice-backend/pkg/redis"
)

type Dependencies struct {
	Config       *config.Config
	Logger       *logger.Logger
	RedisPinger  pkgredis.Pinger
	Idempotency  pkgredis.IdempotencyStore
	RateLimiter  middleware.RateLimiter
	Metrics      *metrics.ServiceMetrics
	Registry     *prometheus.Registry
	OrdersRepo   orders.Repository
	OrdersSvc    orders.Service
	InventorySvc inventory.Service
	CustomersSvc customers.Service
	InvoicesSvc  invoices.Service
	InsightsSvc  insights.Service
	AnalyticsSvc analytics.Service
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	var idempotencyTTL time.Duration
	insightsCfg := config.InsightsConfig{}
	if deps.Config != nil {
		idempotencyTTL = deps.Config.Idempotency.TTL
		insightsCfg = deps.Config.Insights
	}

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
		middleware.Idempotency(deps.Idempotency, idempotencyTTL, deps.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.RedisPinger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.OrdersRepo, deps.Logger))
			r.Get("/scan/{code}", controllers.ScanOrder(deps.OrdersSvc, deps.Logger))
			r.Get("/{orderId}", controllers.GetOrder(deps.OrdersRepo, deps.Logger))
			r.Get("/{orderId}/invoice", controllers.OrderInvoice(deps.InvoicesSvc, deps.Logger))
			r.Post("/{orderId}/status", controllers.SetOrderStatus(deps.OrdersSvc, deps.Logger))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/products", controllers.ListProducts(deps.InventorySvc, deps.Logger))
			r.Get("/products/{productId}", controllers.GetProduct(deps.InventorySvc, deps.Logger))
			r.Get("/movements", controllers.ListMovements(deps.InventorySvc, deps.Logger))
			r.Post("/movements", controllers.CreateMovement(deps.InventorySvc, deps.Logger))
			r.Post("/imports", controllers.ImportBatch(deps.InventorySvc, deps.Logger))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(deps.CustomersSvc, deps.Logger))
			r.Get("/{customerId}", controllers.GetCustomer(deps.CustomersSvc, deps.Logger))
		})

		r.With(middleware.RateLimit("insights:orders", insightsCfg.RateLimit, insightsCfg.RateLimitWindow, deps.RateLimiter, deps.Logger)).
			Post("/insights/orders", controllers.AnalyzeOrders(deps.InsightsSvc, deps.Logger))
		r.Get("/analytics/summary", controllers.AnalyticsSummary(deps.AnalyticsSvc, deps.Logger))
	})

	return r
}
