package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vietthreads/backoffice-backend/internal/analytics"
	"github.com/vietthreads/backoffice-backend/internal/customers"
	"github.com/vietthreads/backoffice-backend/internal/insights"
	"github.com/vietthreads/backoffice-backend/internal/inventory"
	"github.com/vietthreads/backoffice-backend/internal/invoices"
	"github.com/vietthreads/backoffice-backend/internal/orders"
	"github.com/vietthreads/backoffice-backend/internal/seed"
	"github.com/vietthreads/backoffice-backend/pkg/config"
	"github.com/vietthreads/backoffice-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubCooldown struct{}

func (stubCooldown) MarkCooldown(context.Context, string, time.Duration) error { return nil }
func (stubCooldown) InCooldown(context.Context, string) (bool, error)          { return false, nil }

type stubLimiter struct {
	limit int64
	count int64
}

func (s *stubLimiter) FixedWindowAllow(_ context.Context, _ string, limit int64, _ time.Duration) (bool, int64, error) {
	s.count++
	return s.count <= s.limit, s.count, nil
}

func newTestRouter(t *testing.T, mutate func(*Dependencies)) http.Handler {
	t.Helper()

	cfg := &config.Config{
		App:  config.AppConfig{Env: "dev", Port: "8080"},
		Seed: config.SeedConfig{RNGSeed: 42, OrderCount: 10},
	}
	data := seed.Generate(cfg.Seed)

	inventoryRepo := inventory.NewRepository(data.Products)
	ordersRepo := orders.NewRepository(data.Orders)
	customersRepo := customers.NewRepository(data.Customers)

	registry := prometheus.NewRegistry()
	serviceMetrics := metrics.NewServiceMetrics(registry)

	inventorySvc, err := inventory.NewService(inventoryRepo, nil, serviceMetrics)
	if err != nil {
		t.Fatalf("inventory service: %v", err)
	}
	ordersSvc, err := orders.NewService(ordersRepo, inventorySvc, nil, nil, serviceMetrics)
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}
	customersSvc, err := customers.NewService(customersRepo)
	if err != nil {
		t.Fatalf("customers service: %v", err)
	}
	invoicesSvc, err := invoices.NewService(ordersRepo, nil)
	if err != nil {
		t.Fatalf("invoices service: %v", err)
	}
	analyticsSvc, err := analytics.NewService(ordersRepo)
	if err != nil {
		t.Fatalf("analytics service: %v", err)
	}
	insightsSvc, err := insights.NewService(config.InsightsConfig{
		Model:   "gemini-3-flash-preview",
		BaseURL: "http://localhost:0",
		Timeout: time.Second,
	}, ordersRepo, stubCooldown{}, nil, serviceMetrics)
	if err != nil {
		t.Fatalf("insights service: %v", err)
	}

	deps := Dependencies{
		Config:       cfg,
		RedisPinger:  stubPinger{},
		Metrics:      serviceMetrics,
		Registry:     registry,
		OrdersRepo:   ordersRepo,
		OrdersSvc:    ordersSvc,
		InventorySvc: inventorySvc,
		CustomersSvc: customersSvc,
		InvoicesSvc:  invoicesSvc,
		InsightsSvc:  insightsSvc,
		AnalyticsSvc: analyticsSvc,
	}
	if mutate != nil {
		mutate(&deps)
	}
	return NewRouter(deps)
}

func TestRouterServesCoreEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	paths := []string{
		"/health/live",
		"/health/ready",
		"/metrics",
		"/api/v1/orders",
		"/api/v1/orders/ORD-001",
		"/api/v1/orders/ORD-001/invoice",
		"/api/v1/inventory/products",
		"/api/v1/inventory/products/PROD-0001",
		"/api/v1/inventory/movements",
		"/api/v1/customers",
		"/api/v1/analytics/summary",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200 got %d: %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestRouterUnknownOrderIs404Envelope(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD-999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code == "" {
		t.Fatalf("expected typed error envelope, got %s", rec.Body.String())
	}
}

func TestRouterInsightsWithoutCredential(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/insights/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without api key, got %d", rec.Code)
	}
}

func TestRouterRateLimitsInsights(t *testing.T) {
	router := newTestRouter(t, func(deps *Dependencies) {
		deps.Config.Insights.RateLimit = 1
		deps.Config.Insights.RateLimitWindow = time.Minute
		deps.RateLimiter = &stubLimiter{limit: 1}
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/insights/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("first call should reach the service, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/insights/orders", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second call should be rate limited, got %d", rec.Code)
	}
}
