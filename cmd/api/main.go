package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vietthreads/backoffice-backend/api/routes"
	"github.com/vietthreads/backoffice-backend/internal/analytics"
	"github.com/vietthreads/backoffice-backend/internal/customers"
	"github.com/vietthreads/backoffice-backend/internal/insights"
	"github.com/vietthreads/backoffice-backend/internal/inventory"
	"github.com/vietthreads/backoffice-backend/internal/invoices"
	"github.com/vietthreads/backoffice-backend/internal/orders"
	"github.com/vietthreads/backoffice-backend/internal/seed"
	"github.com/vietthreads/backoffice-backend/pkg/config"
	"github.com/vietthreads/backoffice-backend/pkg/logger"
	"github.com/vietthreads/backoffice-backend/pkg/metrics"
	"github.com/vietthreads/backoffice-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "backoffice"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "backoffice",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

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

	registry := prometheus.NewRegistry()
	serviceMetrics := metrics.NewServiceMetrics(registry)

	data := seed.Generate(cfg.Seed)
	inventoryRepo := inventory.NewRepository(data.Products)
	ordersRepo := orders.NewRepository(data.Orders)
	customersRepo := customers.NewRepository(data.Customers)

	inventorySvc, err := inventory.NewService(inventoryRepo, logg, serviceMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(ordersRepo, inventorySvc, orders.PermitAllTransitions(), logg, serviceMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	customersSvc, err := customers.NewService(customersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	invoicesSvc, err := invoices.NewService(ordersRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoices service", err)
		os.Exit(1)
	}

	analyticsSvc, err := analytics.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	insightsSvc, err := insights.NewService(cfg.Insights, ordersRepo, redisClient, logg, serviceMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create insights service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"orders": len(data.Orders),
	})
	logg.Info(ctx, "starting backoffice server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:       cfg,
			Logger:       logg,
			RedisPinger:  redisClient,
			Idempotency:  redisClient,
			RateLimiter:  redisClient,
			Metrics:      serviceMetrics,
			Registry:     registry,
			OrdersRepo:   ordersRepo,
			OrdersSvc:    ordersSvc,
			InventorySvc: inventorySvc,
			CustomersSvc: customersSvc,
			InvoicesSvc:  invoicesSvc,
			InsightsSvc:  insightsSvc,
			AnalyticsSvc: analyticsSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "backoffice server stopped unexpectedly", err)
		os.Exit(1)
	}
}
