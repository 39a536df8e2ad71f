package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ServiceMetrics records request and domain counters for the back office.
type ServiceMetrics struct {
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	stockMovements    *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	insightFetches    *prometheus.CounterVec
}

// NewServiceMetrics registers the service metrics on the provided registerer.
func NewServiceMetrics(reg prometheus.Registerer) *ServiceMetrics {
	if reg == nil {
		return &ServiceMetrics{}
	}
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	stockMovements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_total",
		Help: "Stock movements appended to the ledger, by type.",
	}, []string{"type"})
	statusTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions applied, by target status.",
	}, []string{"status"})
	insightFetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_fetches_total",
		Help: "Order-insight fetch attempts, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(requestDuration, requestTotal, stockMovements, statusTransitions, insightFetches)
	return &ServiceMetrics{
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		stockMovements:    stockMovements,
		statusTransitions: statusTransitions,
		insightFetches:    insightFetches,
	}
}

// ObserveRequest records one finished HTTP request.
func (s *ServiceMetrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if s == nil || s.requestTotal == nil {
		return
	}
	s.requestDuration.WithLabelValues(method, normalizeLabel(route)).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Inc()
}

// IncMovement counts one appended stock movement.
func (s *ServiceMetrics) IncMovement(movementType string) {
	if s == nil || s.stockMovements == nil {
		return
	}
	s.stockMovements.WithLabelValues(normalizeLabel(movementType)).Inc()
}

// IncTransition counts one applied order status transition.
func (s *ServiceMetrics) IncTransition(status string) {
	if s == nil || s.statusTransitions == nil {
		return
	}
	s.statusTransitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncInsightFetch counts one insight fetch attempt by outcome.
func (s *ServiceMetrics) IncInsightFetch(outcome string) {
	if s == nil || s.insightFetches == nil {
		return
	}
	s.insightFetches.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
