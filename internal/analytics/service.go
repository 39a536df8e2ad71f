package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vietthreads/backoffice-backend/pkg/enums"
	"github.com/vietthreads/backoffice-backend/pkg/models"
)

// OrderSource is the read-only slice of the order book the dashboard needs.
type OrderSource interface {
	Snapshot(ctx context.Context) []models.Order
	CountByStatus(ctx context.Context) map[enums.OrderStatus]int
}

// DailySales aggregates one calendar day of orders.
type DailySales struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Summary is the dashboard payload. Everything here is derived on read;
// nothing is stored.
type Summary struct {
	TotalOrders    int                       `json:"total_orders"`
	Revenue        decimal.Decimal           `json:"revenue"`
	StatusCounts   map[enums.OrderStatus]int `json:"status_counts"`
	DailySales     []DailySales              `json:"daily_sales"`
	AverageOrder   decimal.Decimal           `json:"average_order"`
	ReturningCount int                       `json:"returning_count"`
}

// Service computes dashboard aggregates.
type Service interface {
	Summarize(ctx context.Context) (Summary, error)
}

type service struct {
	orders OrderSource
}

func NewService(orders OrderSource) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order source required")
	}
	return &service{orders: orders}, nil
}

// Summarize folds the current order snapshot into dashboard aggregates.
// Exchange/return orders count toward volume but are excluded from revenue.
func (s *service) Summarize(ctx context.Context) (Summary, error) {
	orders := s.orders.Snapshot(ctx)

	revenue := decimal.Zero
	billed := 0
	daily := make(map[string]*DailySales)
	for _, o := range orders {
		day := o.CreatedAt.UTC().Format("2006-01-02")
		bucket, ok := daily[day]
		if !ok {
			bucket = &DailySales{Date: day, Revenue: decimal.Zero}
			daily[day] = bucket
		}
		bucket.Orders++

		if o.Status == enums.OrderStatusExchangeReturn {
			continue
		}
		revenue = revenue.Add(o.TotalAmount)
		bucket.Revenue = bucket.Revenue.Add(o.TotalAmount)
		billed++
	}

	days := make([]DailySales, 0, len(daily))
	for _, bucket := range daily {
		days = append(days, *bucket)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	average := decimal.Zero
	if billed > 0 {
		average = revenue.DivRound(decimal.NewFromInt(int64(billed)), 0)
	}

	counts := s.orders.CountByStatus(ctx)
	return Summary{
		TotalOrders:    len(orders),
		Revenue:        revenue,
		StatusCounts:   counts,
		DailySales:     days,
		AverageOrder:   average,
		ReturningCount: counts[enums.OrderStatusExchangeReturn],
	}, nil
}
