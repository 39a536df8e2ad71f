package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietthreads/backoffice-backend/pkg/enums"
	"github.com/vietthreads/backoffice-backend/pkg/models"
)

type fakeOrderSource struct {
	orders []models.Order
}

func (f *fakeOrderSource) Snapshot(ctx context.Context) []models.Order {
	return f.orders
}

func (f *fakeOrderSource) CountByStatus(ctx context.Context) map[enums.OrderStatus]int {
	counts := make(map[enums.OrderStatus]int)
	for _, o := range f.orders {
		counts[o.Status]++
	}
	return counts
}

func TestSummarizeExcludesReturnsFromRevenue(t *testing.T) {
	day1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	source := &fakeOrderSource{orders: []models.Order{
		{ID: "ORD-001", Status: enums.OrderStatusDelivered, TotalAmount: decimal.NewFromInt(500000), CreatedAt: day1},
		{ID: "ORD-002", Status: enums.OrderStatusShipped, TotalAmount: decimal.NewFromInt(300000), CreatedAt: day1},
		{ID: "ORD-003", Status: enums.OrderStatusExchangeReturn, TotalAmount: decimal.NewFromInt(999000), CreatedAt: day2},
		{ID: "ORD-004", Status: enums.OrderStatusPending, TotalAmount: decimal.NewFromInt(200000), CreatedAt: day2},
	}}

	svc, err := NewService(source)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	summary, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.TotalOrders != 4 {
		t.Fatalf("expected 4 orders, got %d", summary.TotalOrders)
	}
	if !summary.Revenue.Equal(decimal.NewFromInt(1000000)) {
		t.Fatalf("returns must not count toward revenue, got %s", summary.Revenue)
	}
	if summary.ReturningCount != 1 {
		t.Fatalf("expected 1 return, got %d", summary.ReturningCount)
	}
	if summary.StatusCounts[enums.OrderStatusDelivered] != 1 {
		t.Fatalf("unexpected status counts %+v", summary.StatusCounts)
	}

	if len(summary.DailySales) != 2 {
		t.Fatalf("expected 2 daily buckets, got %d", len(summary.DailySales))
	}
	first := summary.DailySales[0]
	if first.Date != "2024-05-01" || first.Orders != 2 || !first.Revenue.Equal(decimal.NewFromInt(800000)) {
		t.Fatalf("unexpected first day %+v", first)
	}
	second := summary.DailySales[1]
	if second.Orders != 2 || !second.Revenue.Equal(decimal.NewFromInt(200000)) {
		t.Fatalf("return order must count volume but not revenue: %+v", second)
	}

	// (500000 + 300000 + 200000) / 3 billed orders
	if !summary.AverageOrder.Equal(decimal.NewFromInt(333333)) {
		t.Fatalf("unexpected average %s", summary.AverageOrder)
	}
}

func TestSummarizeEmptySnapshot(t *testing.T) {
	svc, err := NewService(&fakeOrderSource{})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	summary, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.TotalOrders != 0 || !summary.Revenue.Equal(decimal.Zero) || !summary.AverageOrder.Equal(decimal.Zero) {
		t.Fatalf("empty snapshot should produce zero summary: %+v", summary)
	}
}
