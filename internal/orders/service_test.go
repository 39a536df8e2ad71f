package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietthreads/backoffice-backend/internal/inventory"
	"github.com/vietthreads/backoffice-backend/pkg/enums"
	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/models"
)

type fakeDeductor struct {
	calls []inventory.ApplyMovementInput
	err   error
}

func (f *fakeDeductor) ApplyMovement(ctx context.Context, input inventory.ApplyMovementInput) (models.Product, error) {
	f.calls = append(f.calls, input)
	if f.err != nil {
		return models.Product{}, f.err
	}
	return models.Product{ID: input.ProductID}, nil
}

func seedOrder(id string, status enums.OrderStatus, items ...models.OrderItem) models.Order {
	created := time.Date(2024, 4, 12, 10, 0, 0, 0, time.UTC)
	return models.Order{
		ID:           id,
		CustomerName: "Nguyễn Văn An",
		Email:        "nguyen.van.an@example.com",
		Phone:        "0912345678",
		Address:      "12 Đường Lê Lợi, TP.HCM",
		Status:       status,
		StatusHistory: []models.StatusLog{
			{Status: enums.OrderStatusPending, UpdatedAt: created, UpdatedBy: "Hệ thống"},
		},
		TotalAmount: decimal.NewFromInt(700000),
		CreatedAt:   created,
		Items:       items,
	}
}

func newTestOrderService(t *testing.T, deductor *fakeDeductor, seed ...models.Order) Service {
	t.Helper()
	svc, err := NewService(NewRepository(seed), deductor, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestSetStatusProcessingDeductsOncePerLineItem(t *testing.T) {
	ctx := context.Background()
	deductor := &fakeDeductor{}
	svc := newTestOrderService(t, deductor,
		seedOrder("ORD-001", enums.OrderStatusPending,
			models.OrderItem{ProductID: "PROD-0001", Quantity: 2, Price: decimal.NewFromInt(350000)},
		),
	)

	order, err := svc.SetStatus(ctx, SetStatusInput{OrderID: "ORD-001", Status: enums.OrderStatusProcessing})
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if order.Status != enums.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", order.Status)
	}
	if len(order.StatusHistory) != 2 {
		t.Fatalf("history should grow by one, got %d entries", len(order.StatusHistory))
	}
	if last := order.StatusHistory[len(order.StatusHistory)-1]; last.Status != order.Status {
		t.Fatalf("last history entry %s should equal status %s", last.Status, order.Status)
	}

	if len(deductor.calls) != 1 {
		t.Fatalf("expected exactly one deduction, got %d", len(deductor.calls))
	}
	call := deductor.calls[0]
	if call.ProductID != "PROD-0001" || call.Quantity != -2 || call.Type != enums.MovementTypeSale {
		t.Fatalf("unexpected deduction %+v", call)
	}
	if call.Note != "export for order ORD-001" || call.User != "system" {
		t.Fatalf("unexpected movement metadata %+v", call)
	}
}

func TestSetStatusProcessingTwiceDoesNotRededuct(t *testing.T) {
	ctx := context.Background()
	deductor := &fakeDeductor{}
	svc := newTestOrderService(t, deductor,
		seedOrder("ORD-001", enums.OrderStatusPending,
			models.OrderItem{ProductID: "PROD-0001", Quantity: 2},
			models.OrderItem{ProductID: "PROD-0002", Quantity: 1},
		),
	)

	if _, err := svc.SetStatus(ctx, SetStatusInput{OrderID: "ORD-001", Status: enums.OrderStatusProcessing}); err != nil {
		t.Fatalf("first SetStatus failed: %v", err)
	}
	if len(deductor.calls) != 2 {
		t.Fatalf("expected one deduction per line item, got %d", len(deductor.calls))
	}

	order, err := svc.SetStatus(ctx, SetStatusInput{OrderID: "ORD-001", Status: enums.OrderStatusProcessing})
	if err != nil {
		t.Fatalf("second SetStatus failed: %v", err)
	}
	if len(deductor.calls) != 2 {
		t.Fatalf("re-entering processing must not re-deduct, got %d calls", len(deductor.calls))
	}
	if len(order.StatusHistory) != 3 {
		t.Fatalf("every successful call appends history, got %d", len(order.StatusHistory))
	}
}

func TestSetStatusExchangeReturnRecordsReason(t *testing.T) {
	ctx := context.Background()
	deductor := &fakeDeductor{}
	svc := newTestOrderService(t, deductor, seedOrder("ORD-002", enums.OrderStatusDelivered))

	order, err := svc.SetStatus(ctx, SetStatusInput{
		OrderID: "ORD-002",
		Status:  enums.OrderStatusExchangeReturn,
		Reason:  "khách đổi size",
	})
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if order.ReturnReason != "khách đổi size" {
		t.Fatalf("expected return reason recorded, got %q", order.ReturnReason)
	}
	last := order.StatusHistory[len(order.StatusHistory)-1]
	if last.Note != "khách đổi size" || last.UpdatedBy != "Admin" {
		t.Fatalf("unexpected history entry %+v", last)
	}
	if len(deductor.calls) != 0 {
		t.Fatalf("exchange/return must not touch stock")
	}
}

func TestSetStatusUnknownOrder(t *testing.T) {
	deductor := &fakeDeductor{}
	svc := newTestOrderService(t, deductor, seedOrder("ORD-001", enums.OrderStatusPending))

	_, err := svc.SetStatus(context.Background(), SetStatusInput{OrderID: "ORD-404", Status: enums.OrderStatusShipped})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(deductor.calls) != 0 {
		t.Fatalf("unknown order must not deduct stock")
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestOrderService(t, &fakeDeductor{}, seedOrder("ORD-001", enums.OrderStatusPending))

	_, err := svc.SetStatus(context.Background(), SetStatusInput{OrderID: "ORD-001", Status: enums.OrderStatus("cancelled")})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetStatusHistoryMatchesCurrentStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestOrderService(t, &fakeDeductor{}, seedOrder("ORD-003", enums.OrderStatusPending))

	sequence := []enums.OrderStatus{
		enums.OrderStatusProcessing,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
		enums.OrderStatusExchangeReturn,
	}
	expectedLen := 1
	for _, status := range sequence {
		order, err := svc.SetStatus(ctx, SetStatusInput{OrderID: "ORD-003", Status: status})
		if err != nil {
			t.Fatalf("SetStatus(%s) failed: %v", status, err)
		}
		expectedLen++
		if len(order.StatusHistory) != expectedLen {
			t.Fatalf("history length %d, want %d", len(order.StatusHistory), expectedLen)
		}
		if last := order.StatusHistory[len(order.StatusHistory)-1]; last.Status != order.Status {
			t.Fatalf("history tail %s must equal status %s", last.Status, order.Status)
		}
	}
}

func TestFindByScan(t *testing.T) {
	ctx := context.Background()
	svc := newTestOrderService(t, &fakeDeductor{}, seedOrder("ORD-010", enums.OrderStatusShipped))

	order, err := svc.FindByScan(ctx, " ORD-010 ")
	if err != nil {
		t.Fatalf("FindByScan failed: %v", err)
	}
	if order.ID != "ORD-010" {
		t.Fatalf("unexpected order %s", order.ID)
	}

	_, err = svc.FindByScan(ctx, "ORD-999")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown scan, got %v", err)
	}
}
