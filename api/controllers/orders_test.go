package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vietthreads/backoffice-backend/internal/inventory"
	"github.com/vietthreads/backoffice-backend/internal/invoices"
	ordersvc "github.com/vietthreads/backoffice-backend/internal/orders"
	"github.com/vietthreads/backoffice-backend/pkg/enums"
	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/models"
)

type orderFixture struct {
	router       http.Handler
	ordersRepo   ordersvc.Repository
	inventorySvc inventory.Service
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	created := time.Date(2024, 4, 12, 10, 0, 0, 0, time.UTC)
	inventoryRepo := inventory.NewRepository([]models.Product{{
		ID:           "PROD-0001",
		Name:         "Áo thun Cotton Premium",
		Stock:        50,
		MinStock:     20,
		SellingPrice: decimal.NewFromInt(350000),
		Status:       enums.StockStatusInStock,
	}})
	inventorySvc, err := inventory.NewService(inventoryRepo, nil, nil)
	if err != nil {
		t.Fatalf("inventory service: %v", err)
	}

	order := models.Order{
		ID:           "ORD-001",
		CustomerName: "Nguyễn Văn An",
		Phone:        "0912345678",
		Status:       enums.OrderStatusPending,
		StatusHistory: []models.StatusLog{
			{Status: enums.OrderStatusPending, UpdatedAt: created, UpdatedBy: "Hệ thống"},
		},
		CreatedAt: created,
		Items: []models.OrderItem{
			{ProductID: "PROD-0001", Name: "Áo thun Cotton Premium", Price: decimal.NewFromInt(350000), Quantity: 2},
		},
		Discount: decimal.Zero,
	}
	order.TotalAmount = order.Subtotal()
	ordersRepo := ordersvc.NewRepository([]models.Order{order})

	svc, err := ordersvc.NewService(ordersRepo, inventorySvc, nil, nil, nil)
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}
	invoiceSvc, err := invoices.NewService(ordersRepo, nil)
	if err != nil {
		t.Fatalf("invoices service: %v", err)
	}

	r := chi.NewRouter()
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Get("/", ListOrders(ordersRepo, nil))
		r.Get("/scan/{code}", ScanOrder(svc, nil))
		r.Get("/{orderId}", GetOrder(ordersRepo, nil))
		r.Get("/{orderId}/invoice", OrderInvoice(invoiceSvc, nil))
		r.Post("/{orderId}/status", SetOrderStatus(svc, nil))
	})

	return &orderFixture{router: r, ordersRepo: ordersRepo, inventorySvc: inventorySvc}
}

func TestSetOrderStatusEndpointDeductsStock(t *testing.T) {
	fx := newOrderFixture(t)

	body := bytes.NewBufferString(`{"status":"processing"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD-001/status", body)
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data models.Order `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != enums.OrderStatusProcessing {
		t.Fatalf("expected processing got %s", envelope.Data.Status)
	}

	product, err := fx.inventorySvc.GetProduct(req.Context(), "PROD-0001")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.Stock != 48 {
		t.Fatalf("expected stock 48 after deduction, got %d", product.Stock)
	}
	if len(product.Movements) != 1 || product.Movements[0].Type != enums.MovementTypeSale {
		t.Fatalf("expected one sale movement, got %+v", product.Movements)
	}
}

func TestSetOrderStatusEndpointUnknownOrder(t *testing.T) {
	fx := newOrderFixture(t)

	body := bytes.NewBufferString(`{"status":"shipped"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD-404/status", body)
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)

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
	if payload.Error.Code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %s", payload.Error.Code)
	}
}

func TestSetOrderStatusEndpointRejectsBadBody(t *testing.T) {
	fx := newOrderFixture(t)

	body := bytes.NewBufferString(`{"reason":"missing status"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD-001/status", body)
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestListOrdersEndpointFiltersByStatus(t *testing.T) {
	fx := newOrderFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=pending", nil)
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data ordersvc.Page `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Orders) != 1 || envelope.Data.Orders[0].ID != "ORD-001" {
		t.Fatalf("unexpected page %+v", envelope.Data)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=unheard_of", nil)
	rec = httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown status should 400, got %d", rec.Code)
	}
}

func TestScanOrderEndpoint(t *testing.T) {
	fx := newOrderFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/scan/ORD-001", nil)
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders/scan/ORD-999", nil)
	rec = httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown scan, got %d", rec.Code)
	}
}

func TestOrderInvoiceEndpoint(t *testing.T) {
	fx := newOrderFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD-001/invoice", nil)
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data invoices.Invoice `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Total.Equal(decimal.NewFromInt(700000)) {
		t.Fatalf("unexpected invoice total %s", envelope.Data.Total)
	}
	if len(envelope.Data.Lines) != 1 {
		t.Fatalf("expected one invoice line, got %d", len(envelope.Data.Lines))
	}
}
