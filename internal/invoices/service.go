package invoices

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/logger"
	"github.com/vietthreads/backoffice-backend/pkg/models"
)

// OrderFinder is the slice of the order book the invoice builder needs.
type OrderFinder interface {
	Find(ctx context.Context, id string) (models.Order, error)
}

// Line is one printable invoice row.
type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// Invoice is a self-contained snapshot built entirely from the order's
// frozen item prices, never from the live catalog.
type Invoice struct {
	OrderID      string          `json:"order_id"`
	IssuedAt     time.Time       `json:"issued_at"`
	CustomerName string          `json:"customer_name"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Lines        []Line          `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountCode string          `json:"discount_code,omitempty"`
	Total        decimal.Decimal `json:"total"`
}

// Service builds invoice snapshots.
type Service interface {
	BuildInvoice(ctx context.Context, orderID string) (Invoice, error)
}

type service struct {
	orders OrderFinder
	logg   *logger.Logger

	now func() time.Time
}

func NewService(orders OrderFinder, logg *logger.Logger) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order finder required")
	}
	return &service{orders: orders, logg: logg, now: time.Now}, nil
}

// BuildInvoice derives lines and totals from the order's item snapshots.
// A mismatch between the derived total and the stored totalAmount means the
// order record is internally inconsistent; it is logged, and the stored
// amount wins so the printed invoice matches what the customer was charged.
func (s *service) BuildInvoice(ctx context.Context, orderID string) (Invoice, error) {
	if strings.TrimSpace(orderID) == "" {
		return Invoice{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.orders.Find(ctx, orderID)
	if err != nil {
		return Invoice{}, err
	}

	lines := make([]Line, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, Line{
			ProductID: item.ProductID,
			Name:      item.Name,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Amount:    item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	subtotal := order.Subtotal()
	total := subtotal.Sub(order.Discount)
	if !total.Equal(order.TotalAmount) {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithOrderID(ctx, order.ID), "derived invoice total differs from stored amount")
		}
		total = order.TotalAmount
	}

	return Invoice{
		OrderID:      order.ID,
		IssuedAt:     s.now().UTC(),
		CustomerName: order.CustomerName,
		Phone:        order.Phone,
		Address:      order.Address,
		Lines:        lines,
		Subtotal:     subtotal,
		Discount:     order.Discount,
		DiscountCode: order.DiscountCode,
		Total:        total,
	}, nil
}
