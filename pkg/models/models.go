package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietthreads/backoffice-backend/pkg/enums"
)

// Product is a catalog entry plus its live stock level and movement ledger.
// Mutations happen only through the inventory ledger engine.
type Product struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	SKU          string            `json:"sku"`
	Category     string            `json:"category"`
	Image        string            `json:"image"`
	Stock        int               `json:"stock"`
	MinStock     int               `json:"min_stock"`
	CostPrice    decimal.Decimal   `json:"cost_price"`
	SellingPrice decimal.Decimal   `json:"selling_price"`
	Status       enums.StockStatus `json:"status"`
	LastUpdated  time.Time         `json:"last_updated"`
	Movements    []StockMovement   `json:"movements"`
}

// Clone deep-copies the product so callers never alias store-owned state.
func (p Product) Clone() Product {
	out := p
	out.Movements = make([]StockMovement, len(p.Movements))
	copy(out.Movements, p.Movements)
	return out
}

// StockMovement is one immutable row of a product's ledger. After equals
// Before plus Quantity, and equals the product's stock at append time.
type StockMovement struct {
	ID        string             `json:"id"`
	ProductID string             `json:"product_id"`
	Type      enums.MovementType `json:"type"`
	Quantity  int                `json:"quantity"`
	Before    int                `json:"before"`
	After     int                `json:"after"`
	Note      string             `json:"note"`
	CreatedAt time.Time          `json:"created_at"`
	User      string             `json:"user"`
}

// OrderItem is a price/quantity snapshot taken at order creation, decoupled
// from live catalog pricing.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
}

// StatusLog is one immutable entry of an order's status history.
type StatusLog struct {
	Status    enums.OrderStatus `json:"status"`
	UpdatedAt time.Time         `json:"updated_at"`
	UpdatedBy string            `json:"updated_by"`
	Note      string            `json:"note,omitempty"`
}

type Order struct {
	ID            string            `json:"id"`
	CustomerName  string            `json:"customer_name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Address       string            `json:"address"`
	Status        enums.OrderStatus `json:"status"`
	StatusHistory []StatusLog       `json:"status_history"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	Discount      decimal.Decimal   `json:"discount"`
	DiscountCode  string            `json:"discount_code,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderItem       `json:"items"`
	Note          string            `json:"note,omitempty"`
	ReturnReason  string            `json:"return_reason,omitempty"`
}

// Clone deep-copies the order so callers never alias store-owned state.
func (o Order) Clone() Order {
	out := o
	out.StatusHistory = make([]StatusLog, len(o.StatusHistory))
	copy(out.StatusHistory, o.StatusHistory)
	out.Items = make([]OrderItem, len(o.Items))
	copy(out.Items, o.Items)
	return out
}

// Subtotal sums price times quantity over the item snapshots.
func (o Order) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// PurchasedProduct summarizes a customer's history with one product.
type PurchasedProduct struct {
	ProductID     string    `json:"product_id"`
	Name          string    `json:"name"`
	Image         string    `json:"image"`
	TotalQuantity int       `json:"total_quantity"`
	LastPurchased time.Time `json:"last_purchased"`
}

type Customer struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Email             string             `json:"email"`
	Phone             string             `json:"phone"`
	Address           string             `json:"address"`
	DOB               string             `json:"dob"`
	TotalSpent        decimal.Decimal    `json:"total_spent"`
	OrderCount        int                `json:"order_count"`
	MembershipLevel   string             `json:"membership_level"`
	PurchasedProducts []PurchasedProduct `json:"purchased_products"`
	OrderIDs          []string           `json:"order_ids"`
	Avatar            string             `json:"avatar"`
}

// Clone deep-copies the customer record.
func (c Customer) Clone() Customer {
	out := c
	out.PurchasedProducts = make([]PurchasedProduct, len(c.PurchasedProducts))
	copy(out.PurchasedProducts, c.PurchasedProducts)
	out.OrderIDs = make([]string, len(c.OrderIDs))
	copy(out.OrderIDs, c.OrderIDs)
	return out
}
