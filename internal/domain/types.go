package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Role names granted to users. Stored alongside the user record and copied onto
// the per-request principal.
const (
	RoleClient = "ROLE_CLIENT"
	RoleAdmin  = "ROLE_ADMIN"
)

// Principal is the authenticated caller derived from a verified credential.
// It is ephemeral: built once per request and passed explicitly to every
// operation that makes a security decision.
type Principal struct {
	ID    string
	Name  string
	Email string
	Roles []string
}

// HasRole reports whether the principal carries the requested role (case-insensitive).
func (p Principal) HasRole(role string) bool {
	role = strings.TrimSpace(role)
	if role == "" {
		return false
	}
	for _, r := range p.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// User is the stored account record backing a principal.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	BirthDate    *time.Time
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Product is a catalog item. Orders only ever read its id and current price;
// the price is frozen into the order line at checkout time.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	ImgURL      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderStatus enumerates valid lifecycle states for orders.
type OrderStatus string

const (
	// OrderStatusAwaitingPayment is the initial state assigned at checkout.
	OrderStatusAwaitingPayment OrderStatus = "awaiting_payment"
	// OrderStatusPaid indicates payment has completed.
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusShipped indicates the order has left fulfillment.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered indicates the order reached the customer.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCanceled indicates the order was canceled.
	OrderStatusCanceled OrderStatus = "canceled"
)

// OrderClient summarises the order owner as exposed on read payloads.
type OrderClient struct {
	ID   string
	Name string
}

// OrderItem is one immutable line of an order. Identity is the composite
// (OrderID, ProductID). UnitPrice is a snapshot taken when the order was
// created and never re-read from the catalog.
type OrderItem struct {
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Subtotal returns quantity times the frozen unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the transactional aggregate produced by checkout. Its line items
// are owned exclusively by the order and persist or roll back with it.
type Order struct {
	ID        string
	CreatedAt time.Time
	Status    OrderStatus
	Client    OrderClient
	Items     []OrderItem
}

// Total is derived from the line items on every read; it is never stored, so
// it cannot drift from the item rows.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
