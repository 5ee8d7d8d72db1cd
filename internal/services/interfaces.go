package services

import (
	"context"

	domain "github.com/devmarrima/dscommerce-api/internal/domain"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Principal   = domain.Principal
	User        = domain.User
	Product     = domain.Product
	Order       = domain.Order
	OrderItem   = domain.OrderItem
	OrderStatus = domain.OrderStatus
)

// AuthService makes access-control decisions for resources owned by a principal.
type AuthService interface {
	ValidateSelfOrAdmin(principal Principal, ownerID string) error
}

// UserService resolves verified credentials to stored accounts.
type UserService interface {
	Authenticated(ctx context.Context) (Principal, error)
	GetMe(ctx context.Context, principal Principal) (User, error)
}

// ProductService exposes catalog reads.
type ProductService interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

// CartLine is one requested line of a checkout: a catalog reference plus quantity.
type CartLine struct {
	ProductID string
	Quantity  int
}

// CreateOrderCommand carries the checkout payload for order creation.
type CreateOrderCommand struct {
	Lines []CartLine
}

// OrderService encapsulates the order creation and read flows. Both operations
// take the resolved principal explicitly; there is no ambient security context.
type OrderService interface {
	Create(ctx context.Context, principal Principal, cmd CreateOrderCommand) (Order, error)
	Get(ctx context.Context, principal Principal, orderID string) (Order, error)
}
