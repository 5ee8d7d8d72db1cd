package repositories

import (
	"context"

	domain "github.com/devmarrima/dscommerce-api/internal/domain"
)

// Registry exposes typed repository accessors and lifecycle hooks for dependency injection.
type Registry interface {
	Close(ctx context.Context) error
	Ping(ctx context.Context) error

	Orders() OrderRepository
	Products() ProductRepository
	Users() UserRepository

	UnitOfWork
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// UnitOfWork groups repository operations in a transactional boundary: every
// write issued through fn commits or rolls back as one unit.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OrderRepository persists order aggregates. Insert stores the order header and
// every line item; when called inside RunInTx the whole aggregate commits or
// rolls back together. FindByID loads the order joined with its items.
type OrderRepository interface {
	Insert(ctx context.Context, order domain.Order) error
	FindByID(ctx context.Context, orderID string) (domain.Order, error)
}

// ProductRepository reads catalog items. Orders consume only the id and the
// current price at creation time.
type ProductRepository interface {
	FindByID(ctx context.Context, productID string) (domain.Product, error)
}

// UserRepository reads stored accounts and their granted roles.
type UserRepository interface {
	FindByID(ctx context.Context, userID string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}
