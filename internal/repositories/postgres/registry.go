package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	pgplatform "github.com/devmarrima/dscommerce-api/internal/platform/postgres"
	"github.com/devmarrima/dscommerce-api/internal/repositories"
)

type txContextKey struct{}

// Registry assembles the Postgres-backed repositories over a shared GORM handle.
type Registry struct {
	db       *gorm.DB
	orders   *OrderRepository
	products *ProductRepository
	users    *UserRepository
}

// NewRegistry constructs the repository registry for the provided database.
func NewRegistry(db *gorm.DB) (*Registry, error) {
	if db == nil {
		return nil, errors.New("postgres registry requires a database handle")
	}
	return &Registry{
		db:       db,
		orders:   &OrderRepository{db: db},
		products: &ProductRepository{db: db},
		users:    &UserRepository{db: db},
	}, nil
}

// Orders returns the order repository.
func (r *Registry) Orders() repositories.OrderRepository { return r.orders }

// Products returns the product repository.
func (r *Registry) Products() repositories.ProductRepository { return r.products }

// Users returns the user repository.
func (r *Registry) Users() repositories.UserRepository { return r.users }

// RunInTx executes fn inside one database transaction. The transactional handle
// travels in the context, so repository calls made with the derived context join
// the same transaction and commit or roll back together.
func (r *Registry) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil || r.db == nil {
		return errors.New("postgres registry not initialised")
	}
	if fn == nil {
		return errors.New("postgres registry: transaction function is nil")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
	return pgplatform.WrapError("tx", err)
}

// Ping verifies database connectivity for readiness checks.
func (r *Registry) Ping(ctx context.Context) error {
	return pgplatform.Ping(ctx, r.db)
}

// Close releases the underlying connection pool.
func (r *Registry) Close(_ context.Context) error {
	return pgplatform.Close(r.db)
}

// session yields the transactional handle when ctx carries one, falling back to
// the shared handle otherwise.
func session(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
