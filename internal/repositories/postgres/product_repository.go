package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	domain "github.com/devmarrima/dscommerce-api/internal/domain"
	pgplatform "github.com/devmarrima/dscommerce-api/internal/platform/postgres"
)

// ProductRepository reads catalog items from PostgreSQL.
type ProductRepository struct {
	db *gorm.DB
}

// FindByID loads a product by id. Inside a transaction the read observes the
// transaction's snapshot, which is what freezes the price used for order lines.
func (r *ProductRepository) FindByID(ctx context.Context, productID string) (domain.Product, error) {
	if r == nil || r.db == nil {
		return domain.Product{}, errors.New("product repository not initialised")
	}
	if strings.TrimSpace(productID) == "" {
		return domain.Product{}, errors.New("product id is required")
	}

	var row productRow
	if err := session(ctx, r.db).First(&row, "id = ?", productID).Error; err != nil {
		return domain.Product{}, pgplatform.WrapError("product.find", err)
	}
	return toDomainProduct(row), nil
}
