package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	domain "github.com/devmarrima/dscommerce-api/internal/domain"
	pgplatform "github.com/devmarrima/dscommerce-api/internal/platform/postgres"
)

// OrderRepository persists order aggregates in PostgreSQL.
type OrderRepository struct {
	db *gorm.DB
}

// Insert stores the order header and all of its line items. Callers wrap the
// call in the registry's RunInTx so the aggregate is written atomically.
func (r *OrderRepository) Insert(ctx context.Context, order domain.Order) error {
	if r == nil || r.db == nil {
		return errors.New("order repository not initialised")
	}
	if strings.TrimSpace(order.ID) == "" {
		return errors.New("order id is required")
	}

	row, items := fromDomainOrder(order)

	tx := session(ctx, r.db)
	if err := tx.Create(&row).Error; err != nil {
		return pgplatform.WrapError("order.insert", err)
	}
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			return pgplatform.WrapError("order.insert.items", err)
		}
	}
	return nil
}

// FindByID loads the order joined with its line items in input order and the
// owning client's summary.
func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (domain.Order, error) {
	if r == nil || r.db == nil {
		return domain.Order{}, errors.New("order repository not initialised")
	}
	if strings.TrimSpace(orderID) == "" {
		return domain.Order{}, errors.New("order id is required")
	}

	var row orderRow
	err := session(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("tb_order_item.position ASC")
		}).
		Preload("Client").
		First(&row, "id = ?", orderID).Error
	if err != nil {
		return domain.Order{}, pgplatform.WrapError("order.find", err)
	}
	return toDomainOrder(row), nil
}
