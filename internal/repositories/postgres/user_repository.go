package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	domain "github.com/devmarrima/dscommerce-api/internal/domain"
	pgplatform "github.com/devmarrima/dscommerce-api/internal/platform/postgres"
)

// UserRepository reads stored accounts and their granted roles from PostgreSQL.
type UserRepository struct {
	db *gorm.DB
}

// FindByID loads the user with roles by primary key.
func (r *UserRepository) FindByID(ctx context.Context, userID string) (domain.User, error) {
	if r == nil || r.db == nil {
		return domain.User{}, errors.New("user repository not initialised")
	}
	if strings.TrimSpace(userID) == "" {
		return domain.User{}, errors.New("user id is required")
	}

	var row userRow
	if err := session(ctx, r.db).Preload("Roles").First(&row, "id = ?", userID).Error; err != nil {
		return domain.User{}, pgplatform.WrapError("user.find", err)
	}
	return toDomainUser(row), nil
}

// FindByEmail loads the user with roles by the unique email column.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if r == nil || r.db == nil {
		return domain.User{}, errors.New("user repository not initialised")
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return domain.User{}, errors.New("user email is required")
	}

	var row userRow
	if err := session(ctx, r.db).Preload("Roles").First(&row, "lower(email) = ?", email).Error; err != nil {
		return domain.User{}, pgplatform.WrapError("user.find_by_email", err)
	}
	return toDomainUser(row), nil
}
