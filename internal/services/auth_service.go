package services

import (
	"errors"
	"strings"

	domain "github.com/devmarrima/dscommerce-api/internal/domain"
)

// ErrForbidden indicates the principal lacks rights over the target resource.
var ErrForbidden = errors.New("auth: access denied")

type authService struct{}

// NewAuthService constructs the stateless access-control guard.
func NewAuthService() AuthService {
	return authService{}
}

// ValidateSelfOrAdmin allows the operation when the principal is an
// administrator or owns the target resource. The denial is generic: it reveals
// nothing about the resource beyond the refusal itself.
func (authService) ValidateSelfOrAdmin(principal Principal, ownerID string) error {
	if principal.HasRole(domain.RoleAdmin) {
		return nil
	}
	if strings.TrimSpace(ownerID) != "" && principal.ID == ownerID {
		return nil
	}
	return ErrForbidden
}
