package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devmarrima/dscommerce-api/internal/platform/auth"
	"github.com/devmarrima/dscommerce-api/internal/repositories"
)

var (
	// ErrUnauthenticated indicates no resolvable principal for the request.
	ErrUnauthenticated = errors.New("user: unauthenticated")
	// ErrUserNotFound indicates the account could not be located.
	ErrUserNotFound = errors.New("user: not found")
)

// UserServiceDeps bundles collaborators required to construct the user service.
type UserServiceDeps struct {
	Users repositories.UserRepository
}

type userService struct {
	users repositories.UserRepository
}

// NewUserService wires dependencies into a concrete UserService implementation.
func NewUserService(deps UserServiceDeps) (UserService, error) {
	if deps.Users == nil {
		return nil, errors.New("user service: user repository is required")
	}
	return &userService{users: deps.Users}, nil
}

// Authenticated maps the verified credential on ctx to the stored account and
// returns the per-request principal. The caller is never silently defaulted to
// a guest identity: any gap fails with ErrUnauthenticated.
func (s *userService) Authenticated(ctx context.Context) (Principal, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return Principal{}, fmt.Errorf("%w: no credential on request", ErrUnauthenticated)
	}

	user, err := s.users.FindByEmail(ctx, identity.Subject)
	if err != nil {
		var repoErr repositories.RepositoryError
		if errors.As(err, &repoErr) && repoErr.IsNotFound() {
			return Principal{}, fmt.Errorf("%w: unknown subject", ErrUnauthenticated)
		}
		return Principal{}, err
	}

	return Principal{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Roles: append([]string(nil), user.Roles...),
	}, nil
}

// GetMe returns the authenticated principal's stored profile.
func (s *userService) GetMe(ctx context.Context, principal Principal) (User, error) {
	if strings.TrimSpace(principal.ID) == "" {
		return User{}, fmt.Errorf("%w: principal id is required", ErrUnauthenticated)
	}

	user, err := s.users.FindByID(ctx, principal.ID)
	if err != nil {
		var repoErr repositories.RepositoryError
		if errors.As(err, &repoErr) && repoErr.IsNotFound() {
			return User{}, fmt.Errorf("%w: %v", ErrUserNotFound, err)
		}
		return User{}, err
	}
	return user, nil
}
