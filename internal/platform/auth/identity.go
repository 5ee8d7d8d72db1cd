package auth

import (
	"context"
	"strings"
	"time"
)

// Identity captures the verified credential details extracted from a bearer token.
// It identifies the subject only; the subject's stored roles are resolved by the
// user service, not trusted from the token.
type Identity struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Valid reports whether the identity carries a usable subject.
func (i Identity) Valid() bool {
	return strings.TrimSpace(i.Subject) != ""
}

type contextKey string

const identityContextKey contextKey = "github.com/devmarrima/dscommerce-api/internal/platform/auth/identity"

// WithIdentity stores the identity within the context for downstream handlers.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity previously stored in context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	if !ok || !identity.Valid() {
		return Identity{}, false
	}
	return identity, true
}
