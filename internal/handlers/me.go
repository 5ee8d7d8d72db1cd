package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/devmarrima/dscommerce-api/internal/platform/auth"
	"github.com/devmarrima/dscommerce-api/internal/platform/httpx"
	"github.com/devmarrima/dscommerce-api/internal/services"
)

// MeHandlers exposes the authenticated user's own profile.
type MeHandlers struct {
	authn *auth.Authenticator
	users services.UserService
}

// NewMeHandlers constructs a new MeHandlers instance.
func NewMeHandlers(authn *auth.Authenticator, users services.UserService) *MeHandlers {
	return &MeHandlers{authn: authn, users: users}
}

// Routes registers the /me endpoints.
func (h *MeHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAuth())
	}
	r.Get("/", h.getMe)
}

func (h *MeHandlers) getMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.users == nil {
		httpx.WriteError(ctx, w, httpx.NewError("user_service_unavailable", "user service unavailable", http.StatusServiceUnavailable))
		return
	}

	principal, err := h.users.Authenticated(ctx)
	if err != nil {
		writeUserError(ctx, w, err)
		return
	}

	user, err := h.users.GetMe(ctx, principal)
	if err != nil {
		writeUserError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, buildUserPayload(user))
}

type userPayload struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	BirthDate string   `json:"birth_date,omitempty"`
	Roles     []string `json:"roles"`
}

func buildUserPayload(user services.User) userPayload {
	payload := userPayload{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
		Roles: user.Roles,
	}
	if payload.Roles == nil {
		payload.Roles = []string{}
	}
	if user.BirthDate != nil {
		payload.BirthDate = user.BirthDate.UTC().Format(time.DateOnly)
	}
	return payload
}

func writeUserError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
	case errors.Is(err, services.ErrUserNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("user_not_found", "user not found", http.StatusNotFound))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("user_error", "failed to load profile", http.StatusInternalServerError))
	}
}
