package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	domain "github.com/devmarrima/dscommerce-api/internal/domain"
	"github.com/devmarrima/dscommerce-api/internal/services"
)

type stubUserService struct {
	principal services.Principal
	err       error
	user      services.User
	userErr   error
}

func (s *stubUserService) Authenticated(context.Context) (services.Principal, error) {
	return s.principal, s.err
}

func (s *stubUserService) GetMe(context.Context, services.Principal) (services.User, error) {
	return s.user, s.userErr
}

type stubOrderService struct {
	createFn func(ctx context.Context, principal services.Principal, cmd services.CreateOrderCommand) (services.Order, error)
	getFn    func(ctx context.Context, principal services.Principal, orderID string) (services.Order, error)
}

func (s *stubOrderService) Create(ctx context.Context, principal services.Principal, cmd services.CreateOrderCommand) (services.Order, error) {
	if s.createFn == nil {
		return services.Order{}, nil
	}
	return s.createFn(ctx, principal, cmd)
}

func (s *stubOrderService) Get(ctx context.Context, principal services.Principal, orderID string) (services.Order, error) {
	if s.getFn == nil {
		return services.Order{}, nil
	}
	return s.getFn(ctx, principal, orderID)
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

func sampleOrder(t *testing.T) domain.Order {
	t.Helper()
	return domain.Order{
		ID:        "ord_01",
		CreatedAt: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
		Status:    domain.OrderStatusAwaitingPayment,
		Client:    domain.OrderClient{ID: "usr_1", Name: "Maria"},
		Items: []domain.OrderItem{
			{OrderID: "ord_01", ProductID: "prd_a", ProductName: "The Lord of the Rings", Quantity: 2, UnitPrice: mustDecimal(t, "10.00")},
			{OrderID: "ord_01", ProductID: "prd_b", ProductName: "Macbook Pro", Quantity: 3, UnitPrice: mustDecimal(t, "5.00")},
		},
	}
}

func newOrderRouter(users services.UserService, orders services.OrderService) chi.Router {
	h := NewOrderHandlers(nil, users, orders)
	r := chi.NewRouter()
	r.Route("/orders", h.Routes)
	return r
}

func TestOrderHandlersCreateOrder(t *testing.T) {
	users := &stubUserService{principal: services.Principal{ID: "usr_1", Name: "Maria", Roles: []string{domain.RoleClient}}}

	var gotCmd services.CreateOrderCommand
	orders := &stubOrderService{
		createFn: func(_ context.Context, principal services.Principal, cmd services.CreateOrderCommand) (services.Order, error) {
			if principal.ID != "usr_1" {
				t.Fatalf("expected principal usr_1, got %s", principal.ID)
			}
			gotCmd = cmd
			return sampleOrder(t), nil
		},
	}

	body := `{"items":[{"product_id":"prd_a","quantity":2},{"product_id":"prd_b","quantity":3}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(body))
	rr := httptest.NewRecorder()

	newOrderRouter(users, orders).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Location"); got != "/orders/ord_01" {
		t.Fatalf("expected Location /orders/ord_01, got %q", got)
	}
	if len(gotCmd.Lines) != 2 || gotCmd.Lines[0].ProductID != "prd_a" || gotCmd.Lines[1].Quantity != 3 {
		t.Fatalf("unexpected command lines: %+v", gotCmd.Lines)
	}

	var payload struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Client struct {
			ID string `json:"id"`
		} `json:"client"`
		Items []struct {
			ProductID string `json:"product_id"`
			UnitPrice string `json:"unit_price"`
			Subtotal  string `json:"subtotal"`
		} `json:"items"`
		Total string `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.ID != "ord_01" || payload.Status != "awaiting_payment" {
		t.Fatalf("unexpected payload header: %+v", payload)
	}
	if payload.Client.ID != "usr_1" {
		t.Fatalf("expected client usr_1, got %s", payload.Client.ID)
	}
	if payload.Total != "35.00" {
		t.Fatalf("expected total 35.00, got %s", payload.Total)
	}
	if payload.Items[0].UnitPrice != "10.00" || payload.Items[0].Subtotal != "20.00" {
		t.Fatalf("unexpected first item: %+v", payload.Items[0])
	}
}

func TestOrderHandlersCreateOrderErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		users      *stubUserService
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unauthenticated",
			users:      &stubUserService{err: services.ErrUnauthenticated},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthenticated",
		},
		{
			name:       "invalid input",
			users:      &stubUserService{principal: services.Principal{ID: "usr_1"}},
			serviceErr: services.ErrOrderInvalidInput,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "missing product",
			users:      &stubUserService{principal: services.Principal{ID: "usr_1"}},
			serviceErr: services.ErrProductNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "product_not_found",
		},
		{
			name:       "store unavailable",
			users:      &stubUserService{principal: services.Principal{ID: "usr_1"}},
			serviceErr: services.ErrOrderUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "order_store_unavailable",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orders := &stubOrderService{
				createFn: func(context.Context, services.Principal, services.CreateOrderCommand) (services.Order, error) {
					return services.Order{}, tc.serviceErr
				},
			}

			body := `{"items":[{"product_id":"prd_a","quantity":1}]}`
			req := httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(body))
			rr := httptest.NewRecorder()

			newOrderRouter(tc.users, orders).ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.wantStatus, rr.Code, rr.Body.String())
			}
			var payload map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
				t.Fatalf("parse response: %v", err)
			}
			if payload["error"] != tc.wantCode {
				t.Fatalf("expected code %s, got %v", tc.wantCode, payload["error"])
			}
		})
	}
}

func TestOrderHandlersCreateOrderRejectsBadBody(t *testing.T) {
	users := &stubUserService{principal: services.Principal{ID: "usr_1"}}
	orders := &stubOrderService{}

	cases := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "malformed json", body: "{"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			newOrderRouter(users, orders).ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestOrderHandlersGetOrder(t *testing.T) {
	users := &stubUserService{principal: services.Principal{ID: "usr_1", Roles: []string{domain.RoleClient}}}
	orders := &stubOrderService{
		getFn: func(_ context.Context, _ services.Principal, orderID string) (services.Order, error) {
			if orderID != "ord_01" {
				t.Fatalf("expected order id ord_01, got %s", orderID)
			}
			return sampleOrder(t), nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/orders/ord_01", nil)
	rr := httptest.NewRecorder()

	newOrderRouter(users, orders).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var payload struct {
		ID        string `json:"id"`
		CreatedAt string `json:"created_at"`
		Total     string `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.ID != "ord_01" || payload.Total != "35.00" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.CreatedAt != "2025-08-01T12:00:00Z" {
		t.Fatalf("unexpected created_at: %s", payload.CreatedAt)
	}
}

func TestOrderHandlersGetOrderErrorMapping(t *testing.T) {
	users := &stubUserService{principal: services.Principal{ID: "usr_2", Roles: []string{domain.RoleClient}}}

	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "forbidden", serviceErr: services.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: "access_denied"},
		{name: "not found", serviceErr: services.ErrOrderNotFound, wantStatus: http.StatusNotFound, wantCode: "order_not_found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orders := &stubOrderService{
				getFn: func(context.Context, services.Principal, string) (services.Order, error) {
					return services.Order{}, tc.serviceErr
				},
			}

			req := httptest.NewRequest(http.MethodGet, "/orders/ord_01", nil)
			rr := httptest.NewRecorder()

			newOrderRouter(users, orders).ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rr.Code)
			}
			var payload map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
				t.Fatalf("parse response: %v", err)
			}
			if payload["error"] != tc.wantCode {
				t.Fatalf("expected code %s, got %v", tc.wantCode, payload["error"])
			}
		})
	}
}
