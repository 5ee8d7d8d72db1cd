package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	domain "github.com/devmarrima/dscommerce-api/internal/domain"
	"github.com/devmarrima/dscommerce-api/internal/services"
)

type stubProductService struct {
	product services.Product
	err     error
}

func (s *stubProductService) GetProduct(context.Context, string) (services.Product, error) {
	return s.product, s.err
}

func newProductRouter(products services.ProductService) chi.Router {
	h := NewProductHandlers(products)
	r := chi.NewRouter()
	r.Route("/products", h.Routes)
	return r
}

func TestProductHandlersGetProduct(t *testing.T) {
	svc := &stubProductService{product: domain.Product{
		ID:          "prd_a",
		Name:        "The Lord of the Rings",
		Description: "Lorem ipsum",
		Price:       mustDecimal(t, "90.50"),
		ImgURL:      "https://example.com/1-big.jpg",
	}}

	req := httptest.NewRequest(http.MethodGet, "/products/prd_a", nil)
	rr := httptest.NewRecorder()

	newProductRouter(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var payload struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Price string `json:"price"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.ID != "prd_a" || payload.Price != "90.50" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestProductHandlersGetProductNotFound(t *testing.T) {
	svc := &stubProductService{err: services.ErrProductNotFound}

	req := httptest.NewRequest(http.MethodGet, "/products/prd_missing", nil)
	rr := httptest.NewRecorder()

	newProductRouter(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload["error"] != "product_not_found" {
		t.Fatalf("expected code product_not_found, got %v", payload["error"])
	}
}
