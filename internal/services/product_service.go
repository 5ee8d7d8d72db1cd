package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devmarrima/dscommerce-api/internal/repositories"
)

// ErrProductNotFound indicates the catalog item could not be located.
var ErrProductNotFound = errors.New("product: not found")

// ProductServiceDeps bundles collaborators required to construct the product service.
type ProductServiceDeps struct {
	Products repositories.ProductRepository
}

type productService struct {
	products repositories.ProductRepository
}

// NewProductService wires dependencies into a concrete ProductService implementation.
func NewProductService(deps ProductServiceDeps) (ProductService, error) {
	if deps.Products == nil {
		return nil, errors.New("product service: product repository is required")
	}
	return &productService{products: deps.Products}, nil
}

func (s *productService) GetProduct(ctx context.Context, productID string) (Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return Product{}, fmt.Errorf("%w: product id is required", ErrProductNotFound)
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		var repoErr repositories.RepositoryError
		if errors.As(err, &repoErr) && repoErr.IsNotFound() {
			return Product{}, fmt.Errorf("%w: %v", ErrProductNotFound, err)
		}
		return Product{}, err
	}
	return product, nil
}
