package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/devmarrima/dscommerce-api/internal/domain"
	"github.com/devmarrima/dscommerce-api/internal/repositories"
)

const orderIDPrefix = "ord_"

var (
	// ErrOrderInvalidInput signals the caller provided an invalid cart line.
	ErrOrderInvalidInput = errors.New("order: invalid input")
	// ErrOrderNotFound indicates the order could not be located.
	ErrOrderNotFound = errors.New("order: not found")
	// ErrOrderUnavailable indicates the backing store could not serve the request.
	ErrOrderUnavailable = errors.New("order: repository unavailable")
)

// OrderServiceDeps bundles collaborators required to construct the order service.
type OrderServiceDeps struct {
	Orders      repositories.OrderRepository
	Products    repositories.ProductRepository
	Guard       AuthService
	UnitOfWork  repositories.UnitOfWork
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(ctx context.Context, event string, fields map[string]any)
}

type orderService struct {
	orders     repositories.OrderRepository
	products   repositories.ProductRepository
	guard      AuthService
	unitOfWork repositories.UnitOfWork
	clock      func() time.Time
	newID      func() string
	logger     func(context.Context, string, map[string]any)
}

// NewOrderService wires dependencies into a concrete OrderService implementation.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Orders == nil {
		return nil, errors.New("order service: order repository is required")
	}
	if deps.Products == nil {
		return nil, errors.New("order service: product repository is required")
	}
	if deps.Guard == nil {
		return nil, errors.New("order service: authorization guard is required")
	}

	unit := deps.UnitOfWork
	if unit == nil {
		unit = noopUnitOfWork{}
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string {
			return ulid.Make().String()
		}
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &orderService{
		orders:     deps.Orders,
		products:   deps.Products,
		guard:      deps.Guard,
		unitOfWork: unit,
		clock: func() time.Time {
			return clock().UTC()
		},
		newID:  idGen,
		logger: logger,
	}, nil
}

// Create assembles an order owned by principal from the requested cart lines,
// snapshotting each product's current price, and persists the order and every
// line item as one atomic unit. If any line fails to resolve, nothing is stored.
func (s *orderService) Create(ctx context.Context, principal Principal, cmd CreateOrderCommand) (Order, error) {
	if strings.TrimSpace(principal.ID) == "" {
		return Order{}, fmt.Errorf("%w: principal is required", ErrUnauthenticated)
	}
	if err := validateCartLines(cmd.Lines); err != nil {
		return Order{}, err
	}

	order := Order{
		ID:        orderIDPrefix + s.newID(),
		CreatedAt: s.clock(),
		Status:    domain.OrderStatusAwaitingPayment,
		Client: domain.OrderClient{
			ID:   principal.ID,
			Name: principal.Name,
		},
	}

	err := s.unitOfWork.RunInTx(ctx, func(txCtx context.Context) error {
		items, err := s.assembleLineItems(txCtx, order.ID, cmd.Lines)
		if err != nil {
			return err
		}
		order.Items = items
		return s.mapRepositoryError(s.orders.Insert(txCtx, order))
	})
	if err != nil {
		return Order{}, err
	}

	s.logger(ctx, "order.created", map[string]any{
		"order":  order.ID,
		"client": order.Client.ID,
		"items":  len(order.Items),
		"total":  order.Total().String(),
	})

	return order, nil
}

// Get loads the order by id, then enforces the owner-or-admin rule against the
// order's owner. A missing order fails before any authorization is evaluated;
// a denied read propagates ErrForbidden without exposing order contents.
func (s *orderService) Get(ctx context.Context, principal Principal, orderID string) (Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return Order{}, fmt.Errorf("%w: order id is required", ErrOrderInvalidInput)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return Order{}, s.mapRepositoryError(err)
	}

	if err := s.guard.ValidateSelfOrAdmin(principal, order.Client.ID); err != nil {
		return Order{}, err
	}
	return order, nil
}

// assembleLineItems resolves each cart line against the catalog and freezes the
// current unit price into a line item. Output order matches input order.
func (s *orderService) assembleLineItems(ctx context.Context, orderID string, lines []CartLine) ([]OrderItem, error) {
	items := make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			var repoErr repositories.RepositoryError
			if errors.As(err, &repoErr) && repoErr.IsNotFound() {
				return nil, fmt.Errorf("%w: product %s", ErrProductNotFound, line.ProductID)
			}
			return nil, s.mapRepositoryError(err)
		}
		items = append(items, OrderItem{
			OrderID:     orderID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
	}
	return items, nil
}

func validateCartLines(lines []CartLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: cart must contain at least one item", ErrOrderInvalidInput)
	}

	seen := make(map[string]struct{}, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return fmt.Errorf("%w: items[%d].product_id is required", ErrOrderInvalidInput, i)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantity must be positive", ErrOrderInvalidInput, i)
		}
		if _, dup := seen[line.ProductID]; dup {
			return fmt.Errorf("%w: items[%d].product_id duplicates an earlier line", ErrOrderInvalidInput, i)
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}

func (s *orderService) mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return fmt.Errorf("%w: %v", ErrOrderNotFound, err)
		case repoErr.IsUnavailable():
			return fmt.Errorf("%w: %v", ErrOrderUnavailable, err)
		}
	}
	return err
}

type noopUnitOfWork struct{}

func (noopUnitOfWork) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
