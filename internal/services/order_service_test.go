package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/devmarrima/dscommerce-api/internal/domain"
)

// repoError is the test double for repositories.RepositoryError.
type repoError struct {
	msg         string
	notFound    bool
	conflict    bool
	unavailable bool
}

func (e repoError) Error() string       { return e.msg }
func (e repoError) IsNotFound() bool    { return e.notFound }
func (e repoError) IsConflict() bool    { return e.conflict }
func (e repoError) IsUnavailable() bool { return e.unavailable }

type memoryOrderRepo struct {
	orders  map[string]domain.Order
	inserts int
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{orders: map[string]domain.Order{}}
}

func (r *memoryOrderRepo) Insert(_ context.Context, order domain.Order) error {
	if _, exists := r.orders[order.ID]; exists {
		return repoError{msg: "order exists", conflict: true}
	}
	r.orders[order.ID] = order
	r.inserts++
	return nil
}

func (r *memoryOrderRepo) FindByID(_ context.Context, orderID string) (domain.Order, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, repoError{msg: fmt.Sprintf("order %s not found", orderID), notFound: true}
	}
	return order, nil
}

type memoryProductRepo struct {
	products map[string]domain.Product
}

func (r *memoryProductRepo) FindByID(_ context.Context, productID string) (domain.Product, error) {
	product, ok := r.products[productID]
	if !ok {
		return domain.Product{}, repoError{msg: fmt.Sprintf("product %s not found", productID), notFound: true}
	}
	return product, nil
}

// memoryUnitOfWork mimics transactional rollback over the in-memory order repo:
// on error the repository is restored to its pre-transaction state.
type memoryUnitOfWork struct {
	orders *memoryOrderRepo
	runs   int
}

func (u *memoryUnitOfWork) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	u.runs++
	snapshot := make(map[string]domain.Order, len(u.orders.orders))
	for k, v := range u.orders.orders {
		snapshot[k] = v
	}
	if err := fn(ctx); err != nil {
		u.orders.orders = snapshot
		return err
	}
	return nil
}

// recordingGuard tracks whether the authorization guard was consulted.
type recordingGuard struct {
	inner AuthService
	calls int
}

func (g *recordingGuard) ValidateSelfOrAdmin(principal Principal, ownerID string) error {
	g.calls++
	return g.inner.ValidateSelfOrAdmin(principal, ownerID)
}

func price(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

type orderFixture struct {
	orders   *memoryOrderRepo
	products *memoryProductRepo
	unit     *memoryUnitOfWork
	guard    *recordingGuard
	svc      OrderService
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	orders := newMemoryOrderRepo()
	products := &memoryProductRepo{products: map[string]domain.Product{
		"prd_a": {ID: "prd_a", Name: "The Lord of the Rings", Price: price("10.00")},
		"prd_b": {ID: "prd_b", Name: "Macbook Pro", Price: price("5.00")},
	}}
	unit := &memoryUnitOfWork{orders: orders}
	guard := &recordingGuard{inner: NewAuthService()}

	counter := 0
	svc, err := NewOrderService(OrderServiceDeps{
		Orders:     orders,
		Products:   products,
		Guard:      guard,
		UnitOfWork: unit,
		Clock: func() time.Time {
			return time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
		},
		IDGenerator: func() string {
			counter++
			return fmt.Sprintf("test%04d", counter)
		},
	})
	if err != nil {
		t.Fatalf("new order service: %v", err)
	}

	return &orderFixture{orders: orders, products: products, unit: unit, guard: guard, svc: svc}
}

var (
	clientU1 = Principal{ID: "usr_u1", Name: "Maria", Email: "maria@example.com", Roles: []string{domain.RoleClient}}
	clientU2 = Principal{ID: "usr_u2", Name: "Bob", Email: "bob@example.com", Roles: []string{domain.RoleClient}}
	admin    = Principal{ID: "usr_adm", Name: "Alex", Email: "alex@example.com", Roles: []string{domain.RoleClient, domain.RoleAdmin}}
)

func TestOrderServiceCreateBuildsAggregate(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.Create(context.Background(), clientU1, CreateOrderCommand{
		Lines: []CartLine{
			{ProductID: "prd_a", Quantity: 2},
			{ProductID: "prd_b", Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if order.ID != "ord_test0001" {
		t.Fatalf("expected id ord_test0001, got %s", order.ID)
	}
	if order.Status != domain.OrderStatusAwaitingPayment {
		t.Fatalf("expected status awaiting_payment, got %s", order.Status)
	}
	if order.Client.ID != clientU1.ID {
		t.Fatalf("expected owner %s, got %s", clientU1.ID, order.Client.ID)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(order.Items))
	}
	if order.Items[0].ProductID != "prd_a" || order.Items[1].ProductID != "prd_b" {
		t.Fatalf("expected line items in cart order, got %s then %s", order.Items[0].ProductID, order.Items[1].ProductID)
	}
	if !order.Total().Equal(price("35.00")) {
		t.Fatalf("expected total 35.00, got %s", order.Total())
	}
	if f.unit.runs != 1 {
		t.Fatalf("expected creation inside one transaction, got %d", f.unit.runs)
	}
	if _, err := f.orders.FindByID(context.Background(), order.ID); err != nil {
		t.Fatalf("expected order persisted: %v", err)
	}
}

func TestOrderServiceCreateFreezesPrices(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.Create(context.Background(), clientU1, CreateOrderCommand{
		Lines: []CartLine{{ProductID: "prd_a", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	// Catalog reprice after checkout must not affect the stored snapshot.
	repriced := f.products.products["prd_a"]
	repriced.Price = price("20.00")
	f.products.products["prd_a"] = repriced

	stored, err := f.svc.Get(context.Background(), clientU1, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if !stored.Items[0].UnitPrice.Equal(price("10.00")) {
		t.Fatalf("expected frozen unit price 10.00, got %s", stored.Items[0].UnitPrice)
	}
	if !stored.Total().Equal(price("10.00")) {
		t.Fatalf("expected total 10.00, got %s", stored.Total())
	}
}

func TestOrderServiceCreateRollsBackOnMissingProduct(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Create(context.Background(), clientU1, CreateOrderCommand{
		Lines: []CartLine{
			{ProductID: "prd_a", Quantity: 1},
			{ProductID: "prd_missing", Quantity: 1},
		},
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if len(f.orders.orders) != 0 {
		t.Fatalf("expected no persisted rows after rollback, found %d", len(f.orders.orders))
	}
}

func TestOrderServiceCreateValidation(t *testing.T) {
	f := newOrderFixture(t)

	cases := []struct {
		name  string
		lines []CartLine
	}{
		{name: "empty cart", lines: nil},
		{name: "zero quantity", lines: []CartLine{{ProductID: "prd_a", Quantity: 0}}},
		{name: "negative quantity", lines: []CartLine{{ProductID: "prd_a", Quantity: -2}}},
		{name: "blank product id", lines: []CartLine{{ProductID: "  ", Quantity: 1}}},
		{name: "duplicate product", lines: []CartLine{{ProductID: "prd_a", Quantity: 1}, {ProductID: "prd_a", Quantity: 2}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), clientU1, CreateOrderCommand{Lines: tc.lines})
			if !errors.Is(err, ErrOrderInvalidInput) {
				t.Fatalf("expected ErrOrderInvalidInput, got %v", err)
			}
			if len(f.orders.orders) != 0 {
				t.Fatalf("expected no persisted rows, found %d", len(f.orders.orders))
			}
		})
	}
}

func TestOrderServiceGetEnforcesOwnerOrAdmin(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.Create(context.Background(), clientU1, CreateOrderCommand{
		Lines: []CartLine{
			{ProductID: "prd_a", Quantity: 2},
			{ProductID: "prd_b", Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := f.svc.Get(context.Background(), clientU1, order.ID); err != nil {
		t.Fatalf("owner read should succeed: %v", err)
	}

	if _, err := f.svc.Get(context.Background(), clientU2, order.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	got, err := f.svc.Get(context.Background(), admin, order.ID)
	if err != nil {
		t.Fatalf("admin read should succeed: %v", err)
	}
	if !got.Total().Equal(price("35.00")) {
		t.Fatalf("expected total 35.00 for admin read, got %s", got.Total())
	}
}

func TestOrderServiceGetNotFoundBeforeAuthorization(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Get(context.Background(), clientU2, "ord_missing")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if f.guard.calls != 0 {
		t.Fatalf("expected guard untouched for missing order, got %d calls", f.guard.calls)
	}
}

func TestOrderServiceGetMapsUnavailable(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.orders["ord_x"] = domain.Order{ID: "ord_x", Client: domain.OrderClient{ID: clientU1.ID}}

	svc, err := NewOrderService(OrderServiceDeps{
		Orders:   unavailableOrderRepo{},
		Products: f.products,
		Guard:    f.guard,
	})
	if err != nil {
		t.Fatalf("new order service: %v", err)
	}

	if _, err := svc.Get(context.Background(), clientU1, "ord_x"); !errors.Is(err, ErrOrderUnavailable) {
		t.Fatalf("expected ErrOrderUnavailable, got %v", err)
	}
}

type unavailableOrderRepo struct{}

func (unavailableOrderRepo) Insert(context.Context, domain.Order) error {
	return repoError{msg: "store down", unavailable: true}
}

func (unavailableOrderRepo) FindByID(context.Context, string) (domain.Order, error) {
	return domain.Order{}, repoError{msg: "store down", unavailable: true}
}
