package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/devmarrima/dscommerce-api/internal/platform/config"
	"github.com/devmarrima/dscommerce-api/internal/platform/observability"
	"github.com/devmarrima/dscommerce-api/internal/repositories"
	"github.com/devmarrima/dscommerce-api/internal/services"
)

// Services bundles the service-layer contracts that handlers rely upon. Concrete
// implementations are assembled via dependency injection in NewContainer.
type Services struct {
	Auth     services.AuthService
	Users    services.UserService
	Products services.ProductService
	Orders   services.OrderService
}

// Container wires repositories and services for runtime use.
type Container struct {
	Config       config.Config
	Repositories repositories.Registry
	Services     Services
}

// NewContainer constructs the runtime dependencies. Production wiring provides
// the postgres-backed registry, while tests can supply in-memory registries.
func NewContainer(cfg config.Config, reg repositories.Registry) (*Container, error) {
	if reg == nil {
		return nil, errors.New("repositories registry is required")
	}

	svc, err := buildServices(reg)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:       cfg,
		Repositories: reg,
		Services:     svc,
	}, nil
}

// Close releases repository resources such as database connections.
func (c *Container) Close(ctx context.Context) error {
	if c == nil || c.Repositories == nil {
		return nil
	}
	return c.Repositories.Close(ctx)
}

func buildServices(reg repositories.Registry) (Services, error) {
	var svc Services

	svc.Auth = services.NewAuthService()

	userSvc, err := services.NewUserService(services.UserServiceDeps{
		Users: reg.Users(),
	})
	if err != nil {
		return Services{}, fmt.Errorf("build user service: %w", err)
	}
	svc.Users = userSvc

	productSvc, err := services.NewProductService(services.ProductServiceDeps{
		Products: reg.Products(),
	})
	if err != nil {
		return Services{}, fmt.Errorf("build product service: %w", err)
	}
	svc.Products = productSvc

	orderSvc, err := services.NewOrderService(services.OrderServiceDeps{
		Orders:     reg.Orders(),
		Products:   reg.Products(),
		Guard:      svc.Auth,
		UnitOfWork: reg,
		Clock:      time.Now,
		Logger:     logServiceEvent,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build order service: %w", err)
	}
	svc.Orders = orderSvc

	return svc, nil
}

// logServiceEvent forwards service-level events to the request-scoped logger.
func logServiceEvent(ctx context.Context, event string, fields map[string]any) {
	logger := observability.FromContext(ctx)
	zapFields := make([]zap.Field, 0, len(fields))
	for key, value := range fields {
		zapFields = append(zapFields, zap.Any(key, value))
	}
	logger.Info(event, zapFields...)
}
