package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/devmarrima/dscommerce-api/internal/di"
	"github.com/devmarrima/dscommerce-api/internal/handlers"
	"github.com/devmarrima/dscommerce-api/internal/platform/auth"
	"github.com/devmarrima/dscommerce-api/internal/platform/config"
	"github.com/devmarrima/dscommerce-api/internal/platform/observability"
	pgplatform "github.com/devmarrima/dscommerce-api/internal/platform/postgres"
	pgrepo "github.com/devmarrima/dscommerce-api/internal/repositories/postgres"
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	// Local development convenience; the file is optional in deployed environments.
	_ = godotenv.Load()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := pgplatform.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}

	registry, err := pgrepo.NewRegistry(db)
	if err != nil {
		logger.Fatal("failed to build repository registry", zap.Error(err))
	}

	container, err := di.NewContainer(cfg, registry)
	if err != nil {
		logger.Fatal("failed to build container", zap.Error(err))
	}

	verifier, err := auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		logger.Fatal("failed to build token verifier", zap.Error(err))
	}
	authn := auth.NewAuthenticator(verifier)

	health := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(handlers.BuildInfo{
			Environment: cfg.Environment,
			StartedAt:   startedAt,
		}),
		handlers.WithHealthPinger(registry),
	)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(logger),
		),
		handlers.WithHealthHandlers(health),
		handlers.WithProductRoutes(handlers.NewProductHandlers(container.Services.Products).Routes),
		handlers.WithMeRoutes(handlers.NewMeHandlers(authn, container.Services.Users).Routes),
		handlers.WithOrderRoutes(handlers.NewOrderHandlers(authn, container.Services.Users, container.Services.Orders).Routes),
	)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("dscommerce api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	if err := container.Close(shutdownCtx); err != nil {
		logger.Warn("container close error", zap.Error(err))
	}
}
