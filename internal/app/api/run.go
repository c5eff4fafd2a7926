package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	"golang.org/x/sync/errgroup"

	petstoreserver "github.com/Apurer/go-gin-pet-api/go"
	platformobservability "github.com/Apurer/go-gin-pet-api/internal/platform/observability"
)

// ServiceName identifies the API process in traces, metrics and logs.
const ServiceName = "petstore-api"

// Run boots the Petstore HTTP API with observability, repositories, and
// workflows wired, and serves until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(ServiceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	petRepo, sharedStore, cleanupRepo := BuildPetRepository(ctx, cfg, logger)
	defer cleanupRepo()
	petService := NewPetService(petRepo, instruments)
	if err := SeedFromFile(ctx, petService, cfg.SeedFile, logger); err != nil {
		return err
	}

	petWorkflows, closeWorkflows := BuildPetWorkflows(petService, sharedStore, func() (client.Client, error) {
		return ConnectTemporalClient(cfg, instruments, "temporal-client")
	}, logger)
	defer closeWorkflows()

	if cfg.Environment != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := NewHTTPHandler(logger, petstoreserver.ApiHandleFunctions{
		PetAPI:         petstoreserver.NewPetAPI(petService, petWorkflows),
		OperationalAPI: petstoreserver.NewOperationalAPI(instruments.MetricsHandler),
	})

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr(), err)
	}
	logger.Info("Petstore API listening", slog.String("addr", listener.Addr().String()))
	return Serve(ctx, &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}, listener, cfg.ShutdownTimeout, logger)
}

// NewHTTPHandler builds the gin engine with middleware installed ahead of the
// routes so every route is traced, correlated and logged.
func NewHTTPHandler(logger *slog.Logger, handlers petstoreserver.ApiHandleFunctions) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(ServiceName),
		petstoreserver.RequestID(),
		petstoreserver.RequestLogger(logger),
	)
	return petstoreserver.NewRouterWithGinEngine(router, handlers)
}

// Serve runs server on listener until ctx is done, then drains in-flight
// requests for at most shutdownTimeout.
func Serve(ctx context.Context, server *http.Server, listener net.Listener, shutdownTimeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Petstore API shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
