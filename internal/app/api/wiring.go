package api

import (
	"context"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	petsmemory "github.com/Apurer/go-gin-pet-api/internal/domains/pets/adapters/memory"
	petsobs "github.com/Apurer/go-gin-pet-api/internal/domains/pets/adapters/observability"
	petsworkflows "github.com/Apurer/go-gin-pet-api/internal/domains/pets/adapters/workflows"
	petspostgres "github.com/Apurer/go-gin-pet-api/internal/domains/pets/adapters/persistence/postgres"
	petsapp "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application"
	petsports "github.com/Apurer/go-gin-pet-api/internal/domains/pets/ports"
	"github.com/Apurer/go-gin-pet-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-pet-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-pet-api/internal/platform/postgres"
	"github.com/Apurer/go-gin-pet-api/internal/platform/seed"
)

// BuildPetRepository returns the Postgres repository when a DSN is configured
// and reachable, and the in-memory store otherwise. The schema is migrated on
// connect. shared is true only for Postgres, the one store other processes
// such as the Temporal worker can see.
func BuildPetRepository(ctx context.Context, cfg Config, logger *slog.Logger) (repo petsports.Repository, shared bool, cleanup func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("postgres_dsn not set, falling back to in-memory pet repository")
		return petsmemory.NewRepository(), false, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, platformpostgres.ConnectOptions{
		MaxElapsed: cfg.PostgresConnectTimeout,
		Logger:     logger,
	})
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return petsmemory.NewRepository(), false, func() {}
	}
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to memory", slog.String("error", err.Error()))
		_ = platformpostgres.Close(db)
		return petsmemory.NewRepository(), false, func() {}
	}
	logger.Info("pet repository configured with postgres")
	return petspostgres.NewRepository(db), true, func() { _ = platformpostgres.Close(db) }
}

// BuildPetWorkflows picks the creation orchestrator. Temporal is used only when
// the store is shared, since the worker persists into its own repository; an
// in-process store keeps creation inline. dial is not called in that case.
func BuildPetWorkflows(service petsports.Service, sharedStore bool, dial func() (client.Client, error), logger *slog.Logger) (petsports.WorkflowOrchestrator, func()) {
	inline := petsworkflows.NewInlinePetWorkflows(service)
	if !sharedStore {
		logger.Warn("pet repository is process-local, running inline AddPet instead of Temporal workflows")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running inline AddPet", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return petsworkflows.NewTemporalPetWorkflows(temporalClient), temporalClient.Close
}

// NewPetService decorates the core pets service with logging, tracing and metrics.
func NewPetService(repo petsports.Repository, instruments *platformobservability.Instruments) petsports.Service {
	return petsobs.New(
		petsapp.NewService(repo),
		petsobs.WithLogger(instruments.Logger),
		petsobs.WithTracer(instruments.Tracer("internal.pets.application")),
		petsobs.WithMeter(instruments.Meter("internal.pets.application")),
	)
}

// SeedFromFile applies the YAML catalog at path when path is non-empty.
func SeedFromFile(ctx context.Context, service petsports.Service, path string, logger *slog.Logger) error {
	if path == "" {
		return nil
	}
	doc, err := seed.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load seed file: %w", err)
	}
	_, err = seed.Apply(ctx, service, doc, logger)
	return err
}

// Migrate applies the database schema against cfg.PostgresDSN.
func Migrate(ctx context.Context, cfg Config, logger *slog.Logger) error {
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("%s is required to migrate", KeyPostgresDSN)
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, platformpostgres.ConnectOptions{
		MaxElapsed: cfg.PostgresConnectTimeout,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer func() { _ = platformpostgres.Close(db) }()
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("postgres schema migrated")
	return nil
}

// ConnectTemporalClient dials Temporal with tracing and slog-backed logging.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, fmt.Errorf("temporal disabled via %s", KeyTemporalDisabled)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(tracerName),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
