package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-pet-api/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-pet-api/internal/platform/observability"
	petactivities "github.com/Apurer/go-gin-pet-api/internal/platform/temporal/activities/pets"
	petworkflows "github.com/Apurer/go-gin-pet-api/internal/platform/temporal/workflows/pets"
)

const serviceName = "petstore-worker"

func main() {
	ctx := context.Background()
	cfg, err := api.LoadConfig(api.NewViper())
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(serviceName))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	petRepo, sharedStore, cleanupRepo := api.BuildPetRepository(ctx, cfg, logger)
	defer cleanupRepo()
	if !sharedStore {
		// Pets persisted here would be invisible to the API process.
		logger.Error("worker requires a reachable postgres store, exiting", slog.String("key", api.KeyPostgresDSN))
		return
	}
	petActivities := petactivities.NewActivities(api.NewPetService(petRepo, instruments))

	temporalClient, err := api.ConnectTemporalClient(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		return
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, petworkflows.PetCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(petworkflows.PetCreationWorkflow, workflow.RegisterOptions{Name: petworkflows.PetCreationWorkflowName})
	w.RegisterActivityWithOptions(petActivities.PersistPet, activity.RegisterOptions{Name: petactivities.PersistPetActivityName})

	logger.Info("worker listening", slog.String("taskQueue", petworkflows.PetCreationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
