package pets

import (
	"time"

	"go.temporal.io/sdk/workflow"

	petstypes "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application/types"
	"github.com/Apurer/go-gin-pet-api/internal/platform/temporal/sequences"
)

const (
	// PetCreationWorkflowName is the public identifier for registering the workflow.
	PetCreationWorkflowName = "pets.workflows.Creation"
	// PetCreationTaskQueue is the queue consumed by the worker processing pet workflows.
	PetCreationTaskQueue = "PET_CREATION"
	// PetCreationExecutionTimeout bounds a creation run, including time spent
	// waiting for a worker to pick it up.
	PetCreationExecutionTimeout = 30 * time.Second
)

// PetCreationWorkflowInput captures the payload required to add a pet.
type PetCreationWorkflowInput struct {
	Command petstypes.AddPetInput
	TraceID string
}

// PetCreationWorkflow orchestrates the activities needed to persist a pet.
func PetCreationWorkflow(ctx workflow.Context, input PetCreationWorkflowInput) (*petstypes.PetProjection, error) {
	logger := workflow.GetLogger(ctx)
	var name string
	if input.Command.Name != nil {
		name = *input.Command.Name
	}
	logger.Info("PetCreationWorkflow started", withTraceID(input.TraceID, "name", name)...)
	projection, err := sequences.RunPetPersistenceSequence(ctx, input.Command)
	if err != nil {
		logger.Error("PetCreationWorkflow failed", withTraceID(input.TraceID, "name", name, "error", err)...)
		return nil, err
	}
	logger.Info("PetCreationWorkflow completed", withTraceID(input.TraceID, "name", name)...)
	return projection, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
