package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	petsapp "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application"
	petstypes "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application/types"
	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/ports"
	petactivities "github.com/Apurer/go-gin-pet-api/internal/platform/temporal/activities/pets"
	petworkflows "github.com/Apurer/go-gin-pet-api/internal/platform/temporal/workflows/pets"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalPetWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlinePetWorkflows)(nil)
)

// TemporalPetWorkflows starts pet workflows on a Temporal cluster.
type TemporalPetWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalPetWorkflows wires a Temporal client into the orchestrator.
func NewTemporalPetWorkflows(c client.Client) *TemporalPetWorkflows {
	return &TemporalPetWorkflows{client: c, taskQueue: petworkflows.PetCreationTaskQueue}
}

// CreatePet runs the creation workflow and waits for its result. The workflow id
// is derived from the pet name, so two concurrent creates of the same name
// cannot both be in flight; the loser is reported as a conflict.
func (o *TemporalPetWorkflows) CreatePet(ctx context.Context, input petstypes.AddPetInput) (*petstypes.PetProjection, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal pet workflows not configured")
	}
	if input.Name == nil {
		return nil, fmt.Errorf("%w: name is required", petsapp.ErrInvalidInput)
	}
	options := client.StartWorkflowOptions{
		ID:                       buildPetCreationWorkflowID(*input.Name),
		TaskQueue:                o.taskQueue,
		WorkflowExecutionTimeout: petworkflows.PetCreationExecutionTimeout,
	}
	options.WorkflowExecutionErrorWhenAlreadyStarted = true
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		petworkflows.PetCreationWorkflowName,
		petworkflows.PetCreationWorkflowInput{Command: input, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil, fmt.Errorf("%w: creation of %q already in progress", petsapp.ErrConflict, *input.Name)
		}
		return nil, err
	}
	var projection petstypes.PetProjection
	if err := run.Get(ctx, &projection); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &projection, nil
}

// translateWorkflowError maps typed activity failures back onto the
// application errors the transport layer understands.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case petactivities.ErrTypeConflict:
		return fmt.Errorf("%w: %w", petsapp.ErrConflict, ports.ErrAlreadyExists)
	case petactivities.ErrTypeInvalid:
		return fmt.Errorf("%w: %s", petsapp.ErrInvalidInput, appErr.Error())
	}
	return err
}

// InlinePetWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlinePetWorkflows struct {
	service ports.Service
}

// NewInlinePetWorkflows wraps the pets service for synchronous execution.
func NewInlinePetWorkflows(service ports.Service) *InlinePetWorkflows {
	return &InlinePetWorkflows{service: service}
}

// CreatePet delegates to the application service without durable orchestration.
func (o *InlinePetWorkflows) CreatePet(ctx context.Context, input petstypes.AddPetInput) (*petstypes.PetProjection, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline pet workflows not configured")
	}
	return o.service.AddPet(ctx, input)
}

func buildPetCreationWorkflowID(name string) string {
	sum := sha256.Sum256([]byte(name))
	return "pet-creation-" + hex.EncodeToString(sum[:8])
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}
