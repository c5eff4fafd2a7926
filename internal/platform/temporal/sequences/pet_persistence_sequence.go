package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	petstypes "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application/types"
	petactivities "github.com/Apurer/go-gin-pet-api/internal/platform/temporal/activities/pets"
)

// PersistActivityOptions bounds the persist activity. Conflict and invalid payload
// failures are non-retryable, so only infrastructure errors use the retry budget.
var PersistActivityOptions = workflow.ActivityOptions{
	StartToCloseTimeout: time.Minute,
	RetryPolicy: &temporal.RetryPolicy{
		InitialInterval:        2 * time.Second,
		BackoffCoefficient:     2.0,
		MaximumInterval:        10 * time.Second,
		MaximumAttempts:        5,
		NonRetryableErrorTypes: []string{petactivities.ErrTypeConflict, petactivities.ErrTypeInvalid},
	},
}

// RunPetPersistenceSequence executes the ordered set of activities needed to persist a pet.
func RunPetPersistenceSequence(ctx workflow.Context, input petstypes.AddPetInput) (*petstypes.PetProjection, error) {
	logger := workflow.GetLogger(ctx)
	var name string
	if input.Name != nil {
		name = *input.Name
	}
	logger.Info("pet persistence sequence started", "name", name)

	var projection petstypes.PetProjection
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, PersistActivityOptions), petactivities.PersistPetActivityName, input).Get(ctx, &projection)
	if err != nil {
		logger.Error("pet persistence sequence failed", "name", name, "error", err)
		return nil, err
	}
	logger.Info("pet persistence sequence persisted", "name", name)
	return &projection, nil
}
