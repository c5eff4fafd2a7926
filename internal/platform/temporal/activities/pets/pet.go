package pets

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	petsapp "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application"
	petstypes "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application/types"
	petsports "github.com/Apurer/go-gin-pet-api/internal/domains/pets/ports"
)

const (
	// PersistPetActivityName persists a new pet through the application service.
	PersistPetActivityName = "pets.activities.PersistPet"

	// ErrTypeConflict marks a failure caused by a name that is already taken.
	ErrTypeConflict = "PetConflict"
	// ErrTypeInvalid marks a failure caused by a payload the service rejected.
	ErrTypeInvalid = "PetInvalid"
)

// Activities groups activities that operate on the pets bounded context.
type Activities struct {
	service petsports.Service
}

// NewActivities wires the pets service into the Temporal activities bundle.
func NewActivities(service petsports.Service) *Activities {
	return &Activities{service: service}
}

// PersistPet stores a new pet and returns its projection. Business rejections are
// returned as non-retryable application errors so the workflow fails fast.
func (a *Activities) PersistPet(ctx context.Context, input petstypes.AddPetInput) (*petstypes.PetProjection, error) {
	logger := activity.GetLogger(ctx)
	name := petName(input)
	if a == nil || a.service == nil {
		logger.Error("pet persist activity not initialized", "name", name)
		return nil, errors.New("pet persist activity not initialized")
	}
	logger.Info("PersistPet activity started", "name", name)
	projection, err := a.service.AddPet(ctx, input)
	switch {
	case errors.Is(err, petsapp.ErrConflict):
		logger.Warn("PersistPet rejected duplicate name", "name", name)
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeConflict, nil)
	case errors.Is(err, petsapp.ErrInvalidInput):
		logger.Warn("PersistPet rejected invalid pet", "name", name, "error", err)
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalid, nil)
	case err != nil:
		logger.Error("PersistPet activity failed", "name", name, "error", err)
		return nil, err
	}
	logger.Info("PersistPet activity completed", "name", name)
	return projection, nil
}

func petName(input petstypes.AddPetInput) string {
	if input.Name == nil {
		return ""
	}
	return *input.Name
}
