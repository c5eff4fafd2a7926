package ports

import (
	"context"

	pettypes "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application/types"
)

// Service defines the pets use cases exposed to adapters (inbound/driving port).
type Service interface {
	AddPet(ctx context.Context, input pettypes.AddPetInput) (*pettypes.PetProjection, error)
	UpdatePet(ctx context.Context, input pettypes.UpdatePetInput) (*pettypes.PetProjection, error)
	GetByName(ctx context.Context, input pettypes.PetIdentifier) (*pettypes.PetProjection, error)
	FindPets(ctx context.Context, input pettypes.FindPetsInput) ([]*pettypes.PetProjection, error)
	Delete(ctx context.Context, input pettypes.PetIdentifier) error
	Clear(ctx context.Context) error
}
