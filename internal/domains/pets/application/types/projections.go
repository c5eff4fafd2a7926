package types

import (
	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/domain"
	"github.com/Apurer/go-gin-pet-api/internal/shared/projection"
)

// PetProjection transports a pet together with its persistence metadata.
type PetProjection = projection.Projection[*domain.Pet]
