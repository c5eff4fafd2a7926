package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/domain"
	"github.com/Apurer/go-gin-pet-api/internal/shared/projection"
)

var (
	ErrNotFound      = errors.New("pet not found")
	ErrAlreadyExists = errors.New("pet already exists")
)

// Repository is the pet store. Implementations keep insertion order for
// listings and hold at most one pet per name.
type Repository interface {
	// Add appends pet, failing with ErrAlreadyExists when the name is taken.
	Add(ctx context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error)
	// GetByName returns ErrNotFound when no pet has exactly that name.
	GetByName(ctx context.Context, name string) (*projection.Projection[*domain.Pet], error)
	List(ctx context.Context) ([]*projection.Projection[*domain.Pet], error)
	FindByFilter(ctx context.Context, filter domain.Filter) ([]*projection.Projection[*domain.Pet], error)
	// ReplaceByName overwrites the details of the named pet in place.
	ReplaceByName(ctx context.Context, name string, pet *domain.Pet) (*projection.Projection[*domain.Pet], error)
	// DeleteByName is a no-op when the pet does not exist.
	DeleteByName(ctx context.Context, name string) error
	Clear(ctx context.Context) error
}
