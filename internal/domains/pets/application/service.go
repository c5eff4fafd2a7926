package application

import (
	"context"
	"errors"
	"fmt"

	types "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application/types"
	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/domain"
	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/ports"
)

var errMissingField = errors.New("required field missing")

// Service orchestrates the pets bounded context use cases.
type Service struct {
	repo ports.Repository
}

// NewService wires the pets service with its dependencies.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// AddPet stores a new pet. A second pet with the same name is rejected.
func (s *Service) AddPet(ctx context.Context, input types.AddPetInput) (*types.PetProjection, error) {
	pet, err := buildPetFromMutation(input.PetMutationInput)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Add(ctx, pet)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdatePet replaces every field of an existing pet except its name.
func (s *Service) UpdatePet(ctx context.Context, input types.UpdatePetInput) (*types.PetProjection, error) {
	mutation := input.PetMutationInput
	name := input.PetIdentifier.Name
	mutation.Name = &name
	replacement, err := buildPetFromMutation(mutation)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.ReplaceByName(ctx, name, replacement)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetByName loads a single pet.
func (s *Service) GetByName(ctx context.Context, input types.PetIdentifier) (*types.PetProjection, error) {
	projection, err := s.repo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, mapError(err)
	}
	return projection, nil
}

// FindPets lists every pet, or only those matching the supplied predicates.
func (s *Service) FindPets(ctx context.Context, input types.FindPetsInput) ([]*types.PetProjection, error) {
	filter := domain.Filter{
		Type:      input.Type,
		Color:     input.Color,
		PriceFrom: input.PriceFrom,
		PriceTo:   input.PriceTo,
	}
	var (
		result []*types.PetProjection
		err    error
	)
	if filter.IsEmpty() {
		result, err = s.repo.List(ctx)
	} else {
		result, err = s.repo.FindByFilter(ctx, filter)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// Delete removes a pet. Unknown names succeed.
func (s *Service) Delete(ctx context.Context, input types.PetIdentifier) error {
	if err := s.repo.DeleteByName(ctx, input.Name); err != nil {
		return mapError(err)
	}
	return nil
}

// Clear empties the catalog.
func (s *Service) Clear(ctx context.Context) error {
	return mapError(s.repo.Clear(ctx))
}

func buildPetFromMutation(input types.PetMutationInput) (*domain.Pet, error) {
	if input.Name == nil {
		return nil, domain.ErrEmptyName
	}
	if input.Type == nil {
		return nil, domain.ErrEmptyType
	}
	if input.Color == nil {
		return nil, fmt.Errorf("%w: color", errMissingField)
	}
	if input.Price == nil {
		return nil, fmt.Errorf("%w: price", errMissingField)
	}
	return domain.NewPet(*input.Name, *input.Type, *input.Color, *input.Price)
}

var _ ports.Service = (*Service)(nil)
