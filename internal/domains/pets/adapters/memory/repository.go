package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/domain"
	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/ports"
	"github.com/Apurer/go-gin-pet-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory pet store. Entries are kept in insertion order and
// looked up by linear scan.
type Repository struct {
	mu      sync.RWMutex
	entries []*storedPet
	now     func() time.Time
}

type storedPet struct {
	pet      *domain.Pet
	metadata projection.Metadata
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{now: time.Now}
}

// WithClock overrides the timestamp source, mainly for tests.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	if now != nil {
		r.mu.Lock()
		r.now = now
		r.mu.Unlock()
	}
	return r
}

// Add appends a pet at the end of the listing.
func (r *Repository) Add(_ context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error) {
	if pet == nil {
		return nil, errors.New("cannot add nil pet")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(pet.Name) >= 0 {
		return nil, ports.ErrAlreadyExists
	}
	timestamp := r.now()
	stored := &storedPet{
		pet:      pet.Clone(),
		metadata: projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp},
	}
	r.entries = append(r.entries, stored)
	return projectionCopy(stored), nil
}

// GetByName fetches a pet if present.
func (r *Repository) GetByName(_ context.Context, name string) (*projection.Projection[*domain.Pet], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexOf(name)
	if idx < 0 {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(r.entries[idx]), nil
}

// List returns all pets in insertion order.
func (r *Repository) List(_ context.Context) ([]*projection.Projection[*domain.Pet], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*projection.Projection[*domain.Pet], 0, len(r.entries))
	for _, entry := range r.entries {
		list = append(list, projectionCopy(entry))
	}
	return list, nil
}

// FindByFilter returns the pets matching every predicate of filter, in insertion order.
func (r *Repository) FindByFilter(_ context.Context, filter domain.Filter) ([]*projection.Projection[*domain.Pet], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*projection.Projection[*domain.Pet], 0)
	for _, entry := range r.entries {
		if filter.Matches(entry.pet) {
			list = append(list, projectionCopy(entry))
		}
	}
	return list, nil
}

// ReplaceByName swaps the details of the named pet, keeping its position and name.
func (r *Repository) ReplaceByName(_ context.Context, name string, pet *domain.Pet) (*projection.Projection[*domain.Pet], error) {
	if pet == nil {
		return nil, errors.New("cannot replace with nil pet")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(name)
	if idx < 0 {
		return nil, ports.ErrNotFound
	}
	entry := r.entries[idx]
	replacement := entry.pet.Clone()
	replacement.ReplaceDetails(pet)
	r.entries[idx] = &storedPet{
		pet:      replacement,
		metadata: projection.Metadata{CreatedAt: entry.metadata.CreatedAt, UpdatedAt: r.now()},
	}
	return projectionCopy(r.entries[idx]), nil
}

// DeleteByName removes a pet. Missing names are ignored.
func (r *Repository) DeleteByName(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(name)
	if idx < 0 {
		return nil
	}
	r.entries = append(r.entries[:idx], r.entries[idx+1:]...)
	return nil
}

// Clear drops every pet.
func (r *Repository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	return nil
}

// indexOf must be called with r.mu held.
func (r *Repository) indexOf(name string) int {
	for i, entry := range r.entries {
		if entry.pet.Name == name {
			return i
		}
	}
	return -1
}

func projectionCopy(entry *storedPet) *projection.Projection[*domain.Pet] {
	return &projection.Projection[*domain.Pet]{
		Entity:   entry.pet.Clone(),
		Metadata: entry.metadata,
	}
}
