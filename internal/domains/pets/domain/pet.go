package domain

import (
	"errors"
	"strings"
)

// Pet represents the record managed by the pets bounded context. Name is the
// identity of a pet inside the catalog.
type Pet struct {
	Name  string
	Type  string
	Color string
	Price int64
}

var (
	ErrEmptyName = errors.New("pet name is required")
	ErrEmptyType = errors.New("pet type is required")
)

// NewPet validates the invariants and builds a new Pet.
func NewPet(name, petType, color string, price int64) (*Pet, error) {
	p := &Pet{}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.Retype(petType); err != nil {
		return nil, err
	}
	p.Recolor(color)
	p.Reprice(price)
	return p, nil
}

// Rename mutates the pet name ensuring the invariant.
func (p *Pet) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// Retype changes the pet type.
func (p *Pet) Retype(petType string) error {
	if strings.TrimSpace(petType) == "" {
		return ErrEmptyType
	}
	p.Type = petType
	return nil
}

func (p *Pet) Recolor(color string) {
	p.Color = color
}

func (p *Pet) Reprice(price int64) {
	p.Price = price
}

// ReplaceDetails overwrites everything but the name with the values of other.
func (p *Pet) ReplaceDetails(other *Pet) {
	if other == nil {
		return
	}
	p.Type = other.Type
	p.Color = other.Color
	p.Price = other.Price
}

// Equal reports structural equality over all fields.
func (p *Pet) Equal(other *Pet) bool {
	if p == nil || other == nil {
		return p == other
	}
	return *p == *other
}

// Clone returns a copy that shares no state with p.
func (p *Pet) Clone() *Pet {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
