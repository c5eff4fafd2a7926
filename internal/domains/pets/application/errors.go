package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/domain"
	"github.com/Apurer/go-gin-pet-api/internal/domains/pets/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid pet input")
	// ErrConflict signals the request clashes with an existing pet.
	ErrConflict = errors.New("pet conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyType) ||
		errors.Is(err, errMissingField) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrAlreadyExists) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
