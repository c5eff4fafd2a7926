// Package seed loads an initial pet catalog from a YAML document.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	petsapp "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application"
	petstypes "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application/types"
	petsports "github.com/Apurer/go-gin-pet-api/internal/domains/pets/ports"
)

// Document is the on-disk layout:
//
//	pets:
//	  - name: Baymax
//	    type: dog
//	    color: white
//	    price: 1000
type Document struct {
	Pets []Pet `yaml:"pets"`
}

// Pet is one seeded entry. Pointers keep missing keys distinguishable so the
// service can reject them the same way it rejects an HTTP payload.
type Pet struct {
	Name  *string `yaml:"name"`
	Type  *string `yaml:"type"`
	Color *string `yaml:"color"`
	Price *int64  `yaml:"price"`
}

// Result summarises an Apply run.
type Result struct {
	Added   int
	Skipped int
}

// Decode parses a seed document. Unknown keys are rejected.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, nil
		}
		return Document{}, fmt.Errorf("decode seed document: %w", err)
	}
	return doc, nil
}

// LoadFile reads and decodes the seed document at path.
func LoadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Apply adds every pet of doc through service. Names that already exist are
// skipped so seeding can run against a populated store; any other failure
// stops the run.
func Apply(ctx context.Context, service petsports.Service, doc Document, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var result Result
	for i, p := range doc.Pets {
		input := petstypes.AddPetInput{PetMutationInput: petstypes.PetMutationInput{
			Name:  p.Name,
			Type:  p.Type,
			Color: p.Color,
			Price: p.Price,
		}}
		_, err := service.AddPet(ctx, input)
		switch {
		case errors.Is(err, petsapp.ErrConflict):
			result.Skipped++
			logger.InfoContext(ctx, "seed pet already present", slog.Int("index", i), slog.String("name", deref(p.Name)))
		case err != nil:
			return result, fmt.Errorf("seed pet #%d (%s): %w", i, deref(p.Name), err)
		default:
			result.Added++
		}
	}
	logger.InfoContext(ctx, "seed applied", slog.Int("added", result.Added), slog.Int("skipped", result.Skipped))
	return result, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
