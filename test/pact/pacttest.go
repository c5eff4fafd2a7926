//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "petstore-api"
	ConsumerName = "pet-portal"

	StatePetsBaseline = "pets baseline"
	StatePetExists    = "pet Baymax exists"
	StatePetMissing   = "no pet named Ghost"
	StatePetsSearch   = "dogs and cats exist for search queries"
)

const (
	ExistingPetName = "Baymax"
	MissingPetName  = "Ghost"
	SearchPetName   = "JinMao"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the pet portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExamplePetPayload provides stable test data for pact interactions.
func ExamplePetPayload() map[string]any {
	return map[string]any{
		"name":  ExistingPetName,
		"type":  "dog",
		"color": "white",
		"price": 1000,
	}
}

// SearchPetPayloads lists the catalog seeded for search interactions, in insertion order.
func SearchPetPayloads() []map[string]any {
	return []map[string]any{
		{"name": SearchPetName, "type": "dog", "color": "white", "price": 5000},
		{"name": "Buou", "type": "cat", "color": "gray", "price": 3000},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
