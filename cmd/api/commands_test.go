package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "seed"})
}

func TestMigrateCmd_RequiresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	err := execute(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres_dsn")
}

func TestSeedCmd_Arguments(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	require.Error(t, execute(t, "seed"))

	err := execute(t, "seed", "pets.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres_dsn")
}

func TestServeCmd_RejectsInvalidPort(t *testing.T) {
	err := execute(t, "serve", "--port", "not-a-port")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestRootCmd_ReadsConfigFile(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "petstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"0x50\"\n"), 0o600))

	err := execute(t, "--config", path, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0x50")

	require.Error(t, execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "migrate"))
}
