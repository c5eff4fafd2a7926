package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Apurer/go-gin-pet-api/internal/app/api"
	petspostgres "github.com/Apurer/go-gin-pet-api/internal/domains/pets/adapters/persistence/postgres"
	petsapp "github.com/Apurer/go-gin-pet-api/internal/domains/pets/application"
	"github.com/Apurer/go-gin-pet-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-pet-api/internal/platform/postgres"
)

func newRootCmd() *cobra.Command {
	v := api.NewViper()

	rootCmd := &cobra.Command{
		Use:               "petstore-api",
		Short:             "Petstore API server",
		Long:              "Petstore API server keeps a catalog of pets keyed by name and serves it over HTTP.",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return readConfigFile(v)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, v)
		},
	}
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("postgres-dsn", "", "PostgreSQL DSN; the in-memory store is used when empty")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	bindFlag(v, "config", rootCmd.PersistentFlags().Lookup("config"))
	bindFlag(v, api.KeyPostgresDSN, rootCmd.PersistentFlags().Lookup("postgres-dsn"))
	bindFlag(v, api.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(newServeCmd(v), newMigrateCmd(v), newSeedCmd(v))
	return rootCmd
}

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default command)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, v)
		},
	}
	cmd.Flags().String("port", "8080", "TCP port to listen on")
	cmd.Flags().String("seed-file", "", "YAML catalog loaded at startup")
	bindFlag(v, api.KeyPort, cmd.Flags().Lookup("port"))
	bindFlag(v, api.KeySeedFile, cmd.Flags().Lookup("seed-file"))
	return cmd
}

func runServe(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := api.LoadConfig(v)
	if err != nil {
		return err
	}
	return api.Run(cmd.Context(), cfg)
}

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := api.LoadConfig(v)
			if err != nil {
				return err
			}
			return api.Migrate(cmd.Context(), cfg, cliLogger(cfg))
		},
	}
}

func newSeedCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Load a YAML pet catalog into PostgreSQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := api.LoadConfig(v)
			if err != nil {
				return err
			}
			if cfg.PostgresDSN == "" {
				return fmt.Errorf("%s is required to seed", api.KeyPostgresDSN)
			}
			logger := cliLogger(cfg)
			ctx := cmd.Context()
			db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, platformpostgres.ConnectOptions{
				MaxElapsed: cfg.PostgresConnectTimeout,
				Logger:     logger,
			})
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer func() { _ = platformpostgres.Close(db) }()
			if err := migrations.Run(db.WithContext(ctx)); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			service := petsapp.NewService(petspostgres.NewRepository(db))
			return api.SeedFromFile(ctx, service, args[0], logger)
		},
	}
}

func readConfigFile(v *viper.Viper) error {
	path := v.GetString("config")
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func cliLogger(cfg api.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		slog.Error("Error binding flag", "key", key, "error", err)
	}
}
