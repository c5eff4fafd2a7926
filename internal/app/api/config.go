package api

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"

	platformobservability "github.com/Apurer/go-gin-pet-api/internal/platform/observability"
)

// Configuration keys. Each one is also read from the upper-cased environment
// variable of the same name, e.g. POSTGRES_DSN.
const (
	KeyPort                   = "port"
	KeyEnvironment            = "environment"
	KeyLogLevel               = "log_level"
	KeyPostgresDSN            = "postgres_dsn"
	KeyPostgresConnectTimeout = "postgres_connect_timeout"
	KeyTemporalAddress        = "temporal_address"
	KeyTemporalNamespace      = "temporal_namespace"
	KeyTemporalDisabled       = "temporal_disabled"
	KeySeedFile               = "pets_seed_file"
	KeyShutdownTimeout        = "shutdown_timeout"
	KeyTraceExporter          = "otel_traces_exporter"
	KeyOTLPEndpoint           = "otel_exporter_otlp_endpoint"
	KeyOTLPInsecure           = "otel_exporter_otlp_insecure"
)

// Config carries the settings for the API and worker processes.
type Config struct {
	Port                   string
	Environment            string
	LogLevel               slog.Level
	PostgresDSN            string
	PostgresConnectTimeout time.Duration
	TemporalAddress        string
	TemporalNamespace      string
	TemporalDisabled       bool
	SeedFile               string
	ShutdownTimeout        time.Duration
	TraceExporter          string
	OTLPEndpoint           string
	OTLPInsecure           bool
}

// NewViper returns a viper instance with defaults and environment binding set up.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyEnvironment, "local")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyPostgresDSN, "")
	v.SetDefault(KeyPostgresConnectTimeout, "15s")
	v.SetDefault(KeyTemporalAddress, client.DefaultHostPort)
	v.SetDefault(KeyTemporalNamespace, client.DefaultNamespace)
	v.SetDefault(KeyTemporalDisabled, "false")
	v.SetDefault(KeySeedFile, "")
	v.SetDefault(KeyShutdownTimeout, "10s")
	v.SetDefault(KeyTraceExporter, platformobservability.TraceExporterOTLP)
	v.SetDefault(KeyOTLPEndpoint, "")
	v.SetDefault(KeyOTLPInsecure, "true")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads v, applies defaults, and validates basic constraints.
func LoadConfig(v *viper.Viper) (Config, error) {
	if v == nil {
		v = NewViper()
	}
	cfg := Config{
		Port:              strings.TrimSpace(v.GetString(KeyPort)),
		Environment:       strings.TrimSpace(v.GetString(KeyEnvironment)),
		PostgresDSN:       strings.TrimSpace(v.GetString(KeyPostgresDSN)),
		TemporalAddress:   strings.TrimSpace(v.GetString(KeyTemporalAddress)),
		TemporalNamespace: strings.TrimSpace(v.GetString(KeyTemporalNamespace)),
		TemporalDisabled:  isTruthy(v.GetString(KeyTemporalDisabled)),
		SeedFile:          strings.TrimSpace(v.GetString(KeySeedFile)),
		TraceExporter:     strings.TrimSpace(v.GetString(KeyTraceExporter)),
		OTLPEndpoint:      strings.TrimSpace(v.GetString(KeyOTLPEndpoint)),
		OTLPInsecure:      isTruthy(v.GetString(KeyOTLPInsecure)),
	}
	if port, err := strconv.Atoi(cfg.Port); err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("%s must be a TCP port, got %q", KeyPort, cfg.Port)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	var err error
	if cfg.ShutdownTimeout, err = positiveDuration(v, KeyShutdownTimeout); err != nil {
		return Config{}, err
	}
	if cfg.PostgresConnectTimeout, err = positiveDuration(v, KeyPostgresConnectTimeout); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Observability converts the config into observability settings for service.
func (c Config) Observability(service string) platformobservability.Settings {
	return platformobservability.Settings{
		ServiceName:   service,
		Environment:   c.Environment,
		TraceExporter: c.TraceExporter,
		OTLPEndpoint:  c.OTLPEndpoint,
		OTLPInsecure:  c.OTLPInsecure,
		LogLevel:      c.LogLevel,
	}
}

func positiveDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return d, nil
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
