// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Catalog backends.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// DefaultJWTSigningKey is used when JWT_SIGNING_KEY is unset outside production.
const DefaultJWTSigningKey = "local-dev-signing-key-change-in-production"

// Config holds all application configuration shared by the binaries.
type Config struct {
	Port string
	Env  string

	OTelEnabled     bool
	OTLPEndpoint    string
	OTelSampleRatio float64

	// RequireTLS rejects requests a load balancer reports as plain HTTP.
	RequireTLS bool

	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	// CatalogBackend is "postgres" or "memory".
	CatalogBackend string
	// CatalogSeedOnStartup fills an empty catalog at boot.
	CatalogSeedOnStartup bool
	// CatalogSeed fixes the generator seed; zero picks a random one.
	CatalogSeed uint64
	// CatalogScored populates desirability scores on generated records.
	CatalogScored bool

	PubSubProjectID    string
	PubSubTopic        string
	PubSubSubscription string

	// RegenerateInterval drives the worker's fallback ticker; zero disables it.
	RegenerateInterval time.Duration
}

// Load reads a .env file when present, then the environment.
// A missing .env file is not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	seed, err := getUintEnv("CATALOG_SEED", 0)
	if err != nil {
		return nil, err
	}
	interval, err := getDurationEnv("REGENERATE_INTERVAL", 0)
	if err != nil {
		return nil, err
	}
	sampleRatio, err := getFloatEnv("OTEL_SAMPLE_RATIO", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                 getEnv("APP_PORT", "8080"),
		Env:                  getEnv("APP_ENV", "development"),
		OTelEnabled:          getBoolEnv("OTEL_ENABLED", false),
		OTLPEndpoint:         getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelSampleRatio:      sampleRatio,
		RequireTLS:           getBoolEnv("REQUIRE_TLS", false),
		JWTSigningKey:        getEnv("JWT_SIGNING_KEY", ""),
		JWTIssuer:            getEnv("JWT_ISSUER", "travelwits"),
		JWTAudience:          getEnv("JWT_AUDIENCE", "travelwits-ops"),
		CatalogBackend:       strings.ToLower(getEnv("CATALOG_BACKEND", BackendPostgres)),
		CatalogSeedOnStartup: getBoolEnv("CATALOG_SEED_ON_STARTUP", true),
		CatalogSeed:          seed,
		CatalogScored:        getBoolEnv("CATALOG_SCORED", true),
		PubSubProjectID:      getEnv("PUBSUB_PROJECT_ID", ""),
		PubSubTopic:          getEnv("PUBSUB_TOPIC", "catalog-jobs"),
		PubSubSubscription:   getEnv("PUBSUB_SUBSCRIPTION", ""),
		RegenerateInterval:   interval,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction returns true when running in production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PubSubEnabled reports whether a Pub/Sub project is configured.
func (c *Config) PubSubEnabled() bool {
	return c.PubSubProjectID != ""
}

// SigningKey returns the JWT signing key, falling back to the development
// key outside production.
func (c *Config) SigningKey() string {
	if c.JWTSigningKey == "" {
		return DefaultJWTSigningKey
	}
	return c.JWTSigningKey
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var problems []string

	if c.CatalogBackend != BackendPostgres && c.CatalogBackend != BackendMemory {
		problems = append(problems, fmt.Sprintf("CATALOG_BACKEND must be %q or %q", BackendPostgres, BackendMemory))
	}
	if c.IsProduction() && c.JWTSigningKey == "" {
		problems = append(problems, "JWT_SIGNING_KEY is required in production")
	}
	if c.OTelSampleRatio < 0 || c.OTelSampleRatio > 1 {
		problems = append(problems, "OTEL_SAMPLE_RATIO must be between 0 and 1")
	}
	if c.RegenerateInterval < 0 {
		problems = append(problems, "REGENERATE_INTERVAL must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getUintEnv(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloatEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
