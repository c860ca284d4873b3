// Package config loads configuration for the standalone fake appliance
// (cmd/appliance) from CLI flags and environment variables, validates
// it, and provides sensible defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the appliance server configuration.
type Config struct {
	// Server settings
	ListenAddr string
	BaseURL    string

	// Fixture seeding
	SeedCount int    // providers created at startup
	SeedZone  string // zone assigned to seeded providers
}

// ValidationError represents a configuration validation error with
// multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// ParseFlags parses CLI flags and returns them. Call before LoadConfig.
func ParseFlags() (addr string, seed int) {
	flag.StringVar(&addr, "addr", "", "Listen address (default :8080, overrides LISTEN_ADDR env var)")
	flag.IntVar(&seed, "seed", -1, "Number of providers to seed at startup (overrides SEED_COUNT env var)")
	flag.Parse()
	return addr, seed
}

// LoadConfig loads configuration from environment variables and CLI
// flag values. Flag values override env vars when set.
func LoadConfig(addr string, seed int) (*Config, error) {
	cfg := &Config{}

	cfg.ListenAddr = getEnvOrDefault("LISTEN_ADDR", ":8080")
	if addr != "" {
		cfg.ListenAddr = addr
	}
	cfg.BaseURL = strings.TrimSpace(os.Getenv("BASE_URL"))
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost" + cfg.ListenAddr
	}

	cfg.SeedCount = parseIntOrDefault("SEED_COUNT", 0)
	if seed >= 0 {
		cfg.SeedCount = seed
	}
	cfg.SeedZone = getEnvOrDefault("SEED_ZONE", "default")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.ListenAddr) == "" {
		errs = append(errs, "listen address must not be empty")
	}
	if c.SeedCount < 0 {
		errs = append(errs, "SEED_COUNT must not be negative")
	}
	if c.SeedCount > 1000 {
		errs = append(errs, "SEED_COUNT above 1000 makes the listing unusable")
	}
	if strings.TrimSpace(c.SeedZone) == "" {
		errs = append(errs, "SEED_ZONE must not be empty")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// PrintStartupSummary prints a human-readable summary of the
// configuration to stderr.
func (c *Config) PrintStartupSummary() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "fake appliance starting...")
	fmt.Fprintf(os.Stderr, "  Listen:  %s\n", c.ListenAddr)
	fmt.Fprintf(os.Stderr, "  Base:    %s\n", c.BaseURL)
	fmt.Fprintf(os.Stderr, "  Seed:    %d providers (zone %q)\n", c.SeedCount, c.SeedZone)
	fmt.Fprintln(os.Stderr, "")
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// MustLoadConfig loads configuration and panics if validation fails.
// Use this in main() to fail fast on bad config.
func MustLoadConfig(addr string, seed int) *Config {
	cfg, err := LoadConfig(addr, seed)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			panic(validationErr.Error())
		}
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	return cfg
}
