// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// PlacesConfig provides settings for the places search gateway.
type PlacesConfig interface {
	GetGoogleMapsAPIKey() string
	GetDefaultRadiusMeters() int
	GetMaxResultsDefault() int
	GetPlacesTextSearchURL() string
	GetPlacesTimeout() time.Duration
}

const (
	defaultTextSearchURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"

	// MaxResultsLimit is the upper bound for max_results accepted by the gateway.
	MaxResultsLimit = 20
)

// =============================================================================
// Config Struct
// =============================================================================

// Config holds all application configuration.
// It is read once at startup and never mutated afterwards.
type Config struct {
	Env            string
	HTTPAddr       string
	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	GoogleMapsAPIKey    string
	DefaultRadiusMeters int
	MaxResultsDefault   int
	PlacesTextSearchURL string
	PlacesTimeout       time.Duration
}

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// PlacesConfig implementation
func (c *Config) GetGoogleMapsAPIKey() string     { return c.GoogleMapsAPIKey }
func (c *Config) GetDefaultRadiusMeters() int     { return c.DefaultRadiusMeters }
func (c *Config) GetMaxResultsDefault() int       { return c.MaxResultsDefault }
func (c *Config) GetPlacesTextSearchURL() string  { return c.PlacesTextSearchURL }
func (c *Config) GetPlacesTimeout() time.Duration { return c.PlacesTimeout }

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "*"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	radius, err := strconv.Atoi(getEnv("DEFAULT_RADIUS_METERS", "2500"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_RADIUS_METERS must be an integer: %w", err)
	}
	maxResults, err := strconv.Atoi(getEnv("MAX_RESULTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("MAX_RESULTS must be an integer: %w", err)
	}
	timeout, err := time.ParseDuration(getEnv("PLACES_TIMEOUT", "20s"))
	if err != nil {
		return nil, fmt.Errorf("PLACES_TIMEOUT must be a duration: %w", err)
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		CORSAllowCreds:      strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		GoogleMapsAPIKey:    strings.TrimSpace(getEnv("GOOGLE_MAPS_API_KEY", "")),
		DefaultRadiusMeters: radius,
		MaxResultsDefault:   maxResults,
		PlacesTextSearchURL: getEnv("PLACES_TEXTSEARCH_URL", defaultTextSearchURL),
		PlacesTimeout:       timeout,
	}

	if cfg.GoogleMapsAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY is required")
	}
	if cfg.DefaultRadiusMeters <= 0 {
		return nil, fmt.Errorf("DEFAULT_RADIUS_METERS must be positive")
	}
	if cfg.MaxResultsDefault < 1 || cfg.MaxResultsDefault > MaxResultsLimit {
		return nil, fmt.Errorf("MAX_RESULTS must be between 1 and %d", MaxResultsLimit)
	}
	if cfg.PlacesTimeout <= 0 {
		return nil, fmt.Errorf("PLACES_TIMEOUT must be positive")
	}
	if !cfg.CORSAllowAll && len(cfg.CORSOrigins) == 0 {
		return nil, fmt.Errorf("CORS_ORIGINS must list at least one origin or *")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
