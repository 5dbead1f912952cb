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

// GeocodeConfig provides settings for the geocoding proxy.
type GeocodeConfig interface {
	GetGeocodeBaseURL() string
	GetGeocodeUserAgent() string
	GetGeocodeLanguage() string
	GetGeocodeCountries() []string
	GetGeocodeLimit() int
	GetGeocodeMinQueryLen() int
	GetGeocodeViewbox() string
	GetGeocodeStrict() bool
	GetGeocodeCacheTTL() time.Duration
	GetGeocodeCacheSize() int
}

// ValuationConfig provides settings for the valuation config source.
type ValuationConfig interface {
	GetValuationConfigURL() string
	GetValuationConfigTimeout() time.Duration
	GetValuationConfigTTL() time.Duration
}

// LeadsConfig provides settings for the lead relay.
type LeadsConfig interface {
	GetLeadsWebhookURL() string
	GetLeadsWebhookSecret() string
	GetLeadsWebhookTimeout() time.Duration
}

// RedisConfig provides settings for the optional Redis cache.
type RedisConfig interface {
	GetRedisURL() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	GeocodeBaseURL         string
	GeocodeUserAgent       string
	GeocodeLanguage        string
	GeocodeCountries       []string
	GeocodeLimit           int
	GeocodeMinQueryLen     int
	GeocodeViewbox         string
	GeocodeStrict          bool
	GeocodeCacheTTL        time.Duration
	GeocodeCacheSize       int
	RedisURL               string
	ValuationConfigURL     string
	ValuationConfigTimeout time.Duration
	ValuationConfigTTL     time.Duration
	LeadsWebhookURL        string
	LeadsWebhookSecret     string
	LeadsWebhookTimeout    time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// GeocodeConfig implementation
func (c *Config) GetGeocodeBaseURL() string         { return c.GeocodeBaseURL }
func (c *Config) GetGeocodeUserAgent() string       { return c.GeocodeUserAgent }
func (c *Config) GetGeocodeLanguage() string        { return c.GeocodeLanguage }
func (c *Config) GetGeocodeCountries() []string     { return c.GeocodeCountries }
func (c *Config) GetGeocodeLimit() int              { return c.GeocodeLimit }
func (c *Config) GetGeocodeMinQueryLen() int        { return c.GeocodeMinQueryLen }
func (c *Config) GetGeocodeViewbox() string         { return c.GeocodeViewbox }
func (c *Config) GetGeocodeStrict() bool            { return c.GeocodeStrict }
func (c *Config) GetGeocodeCacheTTL() time.Duration { return c.GeocodeCacheTTL }
func (c *Config) GetGeocodeCacheSize() int          { return c.GeocodeCacheSize }

// ValuationConfig implementation
func (c *Config) GetValuationConfigURL() string            { return c.ValuationConfigURL }
func (c *Config) GetValuationConfigTimeout() time.Duration { return c.ValuationConfigTimeout }
func (c *Config) GetValuationConfigTTL() time.Duration     { return c.ValuationConfigTTL }

// LeadsConfig implementation
func (c *Config) GetLeadsWebhookURL() string            { return c.LeadsWebhookURL }
func (c *Config) GetLeadsWebhookSecret() string         { return c.LeadsWebhookSecret }
func (c *Config) GetLeadsWebhookTimeout() time.Duration { return c.LeadsWebhookTimeout }

// RedisConfig implementation
func (c *Config) GetRedisURL() string { return c.RedisURL }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		GeocodeBaseURL:         getEnv("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org/search"),
		GeocodeUserAgent:       getEnv("GEOCODE_USER_AGENT", "VivendaValorador/1.0 (contacto@vivenda.es)"),
		GeocodeLanguage:        getEnv("GEOCODE_LANGUAGE", "es"),
		GeocodeCountries:       splitCSV(strings.ToLower(getEnv("GEOCODE_COUNTRIES", "es"))),
		GeocodeLimit:           mustInt(getEnv("GEOCODE_LIMIT", "8"), 8),
		GeocodeMinQueryLen:     mustInt(getEnv("GEOCODE_MIN_QUERY_LEN", "4"), 4),
		GeocodeViewbox:         getEnv("GEOCODE_VIEWBOX", "-4.80,40.60,-3.20,39.65"),
		GeocodeStrict:          strings.EqualFold(getEnv("GEOCODE_STRICT", "false"), "true"),
		GeocodeCacheTTL:        mustDuration(getEnv("GEOCODE_CACHE_TTL", "15m"), 15*time.Minute),
		GeocodeCacheSize:       mustInt(getEnv("GEOCODE_CACHE_SIZE", "512"), 512),
		RedisURL:               getEnv("REDIS_URL", ""),
		ValuationConfigURL:     getEnv("VALUATION_CONFIG_URL", ""),
		ValuationConfigTimeout: mustDuration(getEnv("VALUATION_CONFIG_TIMEOUT", "5s"), 5*time.Second),
		ValuationConfigTTL:     mustDuration(getEnv("VALUATION_CONFIG_TTL", "5m"), 5*time.Minute),
		LeadsWebhookURL:        getEnv("LEADS_WEBHOOK_URL", ""),
		LeadsWebhookSecret:     getEnv("LEADS_WEBHOOK_SECRET", ""),
		LeadsWebhookTimeout:    mustDuration(getEnv("LEADS_WEBHOOK_TIMEOUT", "10s"), 10*time.Second),
	}

	if cfg.GeocodeUserAgent == "" {
		return nil, fmt.Errorf("GEOCODE_USER_AGENT is required by the geocoding provider usage policy")
	}
	if cfg.GeocodeLimit < 1 || cfg.GeocodeLimit > 50 {
		return nil, fmt.Errorf("GEOCODE_LIMIT must be between 1 and 50")
	}
	if len(cfg.GeocodeCountries) == 0 {
		return nil, fmt.Errorf("GEOCODE_COUNTRIES must list at least one country code")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	// LEADS_WEBHOOK_URL/SECRET are intentionally not required at startup: the
	// lead endpoint reports the misconfiguration per request instead of
	// preventing the rest of the API from serving.

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func mustInt(value string, fallback int) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return result
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
