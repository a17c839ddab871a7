// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/jellydator/validation"
	"github.com/jellydator/validation/is"
	"github.com/joho/godotenv"

	customValidation "github.com/allisson/vaultops/internal/validation"
)

// Config holds all application configuration.
type Config struct {
	// VaultAddress is the base URL of the remote secret service.
	VaultAddress string
	// VaultToken authenticates every request.
	VaultToken string
	// VaultNamespace is sent with every request when set.
	VaultNamespace string
	// VaultTimeout bounds a single HTTP round trip.
	VaultTimeout time.Duration
	// VaultMaxRetries is the number of retries for network failures and 5xx responses.
	VaultMaxRetries int

	// TransitMount is the mount path of the transit engine.
	TransitMount string
	// KVMount is the mount path of the versioned key-value engine.
	KVMount string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// RateLimitEnabled indicates whether outgoing requests are rate limited.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the sustained number of requests per second.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the number of requests allowed above the sustained rate.
	RateLimitBurst int

	// AsyncMaxInFlight bounds the calls running at once in the non-blocking model.
	AsyncMaxInFlight int

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// DevServerHost is the host address the development server binds to.
	DevServerHost string
	// DevServerPort is the port number the development server listens on.
	DevServerPort int
	// DevServerToken is the token the development server accepts.
	DevServerToken string
	// DevServerRateLimitEnabled enables per-token rate limiting on the development server.
	DevServerRateLimitEnabled bool
	// DevServerRateLimitRequestsPerSec is the per-token request rate on the development server.
	DevServerRateLimitRequestsPerSec float64
	// DevServerRateLimitBurst is the per-token burst on the development server.
	DevServerRateLimitBurst int
	// ShutdownTimeout bounds graceful shutdown of the servers.
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Remote service
		VaultAddress:    env.GetString("VAULT_ADDR", "http://127.0.0.1:8200"),
		VaultToken:      env.GetString("VAULT_TOKEN", ""),
		VaultNamespace:  env.GetString("VAULT_NAMESPACE", ""),
		VaultTimeout:    env.GetDuration("VAULT_TIMEOUT_SECONDS", 60, time.Second),
		VaultMaxRetries: env.GetInt("VAULT_MAX_RETRIES", 2),

		// Engines
		TransitMount: env.GetString("TRANSIT_MOUNT", "transit"),
		KVMount:      env.GetString("KV_MOUNT", "secret"),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Rate Limiting (outgoing requests)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", false),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 50.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 100),

		// Non-blocking calls
		AsyncMaxInFlight: env.GetInt("ASYNC_MAX_IN_FLIGHT", 16),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "vaultops"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// Development server
		DevServerHost:   env.GetString("DEV_SERVER_HOST", "127.0.0.1"),
		DevServerPort:   env.GetInt("DEV_SERVER_PORT", 8200),
		DevServerToken:  env.GetString("DEV_SERVER_TOKEN", "root"),
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 10, time.Second),

		DevServerRateLimitEnabled:        env.GetBool("DEV_SERVER_RATE_LIMIT_ENABLED", false),
		DevServerRateLimitRequestsPerSec: env.GetFloat64("DEV_SERVER_RATE_LIMIT_REQUESTS_PER_SEC", 100.0),
		DevServerRateLimitBurst:          env.GetInt("DEV_SERVER_RATE_LIMIT_BURST", 200),
	}
}

// Validate checks the configuration before any component is built.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.VaultAddress, validation.Required, is.URL),
		validation.Field(&c.VaultTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.VaultMaxRetries, validation.Min(0)),
		validation.Field(&c.VaultToken, customValidation.NoWhitespace),
		validation.Field(&c.TransitMount, validation.Required, customValidation.MountPath),
		validation.Field(&c.KVMount, validation.Required, customValidation.MountPath),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.RateLimitRequestsPerSec,
			validation.When(c.RateLimitEnabled, validation.Required, validation.Min(0.0))),
		validation.Field(&c.RateLimitBurst,
			validation.When(c.RateLimitEnabled, validation.Required, validation.Min(1))),
		validation.Field(&c.AsyncMaxInFlight, validation.Required, validation.Min(1)),
		validation.Field(&c.MetricsNamespace, validation.When(c.MetricsEnabled, validation.Required)),
		validation.Field(&c.MetricsPort, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.DevServerPort, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.DevServerRateLimitRequestsPerSec,
			validation.When(c.DevServerRateLimitEnabled, validation.Required, validation.Min(0.0))),
		validation.Field(&c.DevServerRateLimitBurst,
			validation.When(c.DevServerRateLimitEnabled, validation.Required, validation.Min(1))),
	)
	return customValidation.WrapValidationError(err)
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
