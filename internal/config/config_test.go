package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/vaultops/internal/errors"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://127.0.0.1:8200", cfg.VaultAddress)
				assert.Empty(t, cfg.VaultToken)
				assert.Equal(t, 60*time.Second, cfg.VaultTimeout)
				assert.Equal(t, 2, cfg.VaultMaxRetries)
				assert.Equal(t, "transit", cfg.TransitMount)
				assert.Equal(t, "secret", cfg.KVMount)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.False(t, cfg.RateLimitEnabled)
				assert.False(t, cfg.DevServerRateLimitEnabled)
				assert.Equal(t, 200, cfg.DevServerRateLimitBurst)
				assert.Equal(t, 16, cfg.AsyncMaxInFlight)
				assert.True(t, cfg.MetricsEnabled)
				assert.Equal(t, "vaultops", cfg.MetricsNamespace)
				assert.Equal(t, 8200, cfg.DevServerPort)
				assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
			},
		},
		{
			name: "load custom remote configuration",
			envVars: map[string]string{
				"VAULT_ADDR":            "https://vault.internal:8200",
				"VAULT_TOKEN":           "s.abc",
				"VAULT_NAMESPACE":       "team-a",
				"VAULT_TIMEOUT_SECONDS": "5",
				"VAULT_MAX_RETRIES":     "0",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://vault.internal:8200", cfg.VaultAddress)
				assert.Equal(t, "s.abc", cfg.VaultToken)
				assert.Equal(t, "team-a", cfg.VaultNamespace)
				assert.Equal(t, 5*time.Second, cfg.VaultTimeout)
				assert.Equal(t, 0, cfg.VaultMaxRetries)
			},
		},
		{
			name: "load custom mounts",
			envVars: map[string]string{
				"TRANSIT_MOUNT": "encryption",
				"KV_MOUNT":      "kv",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "encryption", cfg.TransitMount)
				assert.Equal(t, "kv", cfg.KVMount)
			},
		},
		{
			name: "load custom rate limit configuration",
			envVars: map[string]string{
				"RATE_LIMIT_ENABLED":          "true",
				"RATE_LIMIT_REQUESTS_PER_SEC": "2.5",
				"RATE_LIMIT_BURST":            "5",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.RateLimitEnabled)
				assert.Equal(t, 2.5, cfg.RateLimitRequestsPerSec)
				assert.Equal(t, 5, cfg.RateLimitBurst)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "debug", cfg.GetGinMode())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			// Load configuration
			cfg := Load()

			// Validate
			tt.validate(t, cfg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		os.Clearenv()
		return Load()
	}

	t.Run("Success_Defaults", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{name: "Error_EmptyAddress", mutate: func(cfg *Config) { cfg.VaultAddress = "" }},
		{name: "Error_InvalidAddress", mutate: func(cfg *Config) { cfg.VaultAddress = "not a url" }},
		{name: "Error_NegativeRetries", mutate: func(cfg *Config) { cfg.VaultMaxRetries = -1 }},
		{name: "Error_EmptyTransitMount", mutate: func(cfg *Config) { cfg.TransitMount = "" }},
		{name: "Error_InvalidKVMount", mutate: func(cfg *Config) { cfg.KVMount = "/secret/" }},
		{name: "Error_TokenWithWhitespace", mutate: func(cfg *Config) { cfg.VaultToken = " root" }},
		{name: "Error_UnknownLogLevel", mutate: func(cfg *Config) { cfg.LogLevel = "trace" }},
		{name: "Error_ZeroInFlight", mutate: func(cfg *Config) { cfg.AsyncMaxInFlight = 0 }},
		{name: "Error_RateLimitWithoutBurst", mutate: func(cfg *Config) {
			cfg.RateLimitEnabled = true
			cfg.RateLimitBurst = 0
		}},
		{name: "Error_DevServerRateLimitWithoutBurst", mutate: func(cfg *Config) {
			cfg.DevServerRateLimitEnabled = true
			cfg.DevServerRateLimitBurst = 0
		}},
		{name: "Error_PortOutOfRange", mutate: func(cfg *Config) { cfg.DevServerPort = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}
