// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/hashicorp/vault/api"
	secretsGo "gocloud.dev/secrets"
	"golang.org/x/time/rate"

	"github.com/allisson/vaultops/internal/async"
	"github.com/allisson/vaultops/internal/config"
	"github.com/allisson/vaultops/internal/http"
	"github.com/allisson/vaultops/internal/metrics"
	secretsUseCase "github.com/allisson/vaultops/internal/secrets/usecase"
	transitUseCase "github.com/allisson/vaultops/internal/transit/usecase"
	"github.com/allisson/vaultops/internal/transport"
	"github.com/allisson/vaultops/internal/vaultsim"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	vaultClient     *api.Client
	limiter         *rate.Limiter
	transport       transport.Transport
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	executor        *async.Executor

	// Use Cases
	transitUseCase transitUseCase.TransitUseCase
	kvUseCase      secretsUseCase.VersionedKVUseCase

	// Non-blocking facades
	asyncTransit *async.Transit
	asyncKV      *async.KV

	// Portable secrets
	keeperMux *secretsGo.URLMux

	// Servers
	devServer     *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	vaultClientInit     sync.Once
	limiterInit         sync.Once
	transportInit       sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	executorInit        sync.Once
	transitUseCaseInit  sync.Once
	kvUseCaseInit       sync.Once
	asyncTransitInit    sync.Once
	asyncKVInit         sync.Once
	keeperMuxInit       sync.Once
	devServerInit       sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// storeErr records an initialization error so later calls return it too.
func (c *Container) storeErr(key string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[key] = err
}

// loadErr returns the initialization error recorded for key, if any.
func (c *Container) loadErr(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[key]
}

// VaultClient returns the remote service API client.
func (c *Container) VaultClient() (*api.Client, error) {
	c.vaultClientInit.Do(func() {
		client, err := c.initVaultClient()
		if err != nil {
			c.storeErr("vaultClient", err)
			return
		}
		c.vaultClient = client
	})
	if err := c.loadErr("vaultClient"); err != nil {
		return nil, err
	}
	return c.vaultClient, nil
}

// RateLimiter returns the outgoing request limiter, or nil when rate limiting is disabled.
func (c *Container) RateLimiter() *rate.Limiter {
	c.limiterInit.Do(func() {
		if c.config.RateLimitEnabled {
			c.limiter = rate.NewLimiter(rate.Limit(c.config.RateLimitRequestsPerSec), c.config.RateLimitBurst)
		}
	})
	return c.limiter
}

// Transport returns the request transport shared by every use case.
func (c *Container) Transport() (transport.Transport, error) {
	c.transportInit.Do(func() {
		tr, err := c.initTransport()
		if err != nil {
			c.storeErr("transport", err)
			return
		}
		c.transport = tr
	})
	if err := c.loadErr("transport"); err != nil {
		return nil, err
	}
	return c.transport, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.storeErr("metricsProvider", fmt.Errorf("failed to create metrics provider: %w", err))
			return
		}
		c.metricsProvider = provider
	})
	if err := c.loadErr("metricsProvider"); err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// It returns a no-op recorder when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		bm, err := c.initBusinessMetrics()
		if err != nil {
			c.storeErr("businessMetrics", err)
			return
		}
		c.businessMetrics = bm
	})
	if err := c.loadErr("businessMetrics"); err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

// Executor returns the executor that runs non-blocking calls.
func (c *Container) Executor() *async.Executor {
	c.executorInit.Do(func() {
		c.executor = async.NewExecutor(int64(c.config.AsyncMaxInFlight), c.Logger())
	})
	return c.executor
}

// DevServer returns the development server hosting the in-memory simulator.
func (c *Container) DevServer() (*http.Server, error) {
	c.devServerInit.Do(func() {
		server, err := c.initDevServer()
		if err != nil {
			c.storeErr("devServer", err)
			return
		}
		c.devServer = server
	})
	if err := c.loadErr("devServer"); err != nil {
		return nil, err
	}
	return c.devServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.storeErr("metricsServer", fmt.Errorf("failed to get metrics provider for metrics server: %w", err))
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.DevServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err := c.loadErr("metricsServer"); err != nil {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	var shutdownErrors []error

	if c.devServer != nil {
		if err := c.devServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("dev server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Wait for in-flight non-blocking calls before the keepers and metrics go away
	if c.executor != nil {
		c.executor.Close()
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initVaultClient creates the API client from the remote service settings.
func (c *Container) initVaultClient() (*api.Client, error) {
	client, err := transport.NewVaultClient(transport.ClientOptions{
		Address:    c.config.VaultAddress,
		Token:      c.config.VaultToken,
		Namespace:  c.config.VaultNamespace,
		Timeout:    c.config.VaultTimeout,
		MaxRetries: c.config.VaultMaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	return client, nil
}

// initTransport builds the transport chain: API client, then metrics, then logging.
func (c *Container) initTransport() (transport.Transport, error) {
	client, err := c.VaultClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault client for transport: %w", err)
	}

	var tr transport.Transport = transport.NewVaultTransport(client, c.RateLimiter())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for transport: %w", err)
		}
		tr = transport.NewTransportWithMetrics(tr, businessMetrics)
	}

	return transport.NewLoggingTransport(tr, c.Logger()), nil
}

// initBusinessMetrics creates the business metrics recorder on the metrics provider.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), provider.Namespace())
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return bm, nil
}

// initDevServer creates the development server and its simulator.
func (c *Container) initDevServer() (*http.Server, error) {
	logger := c.Logger()

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for dev server: %w", err)
	}

	simulator := vaultsim.New(vaultsim.Options{
		Token:        c.config.DevServerToken,
		TransitMount: c.config.TransitMount,
		KVMount:      c.config.KVMount,
		Logger:       logger,
	})

	server := http.NewServer(simulator, c.config.DevServerHost, c.config.DevServerPort, logger)
	if c.config.DevServerRateLimitEnabled {
		server.EnableRateLimit(c.config.DevServerRateLimitRequestsPerSec, c.config.DevServerRateLimitBurst)
	}
	server.SetupRouter(provider)

	return server, nil
}
