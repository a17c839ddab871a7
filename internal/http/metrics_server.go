package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/vaultops/internal/metrics"
)

// MetricsServer exposes a metrics.Provider on its own port, apart from the simulated API,
// so scrapes are neither rate limited nor counted as API requests.
type MetricsServer struct {
	server   *http.Server
	logger   *slog.Logger
	provider *metrics.Provider
}

// NewMetricsServer creates a server for provider with two routes:
//   - GET /metrics: the provider's registry in Prometheus exposition format
//   - GET /health: liveness plus the namespace the metrics are published under
func NewMetricsServer(
	host string,
	port int,
	logger *slog.Logger,
	provider *metrics.Provider,
) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))

	router.GET("/metrics", gin.WrapH(provider.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "namespace": provider.Namespace()})
	})

	return &MetricsServer{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger:   logger,
		provider: provider,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *MetricsServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called.
func (s *MetricsServer) Start(ctx context.Context) error {
	s.logger.Info("starting metrics server",
		slog.String("addr", s.server.Addr),
		slog.String("namespace", s.provider.Namespace()))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}
	return nil
}

// Shutdown stops accepting scrapes, then shuts the provider down so nothing is recorded
// after the last scrape. Shutting the provider down again later is a no-op.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	return errors.Join(s.server.Shutdown(ctx), s.provider.Shutdown(ctx))
}
