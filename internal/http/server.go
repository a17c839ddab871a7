// Package http provides the development HTTP server that hosts the service simulator.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/vaultops/internal/metrics"
	"github.com/allisson/vaultops/internal/vaultsim"
)

// Server represents the development HTTP server.
type Server struct {
	server    *http.Server
	router    *gin.Engine
	logger    *slog.Logger
	simulator *vaultsim.Simulator

	rateLimitRPS   float64
	rateLimitBurst int
	ctx            context.Context
	cancel         context.CancelFunc
}

// NewServer creates a new development server for simulator.
func NewServer(
	simulator *vaultsim.Simulator,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		logger:    logger,
		simulator: simulator,
		ctx:       ctx,
		cancel:    cancel,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// EnableRateLimit limits each client token to rps requests per second with the given burst.
// It must be called before SetupRouter.
func (s *Server) EnableRateLimit(rps float64, burst int) {
	s.rateLimitRPS = rps
	s.rateLimitBurst = burst
}

// SetupRouter configures the Gin router with middleware, health checks and the simulated API.
// HTTP metrics are recorded under the provider's namespace when metricsProvider is non-nil.
func (s *Server) SetupRouter(metricsProvider *metrics.Provider) {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsProvider.Namespace()))
	}

	if s.rateLimitBurst > 0 {
		router.Use(RateLimitMiddleware(s.ctx, s.rateLimitRPS, s.rateLimitBurst, s.logger))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	if s.simulator != nil {
		s.simulator.Register(router)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		s.SetupRouter(nil)
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	s.cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if s.simulator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"simulator": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"simulator": "ok"},
	})
}
