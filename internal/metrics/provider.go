// Package metrics records client and simulator metrics with OpenTelemetry and exposes
// them in Prometheus format.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Provider owns the meter provider and the private Prometheus registry it exports to.
//
// Besides the instruments created through MeterProvider, the registry carries the Go
// runtime collector and a process collector prefixed with the namespace, so a scrape of
// the metrics server describes the CLI or dev server process as well as its calls.
type Provider struct {
	namespace     string
	meterProvider *metric.MeterProvider
	registry      *prometheus.Registry

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewProvider creates a provider for namespace (e.g. "vaultops").
//
// Parameters:
//   - namespace: prefix of the process collector and of every instrument created by
//     NewBusinessMetrics and HTTPMetricsMiddleware for this provider
//
// Returns an error when the exporter or a collector cannot be registered.
func NewProvider(namespace string) (*Provider, error) {
	registry := prometheus.NewRegistry()

	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}
	processCollector := collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace})
	if err := registry.Register(processCollector); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
		promexporter.WithoutTargetInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	return &Provider{
		namespace:     namespace,
		meterProvider: metric.NewMeterProvider(metric.WithReader(exporter)),
		registry:      registry,
	}, nil
}

// Namespace returns the prefix the provider was created with.
func (p *Provider) Namespace() string {
	return p.namespace
}

// Handler serves the registry in Prometheus exposition format. A collector that fails
// during a scrape is reported in the response instead of failing the whole scrape.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// MeterProvider returns the OpenTelemetry meter provider backing the registry.
func (p *Provider) MeterProvider() *metric.MeterProvider {
	return p.meterProvider
}

// Shutdown stops the meter provider. It is safe to call more than once; later calls
// return the result of the first.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.shutdownOnce.Do(func() {
		if p.meterProvider != nil {
			p.shutdownErr = p.meterProvider.Shutdown(ctx)
		}
	})
	return p.shutdownErr
}
