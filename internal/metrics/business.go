package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics records client operation metrics for the transit, kv and transport layers.
type BusinessMetrics interface {
	// RecordOperation counts one operation.
	// Domain examples: "transit", "kv", "transport"
	// Operation examples: "transit_encrypt_batch", "kv_put", "post_transit_encrypt"
	// Status examples: "success", "error"
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records the duration of an operation in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

// BatchMetrics is implemented by BusinessMetrics that also count batch items by outcome.
// A batch call succeeds as a whole even when some of its items fail, so item outcomes are
// only visible through this counter.
type BatchMetrics interface {
	RecordBatchItems(ctx context.Context, domain, operation string, succeeded, failed int)
}

type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	batchItemCounter metric.Int64Counter
}

// NewBusinessMetrics creates BusinessMetrics publishing, under the namespace prefix:
//   - <namespace>_operations_total{domain, operation, status}
//   - <namespace>_operation_duration_seconds{domain, operation, status}
//   - <namespace>_batch_items_total{domain, operation, result}
//
// The returned value also implements BatchMetrics.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of client operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of client operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	batchItemCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_batch_items_total", namespace),
		metric.WithDescription("Total number of batch items by result"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch item counter: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		batchItemCounter: batchItemCounter,
	}, nil
}

func operationAttributes(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1, operationAttributes(domain, operation, status))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(), operationAttributes(domain, operation, status))
}

// RecordBatchItems adds succeeded and failed to the item counter. Zero counts are skipped.
func (b *businessMetrics) RecordBatchItems(ctx context.Context, domain, operation string, succeeded, failed int) {
	for result, n := range map[string]int{"success": succeeded, "failure": failed} {
		if n <= 0 {
			continue
		}
		b.batchItemCounter.Add(ctx, int64(n), metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("result", result),
		))
	}
}

// Status returns the status label for an operation result: "success" or "error".
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Observe records both the count and the duration of an operation that started at start.
func Observe(ctx context.Context, m BusinessMetrics, domain, operation string, start time.Time, err error) {
	status := Status(err)
	m.RecordOperation(ctx, domain, operation, status)
	m.RecordDuration(ctx, domain, operation, time.Since(start), status)
}

// ObserveBatchItems records item outcomes when m implements BatchMetrics.
func ObserveBatchItems(ctx context.Context, m BusinessMetrics, domain, operation string, succeeded, failed int) {
	if bm, ok := m.(BatchMetrics); ok {
		bm.RecordBatchItems(ctx, domain, operation, succeeded, failed)
	}
}

// NoOpBusinessMetrics discards everything; used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}

func (n *NoOpBusinessMetrics) RecordBatchItems(ctx context.Context, domain, operation string, succeeded, failed int) {}
