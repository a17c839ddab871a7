package transport

import (
	"context"
	"strings"
	"time"

	"github.com/allisson/vaultops/internal/metrics"
)

// transportWithMetrics records one business metric per remote call.
type transportWithMetrics struct {
	next    Transport
	metrics metrics.BusinessMetrics
}

// NewTransportWithMetrics wraps next with metrics recording. The operation label is the
// method plus the engine operation ("post_transit_encrypt"), never the full path.
func NewTransportWithMetrics(next Transport, m metrics.BusinessMetrics) Transport {
	return &transportWithMetrics{next: next, metrics: m}
}

func (t *transportWithMetrics) Invoke(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := t.next.Invoke(ctx, req)
	metrics.Observe(ctx, t.metrics, "transport", operationLabel(req), start, err)
	return resp, err
}

// operationLabel keeps the first two path segments to bound label cardinality.
func operationLabel(req Request) string {
	segments := strings.SplitN(strings.Trim(req.Path, "/"), "/", 3)
	if len(segments) > 2 {
		segments = segments[:2]
	}
	return strings.ToLower(req.Method) + "_" + strings.Join(segments, "_")
}
