package metrics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// catchAll is the wildcard the simulator registers its API under.
const catchAll = "*path"

type httpMetrics struct {
	requestCounter metric.Int64Counter
	durationHisto  metric.Float64Histogram
}

// HTTPMetricsMiddleware returns a Gin middleware recording request count and duration
// with method, route and status_code labels. The simulated API is served from a single
// catch-all route, so its route label is reduced to mount and endpoint (see RouteLabel).
// Instrument creation failures disable recording instead of failing the router.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	m, err := newHTTPMetrics(meterProvider.Meter(namespace), namespace)
	if err != nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.record(c, time.Since(start))
	}
}

func newHTTPMetrics(meter metric.Meter, namespace string) (*httpMetrics, error) {
	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{requestCounter: requestCounter, durationHisto: durationHisto}, nil
}

func (m *httpMetrics) record(c *gin.Context, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", c.Request.Method),
		attribute.String("route", RouteLabel(c.FullPath(), c.Request.URL.Path)),
		attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
	)
	m.requestCounter.Add(c.Request.Context(), 1, attrs)
	m.durationHisto.Record(c.Request.Context(), duration.Seconds(), attrs)
}

// RouteLabel returns a bounded route label for a request.
//
// Unmatched requests are "unknown" and named routes keep their pattern. Requests served by
// a catch-all route keep the mount and endpoint segments; one trailing segment becomes
// ":name" and longer remainders become "*path", so key names and secret paths never
// reach a label:
//
//	/v1/transit/keys            -> /v1/transit/keys
//	/v1/transit/encrypt/orders  -> /v1/transit/encrypt/:name
//	/v1/secret/data/app/db      -> /v1/secret/data/*path
func RouteLabel(fullPath, requestPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	prefix, ok := strings.CutSuffix(fullPath, catchAll)
	if !ok {
		return fullPath
	}

	rest := strings.Trim(strings.TrimPrefix(requestPath, prefix), "/")
	if rest == "" {
		return strings.TrimSuffix(prefix, "/")
	}

	segments := strings.Split(rest, "/")
	switch {
	case len(segments) <= 2:
		return prefix + rest
	case len(segments) == 3:
		return prefix + segments[0] + "/" + segments[1] + "/:name"
	default:
		return prefix + segments[0] + "/" + segments[1] + "/" + catchAll
	}
}
