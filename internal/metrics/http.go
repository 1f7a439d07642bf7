package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PrincipalClassifier names the kind of caller behind a finished request
// ("anonymous", "user", "token"). It is evaluated after the handler chain ran.
type PrincipalClassifier func(c *gin.Context) string

// HTTPMetricsMiddleware records request counts and latencies labelled with
// method, route pattern, status code and caller kind. A nil classifier labels
// every request "unknown".
func HTTPMetricsMiddleware(
	meterProvider metric.MeterProvider,
	namespace string,
	classify PrincipalClassifier,
) gin.HandlerFunc {
	meter := meterProvider.Meter(namespace)
	passthrough := func(c *gin.Context) { c.Next() }

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passthrough
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return passthrough
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		principal := "unknown"
		if classify != nil {
			principal = classify(c)
		}

		opts := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", routePattern(c.FullPath())),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
			attribute.String("principal", principal),
		)
		requestCounter.Add(c.Request.Context(), 1, opts)
		durationHisto.Record(c.Request.Context(), time.Since(start).Seconds(), opts)
	}
}

// routePattern keeps label cardinality bounded: unmatched routes become "unknown".
func routePattern(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
