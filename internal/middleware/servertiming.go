package middleware

import (
	"context"
	"net/http"

	servertiming "github.com/mitchellh/go-server-timing"
)

// ServerTimingMiddleware attaches a timing header to the request context and
// writes collected metrics as a Server-Timing response header
func ServerTimingMiddleware(next http.Handler) http.Handler {
	return servertiming.Middleware(next, nil)
}

// Timing is a running Server-Timing metric
type Timing struct {
	metric *servertiming.Metric
}

// Stop ends the metric. Safe on a no-op Timing.
func (t *Timing) Stop() {
	if t != nil && t.metric != nil {
		t.metric.Stop()
	}
}

// StartTiming starts a metric named name when the request carries timing
// information, and a no-op Timing otherwise
func StartTiming(ctx context.Context, name, desc string) *Timing {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return &Timing{}
	}

	metric := timing.NewMetric(name)
	if desc != "" {
		metric = metric.WithDesc(desc)
	}
	return &Timing{metric: metric.Start()}
}
