// Package observability provides structured-logging, metrics, and
// tracing helpers in the teacher's own style: klog for structured logs,
// a prometheus registry for counters and histograms, and an otel tracer
// for spans. The CLI driver and the algorithm layer call klog directly
// and do not import this package.
package observability

import (
	"context"

	"k8s.io/klog/v2"
)

// WithLogger returns ctx with a named klog.Logger attached, mirroring the
// teacher's klog.FromContext/klog.NewContext threading through Balance
// and the plugin's other entry points.
func WithLogger(ctx context.Context, name string) (context.Context, klog.Logger) {
	logger := klog.FromContext(ctx).WithName(name)
	return klog.NewContext(ctx, logger), logger
}

// Logger extracts the klog.Logger already attached to ctx, or the global
// default if none was attached.
func Logger(ctx context.Context) klog.Logger {
	return klog.FromContext(ctx)
}
