package pipe

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/flowpipe/logger"
	"github.com/kbukum/flowpipe/observability"
)

type options struct {
	name    string
	ctx     context.Context
	log     *logger.Logger
	metrics *observability.PipeMetrics
	tracer  trace.Tracer
}

// Option configures a pipe.
type Option func(*options)

// WithName sets the name used in logs, metrics and stats.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithContext sets the context passed to metric and trace calls.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithLogger sets the logger. Defaults to the global "pipe" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records hop activity on m.
func WithMetrics(m *observability.PipeMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracer records a span for each Start and Stop.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}
