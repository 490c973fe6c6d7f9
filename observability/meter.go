package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/flowpipe/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string `mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `mapstructure:"endpoint"`
	// Insecure allows insecure connections (for development).
	Insecure bool `mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `mapstructure:"interval"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// PipeMetrics holds the instruments recorded by pipes. A nil *PipeMetrics
// records nothing.
type PipeMetrics struct {
	written     metric.Int64Counter
	writeErrors metric.Int64Counter
	pauses      metric.Int64Counter
	resumes     metric.Int64Counter
	ends        metric.Int64Counter
	active      metric.Int64UpDownCounter
}

// NewPipeMetrics creates pipe instruments on the given meter.
func NewPipeMetrics(meter metric.Meter) (*PipeMetrics, error) {
	written, err := meter.Int64Counter("flowpipe.items.written",
		metric.WithDescription("Items written to a hop's sink"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flowpipe.items.written counter: %w", err)
	}

	writeErrors, err := meter.Int64Counter("flowpipe.write.errors",
		metric.WithDescription("Writes rejected by a hop's sink"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flowpipe.write.errors counter: %w", err)
	}

	pauses, err := meter.Int64Counter("flowpipe.pauses",
		metric.WithDescription("Upstream pauses caused by a full sink"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flowpipe.pauses counter: %w", err)
	}

	resumes, err := meter.Int64Counter("flowpipe.resumes",
		metric.WithDescription("Upstream resumes caused by a sink drain"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flowpipe.resumes counter: %w", err)
	}

	ends, err := meter.Int64Counter("flowpipe.ends",
		metric.WithDescription("End-of-stream signals forwarded to a hop's sink"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flowpipe.ends counter: %w", err)
	}

	active, err := meter.Int64UpDownCounter("flowpipe.active",
		metric.WithDescription("Number of started pipes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flowpipe.active gauge: %w", err)
	}

	return &PipeMetrics{
		written:     written,
		writeErrors: writeErrors,
		pauses:      pauses,
		resumes:     resumes,
		ends:        ends,
		active:      active,
	}, nil
}

func hopAttrs(pipe string, hop int) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("pipe", pipe),
		attribute.Int("hop", hop),
	)
}

// RecordWrite records one item written on a hop.
func (m *PipeMetrics) RecordWrite(ctx context.Context, pipe string, hop int) {
	if m == nil {
		return
	}
	m.written.Add(ctx, 1, hopAttrs(pipe, hop))
}

// RecordWriteError records one failed write on a hop.
func (m *PipeMetrics) RecordWriteError(ctx context.Context, pipe string, hop int) {
	if m == nil {
		return
	}
	m.writeErrors.Add(ctx, 1, hopAttrs(pipe, hop))
}

// RecordPause records an upstream pause on a hop.
func (m *PipeMetrics) RecordPause(ctx context.Context, pipe string, hop int) {
	if m == nil {
		return
	}
	m.pauses.Add(ctx, 1, hopAttrs(pipe, hop))
}

// RecordResume records an upstream resume on a hop.
func (m *PipeMetrics) RecordResume(ctx context.Context, pipe string, hop int) {
	if m == nil {
		return
	}
	m.resumes.Add(ctx, 1, hopAttrs(pipe, hop))
}

// RecordEnd records an end-of-stream forwarded on a hop.
func (m *PipeMetrics) RecordEnd(ctx context.Context, pipe string, hop int) {
	if m == nil {
		return
	}
	m.ends.Add(ctx, 1, hopAttrs(pipe, hop))
}

// RecordActive adjusts the number of started pipes by delta.
func (m *PipeMetrics) RecordActive(ctx context.Context, pipe string, delta int64) {
	if m == nil {
		return
	}
	m.active.Add(ctx, delta, metric.WithAttributes(attribute.String("pipe", pipe)))
}
