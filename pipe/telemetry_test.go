package pipe

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/flowpipe/logger"
	"github.com/kbukum/flowpipe/observability"
)

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != name {
				continue
			}
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s: expected Sum[int64], got %T", name, md.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestPipeMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := observability.NewPipeMetrics(mp.Meter("pipe-test"))
	if err != nil {
		t.Fatalf("NewPipeMetrics failed: %v", err)
	}

	src, buf, p := build(t, 2, WithMetrics(m), WithName("metered"))
	for i := 0; i < 3; i++ {
		src.Emit(i)
	}
	buf.Clear()
	src.End()

	tests := []struct {
		name string
		want int64
	}{
		{"flowpipe.items.written", 3},
		{"flowpipe.pauses", 1},
		{"flowpipe.resumes", 1},
		{"flowpipe.ends", 1},
		{"flowpipe.active", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collectSum(t, reader, tt.name); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}

	// Repeated starts count the pipe once; stop releases it
	p.Start()
	p.Stop()
	p.Stop()
	if got := collectSum(t, reader, "flowpipe.active"); got != 0 {
		t.Errorf("expected 0 active after stop, got %d", got)
	}
}

func TestLifecycleSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	_, _, p := build(t, 2, WithTracer(tp.Tracer("pipe-test")))
	p.Stop()

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name() != observability.SpanPipeStart || spans[1].Name() != observability.SpanPipeStop {
		t.Errorf("unexpected span names %q, %q", spans[0].Name(), spans[1].Name())
	}

	var found bool
	for _, kv := range spans[0].Attributes() {
		if string(kv.Key) == observability.AttrPipeID && kv.Value.AsString() == p.ID() {
			found = true
		}
	}
	if !found {
		t.Error("expected pipe id attribute on start span")
	}
}

func TestMisuseSpanStatus(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	src := &recordingSource{}
	p, _ := New[int](src, WithTracer(tp.Tracer("pipe-test")), WithLogger(logger.Nop()))
	if err := p.Start(); err == nil {
		t.Fatal("expected error starting an open pipe")
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Description != "PIPE_NOT_READY" {
		t.Errorf("expected PIPE_NOT_READY status, got %q", spans[0].Status().Description)
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected the error to be recorded on the span")
	}
}
