// Package observability provides OpenTelemetry metrics and tracing for
// flowpipe pipes.
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("flowpipe"))
//	defer mp.Shutdown(ctx)
//
//	m, err := observability.NewPipeMetrics(observability.Meter("flowpipe"))
//	p, err := pipe.New(src, pipe.WithMetrics(m))
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("flowpipe"))
//	defer tp.Shutdown(ctx)
//
//	p, err := pipe.New(src, pipe.WithTracer(observability.Tracer("flowpipe")))
package observability
