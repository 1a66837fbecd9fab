// Package observability provides OpenTelemetry tracing and metrics for
// pipeline terminal operations.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "pipeline.slice")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("my-service"))
//	metrics.RecordTerminal(ctx, "slice", 42, duration, nil)
package observability
