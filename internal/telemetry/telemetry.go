// Package telemetry wires the detector and controller into OpenTelemetry:
// one span per IsStuck call, one counter increment per loop type, and one
// counter for controller reconcile ticks. The global providers are
// no-ops until Init is called, so instrumented code is always safe to
// import and exercise in tests without a collector present.
//
// Grounded on the teacher's package-level tracer/meter var + init()
// metric-registration pattern (internal/storage/dolt/store.go's
// doltTracer/doltMetrics), generalized from a SQL storage backend to the
// detector/controller call path, with providers constructed from the
// OTel SDK's own documented stdout-exporter shape (the teacher's go.mod
// lists the stdout exporters directly but no single file wires them).
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/steveyegge/stuckdetector/internal/telemetry"

var (
	tracer = otel.Tracer(instrumentationName)

	stuckChecks    metric.Int64Counter
	loopDetected   metric.Int64Counter
	reconcileTicks metric.Int64Counter
)

func init() {
	m := otel.Meter(instrumentationName)
	stuckChecks, _ = m.Int64Counter("stuckdetector.checks",
		metric.WithDescription("IsStuck calls performed"),
		metric.WithUnit("{check}"),
	)
	loopDetected, _ = m.Int64Counter("stuckdetector.loops_detected",
		metric.WithDescription("stuck loops detected, by loop type"),
		metric.WithUnit("{loop}"),
	)
	reconcileTicks, _ = m.Int64Counter("stuckdetector.controller.reconcile_ticks",
		metric.WithDescription("controller reconcile passes performed"),
		metric.WithUnit("{tick}"),
	)
}

// Providers holds the constructed SDK providers so callers can flush and
// shut them down cleanly.
type Providers struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// Init installs stdout-exporting tracer and meter providers as the OTel
// globals, writing encoded spans and metrics to w. Passing io.Discard is
// the usual choice for tests, since the provider still exercises the
// real SDK machinery without producing visible output. stuckdetectord
// calls Init only when telemetry is enabled.
func Init(ctx context.Context, w io.Writer) (*Providers, error) {
	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("telemetry: new trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExporter))
	otel.SetTracerProvider(tp)

	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("telemetry: new metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)))
	otel.SetMeterProvider(mp)

	return &Providers{tracerProvider: tp, meterProvider: mp}, nil
}

// Shutdown flushes and stops both providers, in trace-then-metric order
// so pending spans aren't dropped mid-metric-export.
func (p *Providers) Shutdown(ctx context.Context) error {
	if err := p.tracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("telemetry: shutdown tracer provider: %w", err)
	}
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("telemetry: shutdown meter provider: %w", err)
	}
	return nil
}

// StuckCheck wraps a single IsStuck call in a span, records a
// stuckdetector.checks increment, and on a hit a
// stuckdetector.loops_detected increment tagged with the loop type.
func StuckCheck(ctx context.Context, sessionID string, check func(ctx context.Context) (loopType string, stuck bool)) (string, bool) {
	ctx, span := tracer.Start(ctx, "detector.is_stuck",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("session.id", sessionID)),
	)
	defer span.End()

	loopType, stuck := check(ctx)
	stuckChecks.Add(ctx, 1, metric.WithAttributes(attribute.String("session.id", sessionID)))

	if stuck {
		span.SetAttributes(attribute.String("loop.type", loopType))
		span.SetStatus(codes.Ok, "stuck loop detected")
		loopDetected.Add(ctx, 1, metric.WithAttributes(attribute.String("loop.type", loopType)))
	}
	return loopType, stuck
}

// ReconcileTick records one controller reconcile pass.
func ReconcileTick(ctx context.Context) {
	reconcileTicks.Add(ctx, 1)
}
