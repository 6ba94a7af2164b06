// Package otel provides OpenTelemetry instrumentation for transports.
//
// Wrap any courier.Transport to get spans and metrics around each send
// without the backend knowing about telemetry.
package otel

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jfernandez/courier"
)

const (
	instrumentationName = "github.com/jfernandez/courier/transport/otel"
)

// Transport wraps a courier.Transport with OpenTelemetry instrumentation.
type Transport struct {
	backend courier.Transport
	opts    *options

	// Tracing
	tracer trace.Tracer

	// Metrics
	sendLatency metric.Float64Histogram
	sendCount   metric.Int64Counter
	sendErrors  metric.Int64Counter
}

// Compile-time check that Transport implements courier.Transport.
var _ courier.Transport = (*Transport)(nil)

// New creates a new OTel-instrumented transport wrapping the given backend.
func New(backend courier.Transport, opts ...Option) (*Transport, error) {
	o := newOptions(opts...)

	t := &Transport{
		backend: backend,
		opts:    o,
	}

	if o.tracingEnabled {
		t.tracer = o.tracerProvider.Tracer(instrumentationName)
	}

	if o.metricsEnabled {
		if err := t.initMetrics(o.meterProvider); err != nil {
			return nil, fmt.Errorf("init metrics: %w", err)
		}
	}

	return t, nil
}

// initMetrics initializes all metric instruments.
func (t *Transport) initMetrics(mp metric.MeterProvider) error {
	meter := mp.Meter(instrumentationName)

	var err error

	t.sendLatency, err = meter.Float64Histogram(
		"courier.send.duration",
		metric.WithDescription("Duration of send operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	t.sendCount, err = meter.Int64Counter(
		"courier.send.count",
		metric.WithDescription("Number of emails sent"),
	)
	if err != nil {
		return err
	}

	t.sendErrors, err = meter.Int64Counter(
		"courier.send.errors",
		metric.WithDescription("Number of send errors"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Send delegates to the wrapped transport, recording a span and metrics.
// Ownership semantics are unchanged: the email is consumed by the backend.
func (t *Transport) Send(ctx context.Context, email *courier.SendableEmail) error {
	attrs := []attribute.KeyValue{
		attribute.String("courier.transport", t.opts.transportName),
		attribute.Int("courier.recipients", len(email.Envelope().To())),
	}

	if t.tracer != nil {
		var span trace.Span
		ctx, span = t.tracer.Start(ctx, "courier.send",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		err := t.timedSend(ctx, email, attrs)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}

	return t.timedSend(ctx, email, attrs)
}

// timedSend performs the backend send and records metrics.
func (t *Transport) timedSend(ctx context.Context, email *courier.SendableEmail, attrs []attribute.KeyValue) error {
	start := time.Now()
	err := t.backend.Send(ctx, email)
	elapsed := time.Since(start).Seconds()

	if t.sendLatency != nil {
		opt := metric.WithAttributes(attrs...)
		t.sendLatency.Record(ctx, elapsed, opt)
		t.sendCount.Add(ctx, 1, opt)
		if err != nil {
			t.sendErrors.Add(ctx, 1, opt)
		}
	}

	return err
}
