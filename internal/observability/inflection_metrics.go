package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"inflectd/pkg/inflection"
)

// InflectionMetrics records engine activity. It satisfies inflection.Observer.
type InflectionMetrics struct {
	lookups         metric.Int64Counter
	compiles        metric.Int64Counter
	compileDuration metric.Float64Histogram
	matchers        metric.Int64Gauge
}

var _ inflection.Observer = (*InflectionMetrics)(nil)

// InitInflectionMetrics creates the instruments on the global meter provider.
func InitInflectionMetrics() (*InflectionMetrics, error) {
	return NewInflectionMetrics(otel.Meter("inflectd"))
}

// NewInflectionMetrics creates the instruments on meter.
func NewInflectionMetrics(meter metric.Meter) (*InflectionMetrics, error) {
	lookups, err := meter.Int64Counter(
		"inflection.lookups.total",
		metric.WithDescription("Total number of plural and singular lookups"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup counter: %w", err)
	}

	compiles, err := meter.Int64Counter(
		"inflection.compile.total",
		metric.WithDescription("Total number of rule recompilations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create compile counter: %w", err)
	}

	compileDuration, err := meter.Float64Histogram(
		"inflection.compile.duration",
		metric.WithDescription("Duration of rule recompilation in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create compile duration histogram: %w", err)
	}

	matchers, err := meter.Int64Gauge(
		"inflection.compiled.matchers",
		metric.WithDescription("Number of compiled matchers per direction"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create matcher gauge: %w", err)
	}

	return &InflectionMetrics{
		lookups:         lookups,
		compiles:        compiles,
		compileDuration: compileDuration,
		matchers:        matchers,
	}, nil
}

// ObserveLookup counts one lookup, split by direction and whether a rule matched.
func (m *InflectionMetrics) ObserveLookup(dir inflection.Direction, matched bool) {
	if m == nil {
		return
	}
	m.lookups.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("direction", dir.String()),
		attribute.Bool("matched", matched),
	))
}

// ObserveCompile records a recompilation of one direction.
func (m *InflectionMetrics) ObserveCompile(dir inflection.Direction, matchers int, took time.Duration) {
	if m == nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("direction", dir.String()))

	m.compiles.Add(ctx, 1, attrs)
	m.compileDuration.Record(ctx, float64(took.Microseconds())/1000, attrs)
	m.matchers.Record(ctx, int64(matchers), attrs)
}
