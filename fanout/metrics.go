package fanout

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds fan-out metrics using OTEL semantic conventions
type Metrics struct {
	queryDuration  metric.Float64Histogram
	machinesListed metric.Int64Counter
	failures       metric.Int64Counter
}

// NewMetrics creates fan-out metrics following OTEL semantic conventions
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("skyctl.fanout")

	queryDuration, err := meter.Float64Histogram(
		"skyctl.fanout.query.duration",
		metric.WithDescription("Duration of per-datacenter queries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	machinesListed, err := meter.Int64Counter(
		"skyctl.fanout.machines.listed",
		metric.WithDescription("Number of machines returned by datacenters"),
		metric.WithUnit("{machine}"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"skyctl.fanout.failures",
		metric.WithDescription("Number of failed datacenter queries"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		queryDuration:  queryDuration,
		machinesListed: machinesListed,
		failures:       failures,
	}, nil
}

// recordBatch records one successful datacenter outcome
func (m *Metrics) recordBatch(ctx context.Context, dc string, machines int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("datacenter", dc))
	m.queryDuration.Record(ctx, elapsed.Seconds(), attrs)
	m.machinesListed.Add(ctx, int64(machines), attrs)
}

// recordFailure records one failed datacenter outcome
func (m *Metrics) recordFailure(ctx context.Context, dc string, kind ErrorKind, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.queryDuration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(attribute.String("datacenter", dc)))
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("datacenter", dc),
		attribute.String("kind", string(kind)),
	))
}
