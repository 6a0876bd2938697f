package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "muxman"

// Metrics holds all OTEL metric instruments for muxman.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// Commands counts tmux invocations, partitioned by op.
	Commands metric.Int64Counter
	// Failures counts failed tmux invocations, partitioned by op and
	// failure kind (unavailable, command, parse).
	Failures metric.Int64Counter
	// ParseWarnings counts per-line listing anomalies skipped during parsing.
	ParseWarnings metric.Int64Counter
	// Refreshes counts snapshot refreshes performed by the TUI.
	Refreshes metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Commands, err = meter.Int64Counter("tmux.commands",
		metric.WithDescription("Total tmux invocations partitioned by op"))
	if err != nil {
		return nil, err
	}

	m.Failures, err = meter.Int64Counter("tmux.failures",
		metric.WithDescription("Failed tmux invocations partitioned by op and kind"))
	if err != nil {
		return nil, err
	}

	m.ParseWarnings, err = meter.Int64Counter("tmux.parse_warnings",
		metric.WithDescription("Listing lines skipped as malformed or orphaned"))
	if err != nil {
		return nil, err
	}

	m.Refreshes, err = meter.Int64Counter("tui.refreshes",
		metric.WithDescription("Snapshot refreshes performed by the interactive UI"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// CountCommand records one tmux invocation.
func (m *Metrics) CountCommand(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.Commands.Add(ctx, 1, metric.WithAttributes(attribute.String("tmux.op", op)))
}

// CountFailure records one failed tmux invocation.
func (m *Metrics) CountFailure(ctx context.Context, op, kind string) {
	if m == nil {
		return
	}
	m.Failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tmux.op", op),
		attribute.String("failure.kind", kind),
	))
}

// CountWarnings records parse warnings from one listing.
func (m *Metrics) CountWarnings(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.ParseWarnings.Add(ctx, int64(n))
}

// CountRefresh records one TUI snapshot refresh.
func (m *Metrics) CountRefresh(ctx context.Context) {
	if m == nil {
		return
	}
	m.Refreshes.Add(ctx, 1)
}
