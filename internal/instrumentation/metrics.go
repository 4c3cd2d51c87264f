package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrStatus = "status"
	attrResult = "result"
)

// Metrics provides methods for recording observability metrics. The zero
// value is a valid no-op recorder.
type Metrics struct {
	runsTotal       metric.Int64Counter
	runDuration     metric.Float64Histogram
	messagesListed  metric.Int64Counter
	messagesFetched metric.Int64Counter
	chunksTotal     metric.Int64Counter
	chunkDuration   metric.Float64Histogram
	sendsTotal      metric.Int64Counter
	sendDuration    metric.Float64Histogram
	acksTotal       metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.runsTotal, err = meter.Int64Counter(
		"digest_runs_total",
		metric.WithDescription("Total number of digest runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest_runs_total counter: %w", err)
	}

	m.runDuration, err = meter.Float64Histogram(
		"digest_run_duration_seconds",
		metric.WithDescription("Digest run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0, 300.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest_run_duration_seconds histogram: %w", err)
	}

	m.messagesListed, err = meter.Int64Counter(
		"messages_listed_total",
		metric.WithDescription("Total number of unread messages listed"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_listed_total counter: %w", err)
	}

	m.messagesFetched, err = meter.Int64Counter(
		"messages_fetched_total",
		metric.WithDescription("Total number of messages fetched"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_fetched_total counter: %w", err)
	}

	m.chunksTotal, err = meter.Int64Counter(
		"summary_chunks_total",
		metric.WithDescription("Total number of summarization chunk requests"),
		metric.WithUnit("{chunk}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary_chunks_total counter: %w", err)
	}

	m.chunkDuration, err = meter.Float64Histogram(
		"summary_chunk_duration_seconds",
		metric.WithDescription("Summarization chunk request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary_chunk_duration_seconds histogram: %w", err)
	}

	m.sendsTotal, err = meter.Int64Counter(
		"digest_sends_total",
		metric.WithDescription("Total number of digest send attempts"),
		metric.WithUnit("{send}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest_sends_total counter: %w", err)
	}

	m.sendDuration, err = meter.Float64Histogram(
		"digest_send_duration_seconds",
		metric.WithDescription("Digest send duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest_send_duration_seconds histogram: %w", err)
	}

	m.acksTotal, err = meter.Int64Counter(
		"messages_acknowledged_total",
		metric.WithDescription("Total number of acknowledgment attempts"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_acknowledged_total counter: %w", err)
	}

	return m, nil
}

// RecordRun records one digest run with its status and duration.
func (m *Metrics) RecordRun(ctx context.Context, status string, duration time.Duration) {
	if m.runsTotal == nil || m.runDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := metric.WithAttributes(attribute.String(attrStatus, status))
	m.runsTotal.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordMessagesListed records how many unread messages a run found.
func (m *Metrics) RecordMessagesListed(ctx context.Context, n int) {
	if m.messagesListed == nil {
		return
	}
	m.messagesListed.Add(ctx, int64(n))
}

// RecordFetch records one fetched message. Result is "ok" or "fallback".
func (m *Metrics) RecordFetch(ctx context.Context, result string) {
	if m.messagesFetched == nil {
		return
	}
	m.messagesFetched.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordChunk records one summarization chunk request.
func (m *Metrics) RecordChunk(ctx context.Context, status string, duration time.Duration) {
	if m.chunksTotal == nil || m.chunkDuration == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrStatus, status))
	m.chunksTotal.Add(ctx, 1, attrs)
	m.chunkDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordSend records one digest send attempt.
func (m *Metrics) RecordSend(ctx context.Context, status string, duration time.Duration) {
	if m.sendsTotal == nil || m.sendDuration == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrStatus, status))
	m.sendsTotal.Add(ctx, 1, attrs)
	m.sendDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordAck records one acknowledgment attempt.
func (m *Metrics) RecordAck(ctx context.Context, status string) {
	if m.acksTotal == nil {
		return
	}
	m.acksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}
