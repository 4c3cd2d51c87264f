package instrumentation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// pushJobName identifies this batch job on the Pushgateway.
const pushJobName = "inboxdigest"

// RunStats is a summary of a completed digest run, pushed to a
// Prometheus Pushgateway. A run-to-completion job has no scrape
// endpoint, so final counters are pushed instead.
type RunStats struct {
	// Duration is the total wall-clock time of the run.
	Duration time.Duration

	// Failed reports whether the run ended with an error.
	Failed bool

	// Listed is the number of unread messages found.
	Listed int

	// Fallbacks counts messages replaced with placeholder content.
	Fallbacks int

	// Sent reports whether a digest email was delivered.
	Sent bool

	// Acknowledged counts messages successfully marked as read.
	Acknowledged int

	// AckFailures counts messages that could not be marked as read.
	AckFailures int
}

// newRunRegistry builds a registry holding gauges for one run's stats.
func newRunRegistry(stats RunStats) *prometheus.Registry {
	registry := prometheus.NewRegistry()

	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inboxdigest_run_duration_seconds",
		Help: "Wall-clock duration of the last digest run.",
	})
	duration.Set(stats.Duration.Seconds())

	success := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inboxdigest_run_success",
		Help: "Whether the last digest run completed without error (1 or 0).",
	})
	if !stats.Failed {
		success.Set(1)
	}

	listed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inboxdigest_messages_listed",
		Help: "Number of unread messages found by the last run.",
	})
	listed.Set(float64(stats.Listed))

	fallbacks := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inboxdigest_message_fallbacks",
		Help: "Number of messages replaced with placeholder content in the last run.",
	})
	fallbacks.Set(float64(stats.Fallbacks))

	sent := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inboxdigest_digest_sent",
		Help: "Whether the last run delivered a digest email (1 or 0).",
	})
	if stats.Sent {
		sent.Set(1)
	}

	acked := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inboxdigest_messages_acknowledged",
		Help: "Number of messages marked as read by the last run.",
	})
	acked.Set(float64(stats.Acknowledged))

	ackFailures := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inboxdigest_ack_failures",
		Help: "Number of messages that could not be marked as read in the last run.",
	})
	ackFailures.Set(float64(stats.AckFailures))

	completed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inboxdigest_last_run_timestamp_seconds",
		Help: "Unix timestamp of the last completed digest run.",
	})
	completed.SetToCurrentTime()

	registry.MustRegister(duration, success, listed, fallbacks, sent, acked, ackFailures, completed)
	return registry
}

// PushRunMetrics pushes the run's final stats to a Prometheus
// Pushgateway at the given URL.
func PushRunMetrics(url string, stats RunStats) error {
	registry := newRunRegistry(stats)
	return push.New(url, pushJobName).Gatherer(registry).Push()
}
