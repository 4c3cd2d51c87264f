// Package instrumentation provides OpenTelemetry metrics and tracing for
// inboxdigest.
//
// A digest run is a short-lived batch process, so the package supports
// push-style exporters only: OTLP over HTTP and stdout (for debugging).
// Pending telemetry is flushed when the provider is shut down at the end
// of the run. For Prometheus setups, end-of-run counters can additionally
// be pushed to a Pushgateway.
//
// Configuration comes from the standard OTEL_* environment variables, see
// DefaultConfig. Instrumentation is disabled by default; a cron job should
// not emit telemetry unless asked to.
package instrumentation
