// Package logging provides structured logging utilities for inboxdigest.
//
// It centralizes slog attribute construction so log entries use consistent
// keys across the pipeline, and sanitizes PII before it reaches the logs:
// recipient addresses are hashed, tokens are never logged directly.
package logging
