package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teemow/inboxdigest/internal/gmail"
	"github.com/teemow/inboxdigest/internal/instrumentation"
	"github.com/teemow/inboxdigest/internal/logging"
)

// DefaultBatchSize is the number of messages summarized per model request.
const DefaultBatchSize = 10

// Generator produces completion text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithLogger sets the logger used for per-chunk reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Summarizer) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(s *Summarizer) {
		s.metrics = metrics
	}
}

// Summarizer chunks messages and drives the generator.
type Summarizer struct {
	gen       Generator
	batchSize int
	logger    *slog.Logger
	metrics   *instrumentation.Metrics
}

// New creates a Summarizer. A non-positive batchSize falls back to
// DefaultBatchSize.
func New(gen Generator, batchSize int, opts ...Option) *Summarizer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	s := &Summarizer{
		gen:       gen,
		batchSize: batchSize,
		logger:    slog.Default(),
		metrics:   &instrumentation.Metrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize produces the digest text for the given messages, issuing
// ceil(len(msgs)/batchSize) generator requests. Partial summaries keep the
// original message order; a failed chunk is logged and replaced with a
// placeholder section.
func (s *Summarizer) Summarize(ctx context.Context, msgs []*gmail.Message) (string, error) {
	if len(msgs) == 0 {
		return "", fmt.Errorf("no messages to summarize")
	}

	chunks := chunkMessages(msgs, s.batchSize)
	sections := make([]string, 0, len(chunks))

	for i, chunk := range chunks {
		started := time.Now()
		text, err := s.gen.Generate(ctx, buildPrompt(chunk))
		if err != nil {
			s.logger.Error("chunk summarization failed",
				logging.Operation("summarize"),
				logging.Chunk(i),
				logging.Count(len(chunk)),
				logging.Err(err))
			s.metrics.RecordChunk(ctx, instrumentation.StatusError, time.Since(started))
			sections = append(sections, chunkPlaceholder(len(chunk)))
			continue
		}

		s.logger.Debug("chunk summarized",
			logging.Operation("summarize"),
			logging.Chunk(i),
			logging.Count(len(chunk)))
		s.metrics.RecordChunk(ctx, instrumentation.StatusSuccess, time.Since(started))
		sections = append(sections, strings.TrimSpace(text))
	}

	return strings.Join(sections, "\n\n"), nil
}

// chunkMessages splits msgs into consecutive groups of at most size
// messages, preserving order.
func chunkMessages(msgs []*gmail.Message, size int) [][]*gmail.Message {
	var chunks [][]*gmail.Message
	for start := 0; start < len(msgs); start += size {
		end := start + size
		if end > len(msgs) {
			end = len(msgs)
		}
		chunks = append(chunks, msgs[start:end])
	}
	return chunks
}

// chunkPlaceholder is the section emitted for a chunk whose summarization
// failed; the digest still reports that these messages existed.
func chunkPlaceholder(count int) string {
	return fmt.Sprintf("[Summary unavailable for %d message(s) in this section.]", count)
}
