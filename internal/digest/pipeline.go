package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/inboxdigest/internal/gmail"
	"github.com/teemow/inboxdigest/internal/instrumentation"
	"github.com/teemow/inboxdigest/internal/logging"
	"github.com/teemow/inboxdigest/internal/ses"
)

// DefaultMaxMessages caps how many unread messages one run considers.
const DefaultMaxMessages = 50

// Mailbox is the mail-provider surface the pipeline needs.
type Mailbox interface {
	ListUnread(ctx context.Context, maxResults int64) ([]string, error)
	FetchMessage(ctx context.Context, id string) (*gmail.Message, error)
	MarkRead(ctx context.Context, id string) error
}

// Summarizer produces the digest text for a set of messages.
type Summarizer interface {
	Summarize(ctx context.Context, msgs []*gmail.Message) (string, error)
}

// Sender delivers one email and returns the provider message ID.
type Sender interface {
	Send(ctx context.Context, msg ses.Message) (string, error)
}

// Options configures a Pipeline.
type Options struct {
	Mailbox    Mailbox
	Summarizer Summarizer
	Sender     Sender

	// From and To are the digest's sender and recipient addresses.
	From string
	To   string

	// MaxMessages caps the unread listing; defaults to DefaultMaxMessages.
	MaxMessages int64

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics

	// Now is the clock used for the digest subject, replaceable in tests.
	Now func() time.Time
}

// Result reports what one run did.
type Result struct {
	// Listed is the number of unread messages found.
	Listed int
	// Fallbacks counts messages whose content had to be replaced with a
	// placeholder.
	Fallbacks int
	// Sent reports whether a digest email was delivered.
	Sent bool
	// MessageID is the provider ID of the delivered digest.
	MessageID string
	// Acknowledged counts messages successfully marked as read.
	Acknowledged int
	// AckFailures counts messages that stayed unread despite a delivered
	// digest; they will be summarized again on the next run.
	AckFailures int
}

// Pipeline runs the digest flow end to end.
type Pipeline struct {
	mailbox     Mailbox
	summarizer  Summarizer
	sender      Sender
	from        string
	to          string
	maxMessages int64
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
	now         func() time.Time
}

// New creates a Pipeline from the given options.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		mailbox:     opts.Mailbox,
		summarizer:  opts.Summarizer,
		sender:      opts.Sender,
		from:        opts.From,
		to:          opts.To,
		maxMessages: opts.MaxMessages,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		now:         opts.Now,
	}
	if p.maxMessages <= 0 {
		p.maxMessages = DefaultMaxMessages
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.metrics == nil {
		p.metrics = &instrumentation.Metrics{}
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Run executes one digest run. The returned Result is valid even when err
// is non-nil and describes how far the run got.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	result := &Result{}

	ctx, span := instrumentation.StartRunSpan(ctx)
	defer span.End()

	p.logger.Info("starting digest run", logging.Operation("run"))

	ids, err := p.listUnread(ctx)
	if err != nil {
		return p.fail(ctx, span, result, started, fmt.Errorf("failed to list unread messages: %w", err))
	}
	result.Listed = len(ids)
	p.metrics.RecordMessagesListed(ctx, len(ids))

	if len(ids) == 0 {
		p.logger.Info("no unread messages, nothing to do", logging.Operation("run"))
		p.finish(ctx, span, started)
		return result, nil
	}
	p.logger.Info("found unread messages",
		logging.Operation("run"),
		logging.Count(len(ids)))

	msgs := p.fetchAll(ctx, ids, result)

	summary, err := p.summarize(ctx, msgs)
	if err != nil {
		return p.fail(ctx, span, result, started, fmt.Errorf("summarization failed: %w", err))
	}

	messageID, err := p.send(ctx, summary)
	if err != nil {
		// Unread flags stay untouched so the next run retries these
		// messages.
		return p.fail(ctx, span, result, started, fmt.Errorf("failed to deliver digest: %w", err))
	}
	result.Sent = true
	result.MessageID = messageID

	p.acknowledge(ctx, ids, result)

	p.logger.Info("digest run completed",
		logging.Operation("run"),
		logging.Status(instrumentation.StatusSuccess),
		logging.Count(result.Listed),
		logging.MessageID(result.MessageID))
	p.finish(ctx, span, started)
	return result, nil
}

func (p *Pipeline) listUnread(ctx context.Context) ([]string, error) {
	ctx, span := instrumentation.StartStageSpan(ctx, instrumentation.StageList)
	defer span.End()

	ids, err := p.mailbox.ListUnread(ctx, p.maxMessages)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}
	instrumentation.SetSpanSuccess(span)
	return ids, nil
}

// fetchAll retrieves every listed message. Fetch failures degrade to
// placeholder messages so a single broken message cannot abort the run.
func (p *Pipeline) fetchAll(ctx context.Context, ids []string, result *Result) []*gmail.Message {
	ctx, span := instrumentation.StartStageSpan(ctx, instrumentation.StageFetch)
	defer span.End()

	msgs := make([]*gmail.Message, 0, len(ids))
	for _, id := range ids {
		m, err := p.mailbox.FetchMessage(ctx, id)
		if err != nil {
			p.logger.Warn("failed to fetch message, using placeholder",
				logging.Operation("fetch"),
				logging.MessageID(id),
				logging.Err(err))
			m = gmail.FallbackMessage(id, err.Error())
		}
		if m.IsFallback() {
			result.Fallbacks++
			p.metrics.RecordFetch(ctx, instrumentation.ResultFallback)
		} else {
			p.metrics.RecordFetch(ctx, instrumentation.ResultOK)
		}
		msgs = append(msgs, m)
	}

	instrumentation.SetSpanSuccess(span)
	return msgs
}

func (p *Pipeline) summarize(ctx context.Context, msgs []*gmail.Message) (string, error) {
	ctx, span := instrumentation.StartStageSpan(ctx, instrumentation.StageSummarize)
	defer span.End()

	summary, err := p.summarizer.Summarize(ctx, msgs)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return "", err
	}
	instrumentation.SetSpanSuccess(span)
	return summary, nil
}

func (p *Pipeline) send(ctx context.Context, summary string) (string, error) {
	ctx, span := instrumentation.StartStageSpan(ctx, instrumentation.StageSend)
	defer span.End()

	started := time.Now()
	messageID, err := p.sender.Send(ctx, Compose(summary, p.from, p.to, p.now()))
	if err != nil {
		p.metrics.RecordSend(ctx, instrumentation.StatusError, time.Since(started))
		instrumentation.SetSpanError(span, err)
		return "", err
	}
	p.metrics.RecordSend(ctx, instrumentation.StatusSuccess, time.Since(started))
	instrumentation.SetSpanSuccess(span)
	return messageID, nil
}

// acknowledge marks the listed messages as read. Individual failures are
// logged and counted but do not fail the run; the digest is already out.
func (p *Pipeline) acknowledge(ctx context.Context, ids []string, result *Result) {
	ctx, span := instrumentation.StartStageSpan(ctx, instrumentation.StageAcknowledge)
	defer span.End()

	for _, id := range ids {
		if err := p.mailbox.MarkRead(ctx, id); err != nil {
			p.logger.Warn("failed to mark message as read, it will be summarized again",
				logging.Operation("acknowledge"),
				logging.MessageID(id),
				logging.Err(err))
			result.AckFailures++
			p.metrics.RecordAck(ctx, instrumentation.StatusError)
			continue
		}
		result.Acknowledged++
		p.metrics.RecordAck(ctx, instrumentation.StatusSuccess)
	}

	instrumentation.SetSpanSuccess(span)
}

func (p *Pipeline) finish(ctx context.Context, span trace.Span, started time.Time) {
	instrumentation.SetSpanSuccess(span)
	p.metrics.RecordRun(ctx, instrumentation.StatusSuccess, time.Since(started))
}

func (p *Pipeline) fail(ctx context.Context, span trace.Span, result *Result, started time.Time, err error) (*Result, error) {
	p.logger.Error("digest run failed",
		logging.Operation("run"),
		logging.Status(instrumentation.StatusError),
		logging.Err(err))
	instrumentation.SetSpanError(span, err)
	p.metrics.RecordRun(ctx, instrumentation.StatusError, time.Since(started))
	return result, err
}
