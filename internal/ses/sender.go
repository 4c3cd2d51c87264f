package ses

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/teemow/inboxdigest/internal/logging"
)

// API is the slice of the SES client the sender uses.
type API interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SenderOption configures a Sender.
type SenderOption func(*Sender)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SenderOption {
	return func(s *Sender) {
		s.logger = logger
	}
}

// WithAPI replaces the SES client, mainly for tests.
func WithAPI(api API) SenderOption {
	return func(s *Sender) {
		s.api = api
	}
}

// Sender submits digest emails through SES.
type Sender struct {
	api    API
	logger *slog.Logger
}

// NewSender creates a Sender for the given region using the default AWS
// credential chain.
func NewSender(ctx context.Context, region string, opts ...SenderOption) (*Sender, error) {
	s := &Sender{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	if s.api == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		s.api = sesv2.NewFromConfig(cfg)
	}

	return s, nil
}

// Send submits one email and returns the provider message ID.
func (s *Sender) Send(ctx context.Context, msg Message) (string, error) {
	raw, err := msg.MarshalRaw()
	if err != nil {
		return "", fmt.Errorf("failed to build email: %w", err)
	}

	out, err := s.api.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	messageID := aws.ToString(out.MessageId)
	s.logger.Info("email sent",
		logging.Operation("ses.send"),
		logging.MessageID(messageID),
		logging.UserHash(msg.To),
		logging.Domain(msg.To))
	return messageID, nil
}
