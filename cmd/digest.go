package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxdigest/internal/config"
	"github.com/teemow/inboxdigest/internal/digest"
	"github.com/teemow/inboxdigest/internal/gmail"
	"github.com/teemow/inboxdigest/internal/google"
	"github.com/teemow/inboxdigest/internal/instrumentation"
	"github.com/teemow/inboxdigest/internal/logging"
	"github.com/teemow/inboxdigest/internal/ses"
	"github.com/teemow/inboxdigest/internal/summarize"
)

func newDigestCmd() *cobra.Command {
	var logLevel string
	var logFormat string

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Summarize unread inbox messages and send the digest email",
		Long: `Read the unread messages in the Gmail inbox, summarize them in fixed-size
chunks with the Gemini API and send the combined summary as a single email
through AWS SES. After a confirmed send the source messages are marked as
read; if the send fails they stay unread and are picked up by the next run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			logger, err := logging.NewLogger(logFormat, logLevel)
			if err != nil {
				return err
			}

			cfg, err := config.Load(ctx)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			instrConfig := instrumentation.DefaultConfig()
			instrConfig.ServiceVersion = version
			if err := instrConfig.Validate(); err != nil {
				return fmt.Errorf("invalid instrumentation configuration: %w", err)
			}

			provider, err := instrumentation.NewProvider(ctx, instrConfig)
			if err != nil {
				return fmt.Errorf("failed to initialize instrumentation: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := provider.Shutdown(shutdownCtx); err != nil {
					logger.Warn("failed to shut down instrumentation", logging.Err(err))
				}
			}()

			logger.Debug("loaded configuration",
				logging.Service("gmail"),
				slog.String("token", logging.SanitizeToken(cfg.GmailTokenB64)))

			httpClient, err := google.NewHTTPClient(ctx, cfg.GmailTokenB64)
			if err != nil {
				return fmt.Errorf("failed to load Gmail credentials: %w", err)
			}

			mailbox, err := gmail.NewClient(ctx, httpClient)
			if err != nil {
				return fmt.Errorf("failed to create Gmail client: %w", err)
			}

			generator, err := summarize.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				return fmt.Errorf("failed to create Gemini client: %w", err)
			}
			defer generator.Close()

			summarizer := summarize.New(generator, cfg.BatchSize,
				summarize.WithLogger(logger),
				summarize.WithMetrics(provider.Metrics()))

			sender, err := ses.NewSender(ctx, cfg.AWSRegion, ses.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("failed to create SES client: %w", err)
			}

			pipeline := digest.New(digest.Options{
				Mailbox:     mailbox,
				Summarizer:  summarizer,
				Sender:      sender,
				From:        cfg.SourceEmail,
				To:          cfg.DestinationEmail,
				MaxMessages: cfg.MaxMessages,
				Logger:      logger,
				Metrics:     provider.Metrics(),
			})

			started := time.Now()
			result, runErr := pipeline.Run(ctx)

			if cfg.PushgatewayURL != "" {
				stats := instrumentation.RunStats{
					Duration: time.Since(started),
					Failed:   runErr != nil,
				}
				if result != nil {
					stats.Listed = result.Listed
					stats.Fallbacks = result.Fallbacks
					stats.Acknowledged = result.Acknowledged
					stats.AckFailures = result.AckFailures
					stats.Sent = result.Sent
				}
				if err := instrumentation.PushRunMetrics(cfg.PushgatewayURL, stats); err != nil {
					logger.Warn("failed to push run metrics", logging.Err(err))
				}
			}

			return runErr
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	return cmd
}
