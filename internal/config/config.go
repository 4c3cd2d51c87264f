// Package config loads the runtime configuration for inboxdigest from
// environment variables. A .env file in the working directory is honored
// for local development; scheduled runs are expected to provide real
// environment variables (or secrets) instead.
package config

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all settings for a digest run. Required values without a
// default cause Load to fail before any network call is made.
type Config struct {
	// GeminiAPIKey authenticates calls to the Gemini API.
	GeminiAPIKey string `env:"GEMINI_API_KEY, required"`

	// GmailTokenB64 is the base64-encoded Google authorized-user token blob
	// produced by the auth command.
	GmailTokenB64 string `env:"GMAIL_TOKEN_B64, required"`

	// SourceEmail is the SES-verified sender address of the digest.
	SourceEmail string `env:"SOURCE_EMAIL, required"`

	// DestinationEmail receives the digest.
	DestinationEmail string `env:"DESTINATION_EMAIL, required"`

	// AWSRegion is the region of the SES identity. The AWS SDK picks up
	// credentials from its usual sources (env, shared config, IAM role).
	AWSRegion string `env:"AWS_REGION, default=us-east-1"`

	// GeminiModel is the generative model used for summarization.
	GeminiModel string `env:"GEMINI_MODEL, default=gemini-2.5-flash"`

	// MaxMessages caps how many unread messages a single run considers.
	MaxMessages int64 `env:"DIGEST_MAX_MESSAGES, default=50"`

	// BatchSize is the number of messages summarized per Gemini request.
	BatchSize int `env:"DIGEST_BATCH_SIZE, default=10"`

	// PushgatewayURL, when set, enables pushing run metrics to a Prometheus
	// Pushgateway at the end of the run.
	PushgatewayURL string `env:"PUSHGATEWAY_URL"`
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	// Best effort; absence of a .env file is the normal case.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that envconfig tags cannot express.
func (c *Config) Validate() error {
	if c.MaxMessages <= 0 {
		return fmt.Errorf("DIGEST_MAX_MESSAGES must be positive, got %d", c.MaxMessages)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("DIGEST_BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	return nil
}
