package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
)

// Scopes granted to the digest run. Listing and fetching need readonly;
// removing the UNREAD label needs modify.
var Scopes = []string{
	gmail.GmailReadonlyScope,
	gmail.GmailModifyScope,
}

// DecodeTokenBlob decodes the base64-encoded authorized-user token JSON.
func DecodeTokenBlob(blob string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blob))
	if err != nil {
		return nil, fmt.Errorf("token blob is not valid base64: %w", err)
	}
	return raw, nil
}

// NewTokenSource builds a refreshing token source from the base64-encoded
// authorized-user token blob.
func NewTokenSource(ctx context.Context, blob string) (oauth2.TokenSource, error) {
	raw, err := DecodeTokenBlob(blob)
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authorized-user token: %w", err)
	}

	return creds.TokenSource, nil
}

// NewHTTPClient returns an HTTP client authenticated with the token blob.
// The token is validated (refreshed if necessary) before the client is
// returned, so an expired or revoked credential fails here rather than on
// the first API call.
func NewHTTPClient(ctx context.Context, blob string) (*http.Client, error) {
	ts, err := NewTokenSource(ctx, blob)
	if err != nil {
		return nil, err
	}

	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("stored token is invalid or expired: %w", err)
	}

	return oauth2.NewClient(ctx, ts), nil
}
