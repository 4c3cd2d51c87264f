package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// authorizedUser is the token format that NewTokenSource consumes. It
// mirrors the Google "authorized user" credential file.
type authorizedUser struct {
	Type         string `json:"type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
}

// NewConsentConfig returns the OAuth2 configuration for the one-time
// interactive consent flow.
func NewConsentConfig(clientID, clientSecret string) *oauth2.Config {
	const oob = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  oob,
		Scopes:       Scopes,
	}
}

// AuthURL returns the consent URL the user has to open in a browser.
// Offline access with forced consent guarantees a refresh token even when
// the user has authorized this client before.
func AuthURL(conf *oauth2.Config) string {
	return conf.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
}

// ExchangeCode trades the pasted authorization code for a token and returns
// the base64-encoded authorized-user blob for GMAIL_TOKEN_B64.
func ExchangeCode(ctx context.Context, conf *oauth2.Config, code string) (string, error) {
	t, err := conf.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange auth code: %w", err)
	}
	if t.RefreshToken == "" {
		return "", fmt.Errorf("no refresh token in response; revoke access for this client and run auth again")
	}

	raw, err := json.Marshal(authorizedUser{
		Type:         "authorized_user",
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		RefreshToken: t.RefreshToken,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode token: %w", err)
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}
