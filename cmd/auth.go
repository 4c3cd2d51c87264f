package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxdigest/internal/google"
)

func newAuthCmd() *cobra.Command {
	var clientID string
	var clientSecret string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Run the one-time OAuth consent flow for Gmail access",
		Long: `Walk through the Google OAuth consent flow for the Gmail readonly and
modify scopes. On success the command prints a base64-encoded token blob;
store it in the GMAIL_TOKEN_B64 environment variable (or a secret of your
scheduler) for the digest command to use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clientID == "" {
				clientID = os.Getenv("GOOGLE_CLIENT_ID")
			}
			if clientSecret == "" {
				clientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
			}
			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("client ID and secret are required; pass --client-id/--client-secret or set GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			conf := google.NewConsentConfig(clientID, clientSecret)

			fmt.Fprintln(cmd.OutOrStdout(), "Open the following URL in your browser and authorize access:")
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), google.AuthURL(conf))
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), "Paste the authorization code here: ")

			reader := bufio.NewReader(cmd.InOrStdin())
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("no authorization code provided")
			}

			blob, err := google.ExchangeCode(ctx, conf, code)
			if err != nil {
				return fmt.Errorf("failed to exchange authorization code: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "Success. Set the following value as GMAIL_TOKEN_B64:")
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), blob)
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "Google OAuth client ID (default: GOOGLE_CLIENT_ID)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "Google OAuth client secret (default: GOOGLE_CLIENT_SECRET)")
	return cmd
}
