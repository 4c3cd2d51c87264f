// Package cmd implements the command-line interface for inboxdigest.
//
// This package provides the following commands:
//   - digest: Summarize unread Gmail messages and deliver the digest via SES
//   - auth: Run the one-time OAuth consent flow and print the token blob
//   - version: Display version information
//
// The digest command is the default command when no subcommand is specified.
package cmd
