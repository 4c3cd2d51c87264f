package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the inboxdigest application
var rootCmd = &cobra.Command{
	Use:   "inboxdigest",
	Short: "Summarizes unread Gmail messages into a daily digest email",
	Long: `inboxdigest reads the unread messages in your Gmail inbox, produces a
natural-language summary with the Gemini API and delivers it as a single
email through AWS SES. Messages are marked as read only after the digest
has been delivered, so a failed run leaves them for the next one.

It is meant to be invoked from cron or a scheduled workflow, once a day.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "inboxdigest version %s\n" .Version}}`)

	// If no subcommand is provided, run the digest command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "digest")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newDigestCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
