// Package cli provides the command-line interface for callsearch.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/client"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverURL string
	verbose   bool

	// API client, created once before any command runs
	apiClient *client.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "callsearch",
	Short: "Conversational search over your sales calls",
	Long: `Callsearch answers questions about your recorded sales conversations.

It pulls calls, transcripts, and email activity from your call provider,
grounds them with CRM context, and synthesizes an answer with the
configured LLM. Questions can be scoped to a single account, a single
opportunity, or the whole organization.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		apiClient = client.New(serverURL)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "callsearch server URL (default $CALLSEARCH_SERVER_URL or http://localhost:8484)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(callsCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statsCmd)
}
