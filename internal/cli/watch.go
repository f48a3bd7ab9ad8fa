package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/jobs"
)

var watchCmd = &cobra.Command{
	Use:   "watch <job-id>",
	Short: "Follow a background search job until it finishes",
	Long: `Attach to a running search job and follow it to completion.

In a terminal this shows a live status view; otherwise status lines are
printed as they arrive.

Examples:
  callsearch watch abc123`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	id := args[0]

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return RunJobWatch(apiClient, id)
	}

	// Plain streaming for pipes and scripts.
	var last jobs.Status
	final, err := apiClient.WatchJob(context.Background(), id, func(snap jobs.Snapshot) error {
		if snap.Status != last {
			fmt.Printf("[%s]\n", snap.Status)
			last = snap.Status
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch job: %w", err)
	}
	return printFinal(final)
}

func printFinal(snap *jobs.Snapshot) error {
	if snap.Status == jobs.StatusFailed {
		return fmt.Errorf("job failed: %s", snap.Error)
	}
	if snap.Result != nil {
		fmt.Println(snap.Result.Answer)
		fmt.Printf("\nCalls analyzed: %d, transcripts: %d, emails: %d\n",
			snap.Result.Metadata.CallsAnalyzed,
			snap.Result.Metadata.TranscriptsFetched,
			snap.Result.Metadata.EmailsAnalyzed)
	}
	return nil
}
