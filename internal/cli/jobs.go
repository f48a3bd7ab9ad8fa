package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/jobs"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs [job-id]",
	Short: "List or inspect background search jobs",
	Long: `List all background search jobs or inspect a specific job by ID.

Examples:
  callsearch jobs           # List all jobs
  callsearch jobs abc123    # Show details for job abc123`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJobs,
}

func runJobs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if len(args) == 1 {
		return showJob(ctx, args[0])
	}
	return listJobs(ctx)
}

func listJobs(ctx context.Context) error {
	list, err := apiClient.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	if len(list) == 0 {
		fmt.Println("No jobs found")
		return nil
	}

	fmt.Printf("%-10s %-12s %-12s %-30s %s\n", "ID", "STATUS", "SCOPE", "QUERY", "STARTED")
	fmt.Println("--------------------------------------------------------------------------------")
	for _, job := range list {
		fmt.Printf("%-10s %-12s %-12s %-30s %s\n",
			job.ID, job.Status, job.Request.Scope,
			clip(job.Request.Query, 30), job.StartedAt.Format("15:04:05"))
	}
	return nil
}

func showJob(ctx context.Context, id string) error {
	job, err := apiClient.GetJob(ctx, id)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}

	fmt.Printf("Job: %s\n", job.ID)
	fmt.Printf("  Status: %s\n", job.Status)
	fmt.Printf("  Scope: %s\n", job.Request.Scope)
	fmt.Printf("  Query: %s\n", job.Request.Query)
	fmt.Printf("  Started: %s\n", job.StartedAt.Format(time.RFC3339))
	if job.CompletedAt != nil {
		fmt.Printf("  Completed: %s\n", job.CompletedAt.Format(time.RFC3339))
		fmt.Printf("  Duration: %s\n", job.CompletedAt.Sub(job.StartedAt).Round(time.Second))
	}
	if job.Error != "" {
		fmt.Printf("  Error: %s\n", job.Error)
	}

	if job.Status == jobs.StatusCompleted && job.Result != nil {
		fmt.Println("\nAnswer:")
		fmt.Println(job.Result.Answer)
		fmt.Printf("\nCalls analyzed: %d, transcripts: %d, emails: %d\n",
			job.Result.Metadata.CallsAnalyzed,
			job.Result.Metadata.TranscriptsFetched,
			job.Result.Metadata.EmailsAnalyzed)
	}
	return nil
}

// clip shortens a string for tabular output.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n < 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
