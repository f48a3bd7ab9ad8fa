package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
)

var (
	askScope           string
	askAccountID       string
	askAccountName     string
	askOpportunityID   string
	askOpportunityName string
	askTimeRange       string
	askParticipants    string
	askOppTypes        []string
	askAsync           bool
	askOutputFile      string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about your calls and get an LLM-synthesized answer",
	Long: `Ask a question about your recorded conversations.

The question can be scoped to one account, one opportunity, or the whole
organization. The server retrieves matching calls, fetches transcripts for
the most relevant ones, and synthesizes a grounded answer.

Examples:
  callsearch ask "What pricing objections came up recently?"
  callsearch ask "How is the renewal going?" --scope account --account-name "Acme Corp"
  callsearch ask "What are the open blockers?" --scope opportunity --opportunity-id 006xx0001
  callsearch ask "Any churn signals?" --time-range last30 --async`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askScope, "scope", "global", "search scope: global, account, or opportunity")
	askCmd.Flags().StringVar(&askAccountID, "account-id", "", "CRM account ID (account scope)")
	askCmd.Flags().StringVar(&askAccountName, "account-name", "", "account name for fallback matching (account scope)")
	askCmd.Flags().StringVar(&askOpportunityID, "opportunity-id", "", "CRM opportunity ID (opportunity scope)")
	askCmd.Flags().StringVar(&askOpportunityName, "opportunity-name", "", "opportunity name for fallback matching (opportunity scope)")
	askCmd.Flags().StringVar(&askTimeRange, "time-range", "", "narrow the window: last30")
	askCmd.Flags().StringVar(&askParticipants, "participants", "", "filter by attendees: internal-only or external-only")
	askCmd.Flags().StringSliceVar(&askOppTypes, "opportunity-types", nil, "filter by CRM deal types, e.g. Renewal")
	askCmd.Flags().BoolVar(&askAsync, "async", false, "submit as a background job")
	askCmd.Flags().StringVarP(&askOutputFile, "output", "o", "", "write the answer to a file")
}

func buildRequest(question string) (models.SearchRequest, error) {
	scope, err := models.ParseScope(askScope)
	if err != nil {
		return models.SearchRequest{}, err
	}
	return models.SearchRequest{
		Scope:           scope,
		Query:           question,
		AccountID:       askAccountID,
		AccountName:     askAccountName,
		OpportunityID:   askOpportunityID,
		OpportunityName: askOpportunityName,
		Filters: models.SearchFilters{
			TimeRange:        models.TimeRange(askTimeRange),
			ParticipantType:  models.ParticipantType(askParticipants),
			OpportunityTypes: askOppTypes,
		},
	}, nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	if askAsync {
		snap, err := apiClient.SearchAsync(ctx, req)
		if err != nil {
			return fmt.Errorf("submit search: %w", err)
		}

		// Only attach the live view when stdout is a terminal; in pipes
		// and scripts just hand back the job ID.
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Println(snap.ID)
			return nil
		}
		return RunJobWatch(apiClient, snap.ID)
	}

	result, err := apiClient.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return printResult(result)
}

func printResult(result *models.SearchResult) error {
	if askOutputFile != "" {
		if err := os.WriteFile(askOutputFile, []byte(result.Answer+"\n"), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("Answer written to %s\n", askOutputFile)
	} else {
		fmt.Println(result.Answer)
	}

	if verbose {
		fmt.Println()
		fmt.Printf("Calls analyzed: %d, transcripts: %d, emails: %d\n",
			result.Metadata.CallsAnalyzed,
			result.Metadata.TranscriptsFetched,
			result.Metadata.EmailsAnalyzed)
		if len(result.Sources) > 0 {
			fmt.Println("Sources:")
			for _, c := range result.Sources {
				fmt.Printf("  - %s (%s)\n", c.Title, c.Started.Format("2006-01-02"))
			}
		}
	}
	return nil
}
