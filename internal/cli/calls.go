package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
)

var (
	callsScope           string
	callsAccountID       string
	callsAccountName     string
	callsOpportunityID   string
	callsOpportunityName string
	callsTimeRange       string
	callsParticipants    string
	callsOppTypes        []string
)

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "List the calls a search would analyze, without synthesis",
	Long: `List the candidate calls for a scope and filter combination.

This runs the same retrieval and filtering a search does, but stops before
transcript fetching and answer synthesis. Useful for checking what evidence
a question would be grounded in.

Examples:
  callsearch calls --scope account --account-name "Acme Corp"
  callsearch calls --time-range last30 --participants external-only
  callsearch calls --scope opportunity --opportunity-id 006xx0001 --opportunity-types Renewal`,
	Args: cobra.NoArgs,
	RunE: runCalls,
}

func init() {
	callsCmd.Flags().StringVar(&callsScope, "scope", "global", "search scope: global, account, or opportunity")
	callsCmd.Flags().StringVar(&callsAccountID, "account-id", "", "CRM account ID (account scope)")
	callsCmd.Flags().StringVar(&callsAccountName, "account-name", "", "account name for fallback matching (account scope)")
	callsCmd.Flags().StringVar(&callsOpportunityID, "opportunity-id", "", "CRM opportunity ID (opportunity scope)")
	callsCmd.Flags().StringVar(&callsOpportunityName, "opportunity-name", "", "opportunity name for fallback matching (opportunity scope)")
	callsCmd.Flags().StringVar(&callsTimeRange, "time-range", "", "narrow the window: last30")
	callsCmd.Flags().StringVar(&callsParticipants, "participants", "", "filter by attendees: internal-only or external-only")
	callsCmd.Flags().StringSliceVar(&callsOppTypes, "opportunity-types", nil, "filter by CRM deal types, e.g. Renewal")
}

func buildCallsRequest() (models.SearchRequest, error) {
	scope, err := models.ParseScope(callsScope)
	if err != nil {
		return models.SearchRequest{}, err
	}
	return models.SearchRequest{
		Scope:           scope,
		AccountID:       callsAccountID,
		AccountName:     callsAccountName,
		OpportunityID:   callsOpportunityID,
		OpportunityName: callsOpportunityName,
		Filters: models.SearchFilters{
			TimeRange:        models.TimeRange(callsTimeRange),
			ParticipantType:  models.ParticipantType(callsParticipants),
			OpportunityTypes: callsOppTypes,
		},
	}, nil
}

func runCalls(cmd *cobra.Command, args []string) error {
	req, err := buildCallsRequest()
	if err != nil {
		return err
	}

	list, err := apiClient.ListCalls(context.Background(), req)
	if err != nil {
		return fmt.Errorf("list calls: %w", err)
	}

	if len(list.Calls) == 0 {
		fmt.Printf("No calls matched between %s and %s\n",
			list.From.Format("2006-01-02"), list.To.Format("2006-01-02"))
		return nil
	}

	fmt.Printf("%d calls between %s and %s\n\n",
		len(list.Calls), list.From.Format("2006-01-02"), list.To.Format("2006-01-02"))
	fmt.Printf("%-12s %-6s %-40s %s\n", "DATE", "MIN", "TITLE", "PARTICIPANTS")
	fmt.Println("--------------------------------------------------------------------------------")
	for _, c := range list.Calls {
		fmt.Printf("%-12s %-6d %-40s %s\n",
			c.Started.Format("2006-01-02"),
			c.DurationSec/60,
			clip(c.Title, 40),
			participantSummary(c))
	}
	return nil
}

// participantSummary renders a compact attendee count, e.g. "3 int, 2 ext".
func participantSummary(c models.CallRecord) string {
	var internal, external int
	for _, p := range c.Participants {
		if p.Affiliation == models.AffiliationExternal {
			external++
		} else {
			internal++
		}
	}
	if internal == 0 && external == 0 {
		return "-"
	}
	return fmt.Sprintf("%d int, %d ext", internal, external)
}
