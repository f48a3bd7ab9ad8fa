package search

import (
	"fmt"
	"strings"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/crm"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
)

// Prompt size caps. The candidate summary block and each transcript excerpt
// are bounded so context never grows with corpus size.
const (
	maxSummaryCalls = 50
	maxExcerptChars = 1800
)

// PromptData is everything the prompt builder assembles. Pure data in, text
// out; no I/O happens here.
type PromptData struct {
	Request     models.SearchRequest
	Candidates  []models.CallRecord
	Selected    []models.CallRecord
	Transcripts map[string]models.TranscriptRecord
	Emails      models.EmailEngagement
	HasEmails   bool
	CRM         *crm.EntityContext
}

// BuildPrompt assembles the grounded synthesis prompt: scope framing,
// bounded call summaries, transcript evidence for the selected calls, email
// engagement, CRM context, and finally the user question with a grounding
// instruction.
func BuildPrompt(d PromptData) string {
	var b strings.Builder

	b.WriteString(framing(d.Request))
	b.WriteString("\n\n")

	writeCallSummaries(&b, d.Candidates)
	writeSelectedCalls(&b, d.Selected, d.Transcripts)
	writeEmailBlock(&b, d.Emails, d.HasEmails)
	writeCRMBlock(&b, d.CRM)

	fmt.Fprintf(&b, "## Question\n%s\n\n", d.Request.Query)
	b.WriteString("Answer the question using only the context above. " +
		"Cite specific calls where relevant. " +
		"If the context does not contain the answer, say so plainly.\n")

	return b.String()
}

func framing(req models.SearchRequest) string {
	switch req.Scope {
	case models.ScopeAccount:
		name := req.AccountName
		if name == "" {
			name = req.AccountID
		}
		return fmt.Sprintf("You are an account analyst reviewing sales conversations for the account %q.", name)
	case models.ScopeOpportunity:
		name := req.OpportunityName
		if name == "" {
			name = req.OpportunityID
		}
		return fmt.Sprintf("You are a deal coach reviewing sales conversations for the opportunity %q.", name)
	default:
		return "You are a revenue intelligence analyst reviewing sales conversations across the organization."
	}
}

// writeCallSummaries emits one line per candidate call, capped at
// maxSummaryCalls, with a trailing remainder note beyond the cap.
func writeCallSummaries(b *strings.Builder, candidates []models.CallRecord) {
	if len(candidates) == 0 {
		return
	}

	fmt.Fprintf(b, "## Call history (%d calls)\n", len(candidates))
	for i, c := range candidates {
		if i == maxSummaryCalls {
			fmt.Fprintf(b, "and %d more calls\n", len(candidates)-maxSummaryCalls)
			break
		}
		fmt.Fprintf(b, "- %s — %s (%d min)\n", c.Title, c.Started.Format("2006-01-02"), c.DurationSec/60)
	}
	b.WriteString("\n")
}

// writeSelectedCalls emits full evidence for each selected call that has a
// transcript: metadata, participants with affiliation, topics, and a
// bounded excerpt of concatenated sentence text.
func writeSelectedCalls(b *strings.Builder, selected []models.CallRecord, transcripts map[string]models.TranscriptRecord) {
	if len(selected) == 0 {
		return
	}

	b.WriteString("## Selected call transcripts\n\n")
	for _, c := range selected {
		tr, ok := transcripts[c.ID]
		if !ok {
			continue
		}

		fmt.Fprintf(b, "### %s — %s (%d min)\n", c.Title, c.Started.Format("2006-01-02"), c.DurationSec/60)

		if len(c.Participants) > 0 {
			parts := make([]string, 0, len(c.Participants))
			for _, p := range c.Participants {
				parts = append(parts, fmt.Sprintf("%s (%s)", p.Name, p.Affiliation))
			}
			fmt.Fprintf(b, "Participants: %s\n", strings.Join(parts, ", "))
		}
		if len(c.Topics) > 0 {
			fmt.Fprintf(b, "Topics: %s\n", strings.Join(c.Topics, ", "))
		}

		excerpt := tr.Text(maxExcerptChars)
		if excerpt != "" {
			fmt.Fprintf(b, "Excerpt:\n%s\n", excerpt)
		}
		b.WriteString("\n")
	}
}

func writeEmailBlock(b *strings.Builder, eng models.EmailEngagement, available bool) {
	if !available || eng.Total == 0 {
		return
	}

	b.WriteString("## Email engagement\n")
	fmt.Fprintf(b, "Tracked emails: %d, opened: %d, clicked: %d, replied: %d\n", eng.Total, eng.Opened, eng.Clicked, eng.Replied)
	if eng.Bounced > 0 {
		fmt.Fprintf(b, "Bounced: %d\n", eng.Bounced)
	}
	b.WriteString("\n")
}

func writeCRMBlock(b *strings.Builder, ec *crm.EntityContext) {
	if ec == nil || (ec.Opportunity == nil && ec.Account == nil) {
		return
	}

	b.WriteString("## CRM context\n")
	if opp := ec.Opportunity; opp != nil {
		fmt.Fprintf(b, "Opportunity: %s (stage: %s, amount: %.0f, close date: %s, probability: %.0f%%)\n",
			opp.Name, opp.Stage, opp.Amount, opp.CloseDate, opp.Probability)
		if opp.NextStep != "" {
			fmt.Fprintf(b, "Next step: %s\n", opp.NextStep)
		}
		if opp.Owner != "" {
			fmt.Fprintf(b, "Owner: %s\n", opp.Owner)
		}
		if opp.Type != "" {
			fmt.Fprintf(b, "Deal type: %s\n", opp.Type)
		}
	}
	if acc := ec.Account; acc != nil {
		fmt.Fprintf(b, "Account: %s (industry: %s, type: %s, employees: %.0f, revenue: %.0f)\n",
			acc.Name, acc.Industry, acc.Type, acc.Employees, acc.AnnualRevenue)
	}
	b.WriteString("\n")
}
