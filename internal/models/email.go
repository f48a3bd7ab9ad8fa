package models

import "time"

// EmailActivityRecord is a tracked outbound email with engagement flags.
// Read-only; only aggregated counts ever reach the prompt.
type EmailActivityRecord struct {
	ID      string    `json:"id"`
	Subject string    `json:"subject"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	SentAt  time.Time `json:"sentAt"`
	Opened  bool      `json:"opened"`
	Clicked bool      `json:"clicked"`
	Replied bool      `json:"replied"`
	Bounced bool      `json:"bounced"`
}

// EmailEngagement aggregates activity records into counts.
type EmailEngagement struct {
	Total   int `json:"total"`
	Opened  int `json:"opened"`
	Clicked int `json:"clicked"`
	Replied int `json:"replied"`
	Bounced int `json:"bounced"`
}

// SummarizeEmailActivity folds activity records into engagement counts.
func SummarizeEmailActivity(records []EmailActivityRecord) EmailEngagement {
	eng := EmailEngagement{Total: len(records)}
	for _, r := range records {
		if r.Opened {
			eng.Opened++
		}
		if r.Clicked {
			eng.Clicked++
		}
		if r.Replied {
			eng.Replied++
		}
		if r.Bounced {
			eng.Bounced++
		}
	}
	return eng
}
