// Package models defines the data structures exchanged with the call
// provider and the CRM, and the search request/response wire contract.
package models

import (
	"strings"
	"time"
)

// Affiliation marks which side of the table a call participant sits on.
type Affiliation string

const (
	AffiliationInternal Affiliation = "Internal"
	AffiliationExternal Affiliation = "External"
)

// Participant is a single attendee on a call.
type Participant struct {
	Name        string      `json:"name"`
	Affiliation Affiliation `json:"affiliation"`
}

// CrmAssociations links a call to the CRM records it was logged against.
// Linking is best-effort upstream: calls routinely arrive with no
// associations at all.
type CrmAssociations struct {
	AccountIDs     []string `json:"accountIds,omitempty"`
	OpportunityIDs []string `json:"opportunityIds,omitempty"`
}

// CallRecord is an immutable snapshot of a recorded call as reported by the
// call provider. It is never mutated locally.
type CallRecord struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Scheduled    time.Time        `json:"scheduled"`
	Started      time.Time        `json:"started"`
	DurationSec  int              `json:"durationSec"`
	Direction    string           `json:"direction,omitempty"`
	Participants []Participant    `json:"participants,omitempty"`
	Topics       []string         `json:"topics,omitempty"`
	Associations *CrmAssociations `json:"crmAssociations,omitempty"`
	URL          string           `json:"url,omitempty"`
}

// HasExternalParticipant reports whether anyone outside the org was on the
// call.
func (c CallRecord) HasExternalParticipant() bool {
	for _, p := range c.Participants {
		if p.Affiliation == AffiliationExternal {
			return true
		}
	}
	return false
}

// AssociatedWithAccount reports whether the call is linked to the given
// account ID.
func (c CallRecord) AssociatedWithAccount(accountID string) bool {
	if c.Associations == nil {
		return false
	}
	for _, id := range c.Associations.AccountIDs {
		if id == accountID {
			return true
		}
	}
	return false
}

// AssociatedWithOpportunity reports whether the call is linked to the given
// opportunity ID.
func (c CallRecord) AssociatedWithOpportunity(opportunityID string) bool {
	if c.Associations == nil {
		return false
	}
	for _, id := range c.Associations.OpportunityIDs {
		if id == opportunityID {
			return true
		}
	}
	return false
}

// Sentence is one timed utterance fragment within a transcript segment.
type Sentence struct {
	StartSec float64 `json:"startSec"`
	EndSec   float64 `json:"endSec"`
	Text     string  `json:"text"`
}

// Segment is a contiguous run of sentences by a single speaker.
type Segment struct {
	SpeakerID string     `json:"speakerId"`
	Sentences []Sentence `json:"sentences"`
}

// TranscriptRecord holds the full transcript for one call. Transcripts are
// fetched on demand for selected calls only and discarded after the request
// completes.
type TranscriptRecord struct {
	CallID   string    `json:"callId"`
	Segments []Segment `json:"segments"`
}

// Text concatenates sentence text across all segments, up to maxChars.
// Segment boundaries become line breaks so speaker turns stay readable.
func (t TranscriptRecord) Text(maxChars int) string {
	var b strings.Builder
	for _, seg := range t.Segments {
		for _, s := range seg.Sentences {
			if b.Len() >= maxChars {
				return b.String()[:maxChars]
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(s.Text)
		}
		b.WriteByte('\n')
	}
	out := strings.TrimSpace(b.String())
	if len(out) > maxChars {
		out = out[:maxChars]
	}
	return out
}
