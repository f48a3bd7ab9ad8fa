package models

import (
	"fmt"
	"time"
)

// Scope is the CRM entity level a search question is framed against.
type Scope string

const (
	ScopeGlobal      Scope = "global"
	ScopeAccount     Scope = "account"
	ScopeOpportunity Scope = "opportunity"
)

// ParseScope validates a scope string.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeGlobal, ScopeAccount, ScopeOpportunity:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown scope %q", s)
}

// TimeRange narrows the lookback window. Empty means scope defaults apply.
type TimeRange string

const (
	TimeRangeDefault TimeRange = ""
	TimeRangeLast30  TimeRange = "last30"
)

// ParticipantType restricts candidate calls by attendee composition.
type ParticipantType string

const (
	ParticipantAny          ParticipantType = ""
	ParticipantInternalOnly ParticipantType = "internal-only"
	ParticipantExternalOnly ParticipantType = "external-only"
)

// SearchFilters are the optional refinements on a search request.
type SearchFilters struct {
	TimeRange        TimeRange       `json:"timeRange,omitempty"`
	ParticipantType  ParticipantType `json:"participantType,omitempty"`
	OpportunityTypes []string        `json:"opportunityTypes,omitempty"`
}

// SearchRequest is the wire contract for a search, regardless of transport.
type SearchRequest struct {
	Scope           Scope         `json:"scope"`
	Query           string        `json:"query"`
	AccountID       string        `json:"accountId,omitempty"`
	AccountName     string        `json:"accountName,omitempty"`
	OpportunityID   string        `json:"opportunityId,omitempty"`
	OpportunityName string        `json:"opportunityName,omitempty"`
	Filters         SearchFilters `json:"filters,omitempty"`
}

// Validate enforces the caller contract before any I/O happens.
func (r SearchRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query is required")
	}
	return r.ValidateScope()
}

// ValidateScope checks everything except the query. Candidate listing
// filters calls without synthesizing an answer, so it has no question.
func (r SearchRequest) ValidateScope() error {
	if _, err := ParseScope(string(r.Scope)); err != nil {
		return err
	}
	switch r.Scope {
	case ScopeAccount:
		if r.AccountID == "" && r.AccountName == "" {
			return fmt.Errorf("account scope requires accountId or accountName")
		}
	case ScopeOpportunity:
		if r.OpportunityID == "" && r.OpportunityName == "" {
			return fmt.Errorf("opportunity scope requires opportunityId or opportunityName")
		}
	}
	switch r.Filters.TimeRange {
	case TimeRangeDefault, TimeRangeLast30:
	default:
		return fmt.Errorf("unknown timeRange %q", r.Filters.TimeRange)
	}
	switch r.Filters.ParticipantType {
	case ParticipantAny, ParticipantInternalOnly, ParticipantExternalOnly:
	default:
		return fmt.Errorf("unknown participantType %q", r.Filters.ParticipantType)
	}
	return nil
}

// SearchMetadata describes how much evidence backed the answer.
// CallsAnalyzed counts the post-filter candidate set, not the sampled
// subset handed to the prompt.
type SearchMetadata struct {
	CallsAnalyzed      int       `json:"callsAnalyzed"`
	TranscriptsFetched int       `json:"transcriptsFetched"`
	EmailsAnalyzed     int       `json:"emailsAnalyzed"`
	GeneratedAt        time.Time `json:"generatedAt"`
}

// SearchResult is the answer plus the evidence it was grounded in.
// Sources is always a subset of the calls whose transcripts were fetched.
type SearchResult struct {
	Answer   string         `json:"answer"`
	Sources  []CallRecord   `json:"sources"`
	Metadata SearchMetadata `json:"metadata"`
}
