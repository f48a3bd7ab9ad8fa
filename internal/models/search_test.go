package models

import "testing"

func TestParseScope(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Scope
		wantErr bool
	}{
		{"global", "global", ScopeGlobal, false},
		{"account", "account", ScopeAccount, false},
		{"opportunity", "opportunity", ScopeOpportunity, false},
		{"empty", "", "", true},
		{"capitalized", "Global", "", true},
		{"garbage", "lead", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScope(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseScope(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseScope(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSearchRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     SearchRequest
		wantErr bool
	}{
		{
			name: "global ok",
			req:  SearchRequest{Scope: ScopeGlobal, Query: "pricing"},
		},
		{
			name:    "missing query",
			req:     SearchRequest{Scope: ScopeGlobal},
			wantErr: true,
		},
		{
			name:    "account without identifier",
			req:     SearchRequest{Scope: ScopeAccount, Query: "renewal"},
			wantErr: true,
		},
		{
			name: "account with name only",
			req:  SearchRequest{Scope: ScopeAccount, Query: "renewal", AccountName: "Acme Corp"},
		},
		{
			name:    "opportunity without identifier",
			req:     SearchRequest{Scope: ScopeOpportunity, Query: "next steps"},
			wantErr: true,
		},
		{
			name: "opportunity with id",
			req:  SearchRequest{Scope: ScopeOpportunity, Query: "next steps", OpportunityID: "006xx1"},
		},
		{
			name:    "unknown scope fails fast",
			req:     SearchRequest{Scope: "team", Query: "pricing"},
			wantErr: true,
		},
		{
			name: "bad time range",
			req: SearchRequest{
				Scope: ScopeGlobal, Query: "pricing",
				Filters: SearchFilters{TimeRange: "last90"},
			},
			wantErr: true,
		},
		{
			name: "bad participant type",
			req: SearchRequest{
				Scope: ScopeGlobal, Query: "pricing",
				Filters: SearchFilters{ParticipantType: "externals"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchRequestValidateScope(t *testing.T) {
	// Candidate listing carries no question.
	if err := (SearchRequest{Scope: ScopeGlobal}).ValidateScope(); err != nil {
		t.Errorf("ValidateScope() error = %v", err)
	}
	if err := (SearchRequest{Scope: ScopeAccount}).ValidateScope(); err == nil {
		t.Error("ValidateScope() expected error for account scope without identifiers")
	}
}

func TestSummarizeEmailActivity(t *testing.T) {
	records := []EmailActivityRecord{
		{ID: "1", Opened: true, Clicked: true},
		{ID: "2", Opened: true, Replied: true},
		{ID: "3", Bounced: true},
		{ID: "4"},
	}

	eng := SummarizeEmailActivity(records)
	if eng.Total != 4 || eng.Opened != 2 || eng.Clicked != 1 || eng.Replied != 1 || eng.Bounced != 1 {
		t.Errorf("SummarizeEmailActivity() = %+v", eng)
	}

	empty := SummarizeEmailActivity(nil)
	if empty.Total != 0 {
		t.Errorf("SummarizeEmailActivity(nil).Total = %d, want 0", empty.Total)
	}
}

func TestTranscriptText(t *testing.T) {
	tr := TranscriptRecord{
		CallID: "c1",
		Segments: []Segment{
			{SpeakerID: "s1", Sentences: []Sentence{{Text: "Hello there."}, {Text: "How are you?"}}},
			{SpeakerID: "s2", Sentences: []Sentence{{Text: "Doing well."}}},
		},
	}

	got := tr.Text(1000)
	want := "Hello there. How are you?\nDoing well."
	if got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}

	if got := tr.Text(5); len(got) > 5 {
		t.Errorf("Text(5) returned %d chars", len(got))
	}
}
