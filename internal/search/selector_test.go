package search

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
)

func TestQueryTerms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "drops short words", query: "what is the pricing", want: []string{"what", "the", "pricing"}},
		{name: "lowercases and splits punctuation", query: "Renewal, pricing?", want: []string{"renewal", "pricing"}},
		{name: "empty query", query: "", want: nil},
		{name: "only short words", query: "is it ok", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, queryTerms(tt.query))
		})
	}
}

func TestScoreCallOrdering(t *testing.T) {
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	windowStart := now.AddDate(0, 0, -180)
	terms := queryTerms("pricing concerns")

	topical := models.CallRecord{
		ID:      "c1",
		Title:   "Weekly sync",
		Topics:  []string{"Pricing"},
		Started: windowStart.AddDate(0, 0, 1),
	}
	titleOnly := models.CallRecord{
		ID:      "c2",
		Title:   "Pricing discussion",
		Started: now.AddDate(0, 0, -1),
	}
	unrelated := models.CallRecord{
		ID:      "c3",
		Title:   "Intro call",
		Started: now.AddDate(0, 0, -1),
	}

	sTopical := scoreCall(topical, terms, windowStart, now)
	sTitle := scoreCall(titleOnly, terms, windowStart, now)
	sUnrelated := scoreCall(unrelated, terms, windowStart, now)

	// Topic overlap beats a recent title match, which beats recency alone.
	assert.Greater(t, sTopical, sTitle)
	assert.Greater(t, sTitle, sUnrelated)
	assert.Greater(t, sUnrelated, 0.0)
}

func TestScoreCallRecency(t *testing.T) {
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	windowStart := now.AddDate(0, 0, -180)

	recent := models.CallRecord{ID: "a", Started: now.AddDate(0, 0, -1)}
	old := models.CallRecord{ID: "b", Started: windowStart.AddDate(0, 0, 1)}

	assert.Greater(t, scoreCall(recent, nil, windowStart, now), scoreCall(old, nil, windowStart, now))
}

func TestQuarterKey(t *testing.T) {
	assert.Equal(t, "2025-Q1", quarterKey(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-Q2", quarterKey(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-Q4", quarterKey(time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)))
}

func callsInQuarters(now time.Time, perQuarter, quarters int) []models.CallRecord {
	var out []models.CallRecord
	for q := 0; q < quarters; q++ {
		for i := 0; i < perQuarter; i++ {
			started := now.AddDate(0, -3*q, -i-1)
			out = append(out, models.CallRecord{
				ID:      fmt.Sprintf("call-%d-%d", q, i),
				Title:   "Quarterly check-in",
				Started: started,
			})
		}
	}
	return out
}

func TestSelectCallsUnderBudget(t *testing.T) {
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	windowStart := now.AddDate(0, 0, -180)
	candidates := callsInQuarters(now, 4, 2)

	selected := SelectCalls(candidates, "check-in", windowStart, now)

	require.Len(t, selected, 8)
	seen := make(map[string]bool)
	for _, c := range selected {
		seen[c.ID] = true
	}
	assert.Len(t, seen, 8, "no duplicates")
}

func TestSelectCallsCapsAtBudget(t *testing.T) {
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	windowStart := now.AddDate(0, -24, 0)
	candidates := callsInQuarters(now, 10, 4)

	selected := SelectCalls(candidates, "check-in", windowStart, now)

	assert.Len(t, selected, MaxTranscripts)
}

func TestSelectCallsCoversQuarters(t *testing.T) {
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	windowStart := now.AddDate(0, -24, 0)

	// A sparse old quarter that pure ranking would never pick: recency
	// dominates when no call matches the query topically.
	candidates := callsInQuarters(now, 20, 1)
	oldCall := models.CallRecord{
		ID:      "old-quarter",
		Title:   "Kickoff",
		Started: now.AddDate(0, -9, 0),
	}
	candidates = append(candidates, oldCall)

	selected := SelectCalls(candidates, "roadmap", windowStart, now)

	require.Len(t, selected, MaxTranscripts)
	found := false
	for _, c := range selected {
		if c.ID == "old-quarter" {
			found = true
		}
	}
	assert.True(t, found, "every populated quarter keeps a representative")
}

func TestSelectCallsDeterministic(t *testing.T) {
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	windowStart := now.AddDate(0, -24, 0)
	candidates := callsInQuarters(now, 12, 3)

	first := SelectCalls(candidates, "check-in", windowStart, now)
	for i := 0; i < 5; i++ {
		again := SelectCalls(candidates, "check-in", windowStart, now)
		require.Equal(t, first, again)
	}
}

func TestSelectCallsEmpty(t *testing.T) {
	now := time.Now()
	assert.Nil(t, SelectCalls(nil, "anything", now.AddDate(0, -6, 0), now))
}
