package search

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
)

// MaxTranscripts caps the evidence set handed to transcript retrieval.
const MaxTranscripts = 15

// Scoring weights. Topic overlap dominates; recency only separates calls of
// equal topical relevance. Only the ordering matters, not the absolute
// values.
const (
	topicMatchWeight = 10.0
	titleMatchWeight = 3.0
	recencyMaxBoost  = 5.0
)

// queryTerms tokenizes the query for lexical matching: lowercased words of
// three or more characters.
func queryTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})

	var terms []string
	for _, f := range fields {
		if len(f) >= 3 {
			terms = append(terms, f)
		}
	}
	return terms
}

// scoreCall rates a candidate's relevance to the query terms within the
// retrieval window.
func scoreCall(c models.CallRecord, terms []string, windowStart, now time.Time) float64 {
	score := 0.0
	title := strings.ToLower(c.Title)

	for _, term := range terms {
		for _, topic := range c.Topics {
			lt := strings.ToLower(topic)
			if strings.Contains(lt, term) || strings.Contains(term, lt) {
				score += topicMatchWeight
				break
			}
		}
		if strings.Contains(title, term) {
			score += titleMatchWeight
		}
	}

	// Linear recency decay across the window: newest gets the full boost,
	// the window edge gets none.
	span := now.Sub(windowStart)
	if span > 0 {
		age := now.Sub(c.Started)
		if age < 0 {
			age = 0
		}
		frac := float64(age) / float64(span)
		if frac > 1 {
			frac = 1
		}
		score += recencyMaxBoost * (1 - frac)
	}

	return score
}

// quarterKey buckets a call into its calendar year and quarter, e.g.
// "2025-Q3".
func quarterKey(t time.Time) string {
	return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
}

// SelectCalls reduces the candidates to at most MaxTranscripts calls,
// balancing relevance with temporal coverage: every populated quarter gets
// a representative while the budget allows, then remaining slots fill by
// descending score. The result is deterministic; ties break on call ID.
func SelectCalls(candidates []models.CallRecord, query string, windowStart, now time.Time) []models.CallRecord {
	if len(candidates) == 0 {
		return nil
	}

	terms := queryTerms(query)
	scores := make(map[string]float64, len(candidates))
	ranked := make([]models.CallRecord, len(candidates))
	copy(ranked, candidates)
	for _, c := range ranked {
		scores[c.ID] = scoreCall(c, terms, windowStart, now)
	}

	byScore := func(a, b models.CallRecord) bool {
		sa, sb := scores[a.ID], scores[b.ID]
		if sa != sb {
			return sa > sb
		}
		return a.ID < b.ID
	}
	sort.Slice(ranked, func(i, j int) bool { return byScore(ranked[i], ranked[j]) })

	if len(ranked) <= MaxTranscripts {
		return ranked
	}

	// One representative per populated quarter first, most recent quarters
	// first when there are more quarters than slots.
	quarters := make(map[string][]models.CallRecord)
	for _, c := range ranked {
		k := quarterKey(c.Started)
		quarters[k] = append(quarters[k], c)
	}
	quarterKeys := make([]string, 0, len(quarters))
	for k := range quarters {
		quarterKeys = append(quarterKeys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(quarterKeys)))

	selected := make([]models.CallRecord, 0, MaxTranscripts)
	taken := make(map[string]bool, MaxTranscripts)
	for _, k := range quarterKeys {
		if len(selected) == MaxTranscripts {
			break
		}
		// quarters[k] inherits the ranked order: first entry is the
		// quarter's best.
		best := quarters[k][0]
		selected = append(selected, best)
		taken[best.ID] = true
	}

	for _, c := range ranked {
		if len(selected) == MaxTranscripts {
			break
		}
		if !taken[c.ID] {
			selected = append(selected, c)
			taken[c.ID] = true
		}
	}

	sort.Slice(selected, func(i, j int) bool { return byScore(selected[i], selected[j]) })
	return selected
}
