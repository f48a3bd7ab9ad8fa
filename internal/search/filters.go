package search

import (
	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
)

// filterByParticipants applies the participant-composition filter.
// internal-only keeps calls with no external attendee; external-only keeps
// calls with at least one.
func filterByParticipants(calls []models.CallRecord, pt models.ParticipantType) []models.CallRecord {
	if pt == models.ParticipantAny {
		return calls
	}

	var out []models.CallRecord
	for _, c := range calls {
		external := c.HasExternalParticipant()
		switch pt {
		case models.ParticipantInternalOnly:
			if !external {
				out = append(out, c)
			}
		case models.ParticipantExternalOnly:
			if external {
				out = append(out, c)
			}
		}
	}
	return out
}

// needsParticipantEnrichment reports whether any candidate lacks a
// participant payload. The paginated listing can omit parties; the
// participant filter cannot be evaluated against an empty list.
func needsParticipantEnrichment(calls []models.CallRecord) bool {
	for _, c := range calls {
		if len(c.Participants) == 0 {
			return true
		}
	}
	return false
}

// enrichParticipants overlays participant lists from a richer listing onto
// the candidate set, keyed by call ID. Candidates absent from the richer
// listing keep whatever they had.
func enrichParticipants(calls, extensive []models.CallRecord) []models.CallRecord {
	byID := make(map[string]models.CallRecord, len(extensive))
	for _, c := range extensive {
		byID[c.ID] = c
	}

	out := make([]models.CallRecord, 0, len(calls))
	for _, c := range calls {
		if full, ok := byID[c.ID]; ok && len(c.Participants) == 0 {
			c.Participants = full.Participants
		}
		out = append(out, c)
	}
	return out
}

// unionOpportunityIDs collects the distinct opportunity IDs across the
// candidates' CRM associations, in first-seen order.
func unionOpportunityIDs(calls []models.CallRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range calls {
		if c.Associations == nil {
			continue
		}
		for _, id := range c.Associations.OpportunityIDs {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// filterByOpportunityTypes keeps calls with at least one associated
// opportunity whose resolved Type is in the requested set.
func filterByOpportunityTypes(calls []models.CallRecord, typesByID map[string]string, wanted []string) []models.CallRecord {
	wantedSet := make(map[string]bool, len(wanted))
	for _, t := range wanted {
		wantedSet[t] = true
	}

	var out []models.CallRecord
	for _, c := range calls {
		if c.Associations == nil {
			continue
		}
		for _, id := range c.Associations.OpportunityIDs {
			if wantedSet[typesByID[id]] {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
