package search

import (
	"strings"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
)

// matchByAssociation keeps calls linked to the target CRM record.
func matchByAssociation(calls []models.CallRecord, scope models.Scope, targetID string) []models.CallRecord {
	if targetID == "" {
		return nil
	}

	var out []models.CallRecord
	for _, c := range calls {
		switch scope {
		case models.ScopeAccount:
			if c.AssociatedWithAccount(targetID) {
				out = append(out, c)
			}
		case models.ScopeOpportunity:
			if c.AssociatedWithOpportunity(targetID) {
				out = append(out, c)
			}
		}
	}
	return out
}

// matchByName keeps calls whose title contains the entity name,
// case-insensitively. This is the fallback for incomplete call-to-CRM
// linking: it trades precision for recall and can false-positive on generic
// company names.
func matchByName(calls []models.CallRecord, name string) []models.CallRecord {
	if name == "" {
		return nil
	}
	needle := strings.ToLower(name)

	var out []models.CallRecord
	for _, c := range calls {
		if strings.Contains(strings.ToLower(c.Title), needle) {
			out = append(out, c)
		}
	}
	return out
}
