package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
)

func internalCall(id string) models.CallRecord {
	return models.CallRecord{
		ID: id,
		Participants: []models.Participant{
			{Name: "A", Affiliation: models.AffiliationInternal},
			{Name: "B", Affiliation: models.AffiliationInternal},
		},
	}
}

func externalCall(id string) models.CallRecord {
	return models.CallRecord{
		ID: id,
		Participants: []models.Participant{
			{Name: "A", Affiliation: models.AffiliationInternal},
			{Name: "C", Affiliation: models.AffiliationExternal},
		},
	}
}

func TestFilterByParticipants(t *testing.T) {
	calls := []models.CallRecord{internalCall("i1"), externalCall("e1"), internalCall("i2")}

	internal := filterByParticipants(calls, models.ParticipantInternalOnly)
	assert.Equal(t, []string{"i1", "i2"}, callIDs(internal))

	external := filterByParticipants(calls, models.ParticipantExternalOnly)
	assert.Equal(t, []string{"e1"}, callIDs(external))

	assert.Len(t, filterByParticipants(calls, models.ParticipantAny), 3)
}

func TestNeedsParticipantEnrichment(t *testing.T) {
	assert.False(t, needsParticipantEnrichment([]models.CallRecord{internalCall("a")}))
	assert.True(t, needsParticipantEnrichment([]models.CallRecord{internalCall("a"), {ID: "bare"}}))
}

func TestEnrichParticipants(t *testing.T) {
	sparse := []models.CallRecord{{ID: "a", Title: "Sparse"}, internalCall("b")}
	extensive := []models.CallRecord{externalCall("a"), externalCall("b")}

	out := enrichParticipants(sparse, extensive)

	assert.True(t, out[0].HasExternalParticipant(), "missing participants overlaid")
	assert.Equal(t, "Sparse", out[0].Title, "listing fields kept")
	assert.False(t, out[1].HasExternalParticipant(), "populated calls untouched")
}

func TestMatchByAssociation(t *testing.T) {
	calls := []models.CallRecord{
		{ID: "c1", Associations: &models.CrmAssociations{AccountIDs: []string{"acc1"}}},
		{ID: "c2", Associations: &models.CrmAssociations{AccountIDs: []string{"acc2"}, OpportunityIDs: []string{"opp1"}}},
		{ID: "c3"},
	}

	assert.Equal(t, []string{"c1"}, callIDs(matchByAssociation(calls, models.ScopeAccount, "acc1")))
	assert.Equal(t, []string{"c2"}, callIDs(matchByAssociation(calls, models.ScopeOpportunity, "opp1")))
	assert.Nil(t, matchByAssociation(calls, models.ScopeAccount, ""))
	assert.Nil(t, matchByAssociation(calls, models.ScopeAccount, "acc9"))
}

func TestMatchByName(t *testing.T) {
	calls := []models.CallRecord{
		{ID: "c1", Title: "Acme Corp <> Vendor weekly"},
		{ID: "c2", Title: "ACME CORP kickoff"},
		{ID: "c3", Title: "Globex renewal"},
	}

	assert.Equal(t, []string{"c1", "c2"}, callIDs(matchByName(calls, "Acme Corp")))
	assert.Nil(t, matchByName(calls, ""))
}

func TestUnionOpportunityIDs(t *testing.T) {
	calls := []models.CallRecord{
		{ID: "c1", Associations: &models.CrmAssociations{OpportunityIDs: []string{"o1", "o2"}}},
		{ID: "c2"},
		{ID: "c3", Associations: &models.CrmAssociations{OpportunityIDs: []string{"o2", "o3"}}},
	}

	assert.Equal(t, []string{"o1", "o2", "o3"}, unionOpportunityIDs(calls))
}

func TestFilterByOpportunityTypes(t *testing.T) {
	calls := []models.CallRecord{
		{ID: "c1", Associations: &models.CrmAssociations{OpportunityIDs: []string{"o1"}}},
		{ID: "c2", Associations: &models.CrmAssociations{OpportunityIDs: []string{"o2"}}},
		{ID: "c3"},
	}
	types := map[string]string{"o1": "New Business", "o2": "Renewal"}

	out := filterByOpportunityTypes(calls, types, []string{"Renewal"})
	assert.Equal(t, []string{"c2"}, callIDs(out))
}

func callIDs(calls []models.CallRecord) []string {
	if calls == nil {
		return nil
	}
	ids := make([]string, len(calls))
	for i, c := range calls {
		ids[i] = c.ID
	}
	return ids
}
