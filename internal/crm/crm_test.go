package crm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/crm"
)

func TestEscapeSOQL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Acme Corp", "Acme Corp"},
		{"single quote", "O'Brien Ltd", `O\'Brien Ltd`},
		{"backslash", `a\b`, `a\\b`},
		{"both", `O'Brien\Co`, `O\'Brien\\Co`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := crm.EscapeSOQL(tt.in); got != tt.want {
				t.Errorf("EscapeSOQL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestQuoteIDList(t *testing.T) {
	got := crm.QuoteIDList([]string{"006A", "006B"})
	if got != "'006A','006B'" {
		t.Errorf("QuoteIDList() = %q", got)
	}
	if got := crm.QuoteIDList(nil); got != "" {
		t.Errorf("QuoteIDList(nil) = %q, want empty", got)
	}
}

func TestQueryFollowsPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		if r.URL.Path == "/services/data/v59.0/query" {
			json.NewEncoder(w).Encode(map[string]any{
				"totalSize":      2,
				"done":           false,
				"nextRecordsUrl": "/services/data/v59.0/query/01g-2000",
				"records":        []map[string]any{{"Id": "006A", "Type": "New Business"}},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"totalSize": 2,
			"done":      true,
			"records":   []map[string]any{{"Id": "006B", "Type": "Renewal"}},
		})
	}))
	defer srv.Close()

	client, err := crm.NewSalesforceClient(srv.URL, "token", "v59.0", 5*time.Second)
	require.NoError(t, err)

	res, err := client.Query(context.Background(), "SELECT Id, Type FROM Opportunity")
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "006B", res.Records[1].StringField("Id"))
}

func TestFetchOpportunityContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		switch {
		case strings.Contains(q, "FROM Opportunity"):
			json.NewEncoder(w).Encode(map[string]any{
				"totalSize": 1, "done": true,
				"records": []map[string]any{{
					"Id": "006A", "Name": "Acme Renewal", "StageName": "Negotiation",
					"Amount": 120000.0, "CloseDate": "2026-11-30", "Probability": 70.0,
					"NextStep": "Security review", "AccountId": "001A", "Type": "Renewal",
					"Owner": map[string]any{"Name": "Dana Reeve"},
				}},
			})
		case strings.Contains(q, "FROM Account"):
			json.NewEncoder(w).Encode(map[string]any{
				"totalSize": 1, "done": true,
				"records": []map[string]any{{
					"Id": "001A", "Name": "Acme Corp", "Industry": "Manufacturing",
					"Type": "Customer", "NumberOfEmployees": 5200.0, "AnnualRevenue": 9.5e8,
				}},
			})
		default:
			t.Errorf("unexpected query %q", q)
		}
	}))
	defer srv.Close()

	client, err := crm.NewSalesforceClient(srv.URL, "token", "", 5*time.Second)
	require.NoError(t, err)

	ec, err := crm.FetchOpportunityContext(context.Background(), client, "006A")
	require.NoError(t, err)
	require.NotNil(t, ec.Opportunity)
	require.NotNil(t, ec.Account)
	assert.Equal(t, "Negotiation", ec.Opportunity.Stage)
	assert.Equal(t, "Dana Reeve", ec.Opportunity.Owner)
	assert.Equal(t, "Acme Corp", ec.Account.Name)
}

func TestFetchOpportunityTypes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"totalSize": 2, "done": true,
			"records": []map[string]any{
				{"Id": "006A", "Type": "New Business"},
				{"Id": "006B", "Type": "Renewal"},
			},
		})
	}))
	defer srv.Close()

	client, err := crm.NewSalesforceClient(srv.URL, "token", "", 5*time.Second)
	require.NoError(t, err)

	types, err := crm.FetchOpportunityTypes(context.Background(), client, []string{"006A", "006B"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"006A": "New Business", "006B": "Renewal"}, types)

	// No IDs means no query at all.
	types, err = crm.FetchOpportunityTypes(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, types)
}
