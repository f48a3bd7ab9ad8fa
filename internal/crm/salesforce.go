package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SalesforceClient implements Client against the Salesforce REST query API.
type SalesforceClient struct {
	instanceURL string
	accessToken string
	apiVersion  string
	client      *http.Client
}

// Compile-time check that SalesforceClient implements Client.
var _ Client = (*SalesforceClient)(nil)

// NewSalesforceClient creates a read-only Salesforce query client.
func NewSalesforceClient(instanceURL, accessToken, apiVersion string, timeout time.Duration) (*SalesforceClient, error) {
	if instanceURL == "" || accessToken == "" {
		return nil, fmt.Errorf("salesforce instance URL and access token required")
	}
	if apiVersion == "" {
		apiVersion = "v59.0"
	}

	return &SalesforceClient{
		instanceURL: strings.TrimRight(instanceURL, "/"),
		accessToken: accessToken,
		apiVersion:  apiVersion,
		client:      &http.Client{Timeout: timeout},
	}, nil
}

type queryPage struct {
	TotalSize      int      `json:"totalSize"`
	Done           bool     `json:"done"`
	NextRecordsURL string   `json:"nextRecordsUrl"`
	Records        []Record `json:"records"`
}

// Query executes a SOQL query, following nextRecordsUrl pagination until
// done.
func (s *SalesforceClient) Query(ctx context.Context, soql string) (*QueryResult, error) {
	path := fmt.Sprintf("/services/data/%s/query?q=%s", s.apiVersion, url.QueryEscape(soql))

	result := &QueryResult{}
	for {
		var page queryPage
		if err := s.get(ctx, path, &page); err != nil {
			return nil, fmt.Errorf("soql query: %w", err)
		}

		result.TotalSize = page.TotalSize
		result.Records = append(result.Records, page.Records...)

		if page.Done || page.NextRecordsURL == "" {
			return result, nil
		}
		path = page.NextRecordsURL
	}
}

func (s *SalesforceClient) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.instanceURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("salesforce error: %s - %s", resp.Status, string(data))
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// EscapeSOQL escapes a string literal for inclusion in a SOQL quoted value.
func EscapeSOQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}

// QuoteIDList renders IDs as a SOQL IN clause body: 'a','b','c'.
func QuoteIDList(ids []string) string {
	quoted := make([]string, 0, len(ids))
	for _, id := range ids {
		quoted = append(quoted, "'"+EscapeSOQL(id)+"'")
	}
	return strings.Join(quoted, ",")
}
