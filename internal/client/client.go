// Package client provides an HTTP client for the callsearch server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/jobs"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
	"github.com/susanpikesquare/crmoverlay-sub005/internal/search"
)

// Client talks to the callsearch API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client.
// If baseURL is empty, uses CALLSEARCH_SERVER_URL env var or defaults to localhost:8484.
// Timeout can be configured via CALLSEARCH_CLIENT_TIMEOUT env var (default 10m for LLM-backed searches).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("CALLSEARCH_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8484"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := 10 * time.Minute
	if t := os.Getenv("CALLSEARCH_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// errorResponse mirrors the server's JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr errorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error: %s - %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("server error: %s - %s", resp.Status, string(data))
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// Search runs a synchronous search and waits for the answer.
func (c *Client) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error) {
	var result models.SearchResult
	if err := c.do(ctx, http.MethodPost, "/search", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListCalls returns the candidate calls a search with the same scope and
// filters would analyze, without running synthesis.
func (c *Client) ListCalls(ctx context.Context, req models.SearchRequest) (*search.CandidateList, error) {
	var list search.CandidateList
	if err := c.do(ctx, http.MethodPost, "/search/calls", req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// SearchAsync submits a search job and returns its initial snapshot.
func (c *Client) SearchAsync(ctx context.Context, req models.SearchRequest) (*jobs.Snapshot, error) {
	var snap jobs.Snapshot
	if err := c.do(ctx, http.MethodPost, "/search/async", req, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetJob fetches the current snapshot of a job.
func (c *Client) GetJob(ctx context.Context, id string) (*jobs.Snapshot, error) {
	var snap jobs.Snapshot
	if err := c.do(ctx, http.MethodGet, "/search/jobs/"+id, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListJobs returns all tracked jobs, most recent first.
func (c *Client) ListJobs(ctx context.Context) ([]jobs.Snapshot, error) {
	var list []jobs.Snapshot
	if err := c.do(ctx, http.MethodGet, "/search/jobs", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Health checks the server is reachable and returns its version.
func (c *Client) Health(ctx context.Context) (string, error) {
	var body map[string]string
	if err := c.do(ctx, http.MethodGet, "/health", nil, &body); err != nil {
		return "", err
	}
	return body["version"], nil
}

// Stats returns the server's operation metrics as raw JSON.
func (c *Client) Stats(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
