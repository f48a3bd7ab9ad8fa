package calls

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
)

// GongClient implements Provider against the Gong REST API.
type GongClient struct {
	baseURL   string
	accessKey string
	secret    string
	client    *http.Client
}

// Compile-time check that GongClient implements Provider.
var _ Provider = (*GongClient)(nil)

// NewGongClient creates a call-provider client. timeout bounds each HTTP
// round trip; callers additionally control cancellation via context.
func NewGongClient(baseURL, accessKey, secret string, timeout time.Duration) (*GongClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("call API base URL required")
	}
	if accessKey == "" || secret == "" {
		return nil, fmt.Errorf("call API credentials required")
	}

	return &GongClient{
		baseURL:   baseURL,
		accessKey: accessKey,
		secret:    secret,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// apiParty is the provider's wire shape for a call participant.
type apiParty struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"` // "Internal" or "External"
}

// apiCall is the provider's wire shape for a call.
type apiCall struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Scheduled time.Time  `json:"scheduled"`
	Started   time.Time  `json:"started"`
	Duration  int        `json:"duration"`
	Direction string     `json:"direction"`
	Parties   []apiParty `json:"parties"`
	Topics    []struct {
		Name string `json:"name"`
	} `json:"topics"`
	Context []struct {
		System  string `json:"system"`
		Objects []struct {
			ObjectType string `json:"objectType"`
			ObjectID   string `json:"objectId"`
		} `json:"objects"`
	} `json:"context"`
	URL string `json:"url"`
}

func (a apiCall) toRecord() models.CallRecord {
	rec := models.CallRecord{
		ID:          a.ID,
		Title:       a.Title,
		Scheduled:   a.Scheduled,
		Started:     a.Started,
		DurationSec: a.Duration,
		Direction:   a.Direction,
		URL:         a.URL,
	}
	for _, p := range a.Parties {
		rec.Participants = append(rec.Participants, models.Participant{
			Name:        p.Name,
			Affiliation: models.Affiliation(p.Affiliation),
		})
	}
	for _, t := range a.Topics {
		rec.Topics = append(rec.Topics, t.Name)
	}
	for _, c := range a.Context {
		if c.System != "Salesforce" {
			continue
		}
		if rec.Associations == nil {
			rec.Associations = &models.CrmAssociations{}
		}
		for _, obj := range c.Objects {
			switch obj.ObjectType {
			case "Account":
				rec.Associations.AccountIDs = append(rec.Associations.AccountIDs, obj.ObjectID)
			case "Opportunity":
				rec.Associations.OpportunityIDs = append(rec.Associations.OpportunityIDs, obj.ObjectID)
			}
		}
	}
	return rec
}

type listResponse struct {
	Calls   []apiCall `json:"calls"`
	Records struct {
		Cursor string `json:"cursor"`
	} `json:"records"`
}

// ListCalls pages through /v2/calls until the cursor is exhausted.
func (g *GongClient) ListCalls(ctx context.Context, from, to time.Time) ([]models.CallRecord, error) {
	var out []models.CallRecord
	cursor := ""

	for {
		q := url.Values{}
		q.Set("fromDateTime", from.Format(time.RFC3339))
		q.Set("toDateTime", to.Format(time.RFC3339))
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var page listResponse
		if err := g.do(ctx, http.MethodGet, "/v2/calls?"+q.Encode(), nil, &page); err != nil {
			return nil, fmt.Errorf("list calls: %w", err)
		}

		for _, c := range page.Calls {
			out = append(out, c.toRecord())
		}

		cursor = page.Records.Cursor
		if cursor == "" {
			return out, nil
		}
	}
}

// ListCallsExtensive fetches the full call payload via /v2/calls/extensive,
// including complete participant lists, topic tags, and CRM context.
func (g *GongClient) ListCallsExtensive(ctx context.Context, from, to time.Time) ([]models.CallRecord, error) {
	var out []models.CallRecord
	cursor := ""

	for {
		body := map[string]any{
			"filter": map[string]any{
				"fromDateTime": from.Format(time.RFC3339),
				"toDateTime":   to.Format(time.RFC3339),
			},
			"contentSelector": map[string]any{
				"exposedFields": map[string]any{
					"parties":          true,
					"content":          map[string]any{"topics": true},
					"crmAssociations":  true,
					"interactionStats": false,
				},
			},
		}
		if cursor != "" {
			body["cursor"] = cursor
		}

		var page listResponse
		if err := g.do(ctx, http.MethodPost, "/v2/calls/extensive", body, &page); err != nil {
			return nil, fmt.Errorf("list calls extensive: %w", err)
		}

		for _, c := range page.Calls {
			out = append(out, c.toRecord())
		}

		cursor = page.Records.Cursor
		if cursor == "" {
			return out, nil
		}
	}
}

type transcriptResponse struct {
	CallTranscripts []struct {
		CallID     string `json:"callId"`
		Transcript []struct {
			SpeakerID string `json:"speakerId"`
			Sentences []struct {
				Start float64 `json:"start"`
				End   float64 `json:"end"`
				Text  string  `json:"text"`
			} `json:"sentences"`
		} `json:"transcript"`
	} `json:"callTranscripts"`
}

// FetchTranscripts retrieves all requested transcripts in one batched call.
// One round trip regardless of batch size keeps us inside provider rate
// limits.
func (g *GongClient) FetchTranscripts(ctx context.Context, callIDs []string) (map[string]models.TranscriptRecord, error) {
	result := make(map[string]models.TranscriptRecord, len(callIDs))
	if len(callIDs) == 0 {
		return result, nil
	}

	body := map[string]any{
		"filter": map[string]any{"callIds": callIDs},
	}

	var resp transcriptResponse
	if err := g.do(ctx, http.MethodPost, "/v2/calls/transcript", body, &resp); err != nil {
		return nil, fmt.Errorf("fetch transcripts: %w", err)
	}

	for _, ct := range resp.CallTranscripts {
		rec := models.TranscriptRecord{CallID: ct.CallID}
		for _, seg := range ct.Transcript {
			s := models.Segment{SpeakerID: seg.SpeakerID}
			for _, sent := range seg.Sentences {
				s.Sentences = append(s.Sentences, models.Sentence{
					StartSec: sent.Start,
					EndSec:   sent.End,
					Text:     sent.Text,
				})
			}
			rec.Segments = append(rec.Segments, s)
		}
		result[ct.CallID] = rec
	}

	return result, nil
}

type emailResponse struct {
	Emails []struct {
		ID      string    `json:"id"`
		Subject string    `json:"subject"`
		From    string    `json:"from"`
		To      string    `json:"to"`
		SentAt  time.Time `json:"sentAt"`
		Opened  bool      `json:"opened"`
		Clicked bool      `json:"clicked"`
		Replied bool      `json:"replied"`
		Bounced bool      `json:"bounced"`
	} `json:"emails"`
}

// FetchEmailActivity returns tracked email engagement inside the window.
func (g *GongClient) FetchEmailActivity(ctx context.Context, from, to time.Time) ([]models.EmailActivityRecord, error) {
	q := url.Values{}
	q.Set("fromDateTime", from.Format(time.RFC3339))
	q.Set("toDateTime", to.Format(time.RFC3339))

	var resp emailResponse
	if err := g.do(ctx, http.MethodGet, "/v2/activity/emails?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch email activity: %w", err)
	}

	out := make([]models.EmailActivityRecord, 0, len(resp.Emails))
	for _, e := range resp.Emails {
		out = append(out, models.EmailActivityRecord{
			ID:      e.ID,
			Subject: e.Subject,
			From:    e.From,
			To:      e.To,
			SentAt:  e.SentAt,
			Opened:  e.Opened,
			Clicked: e.Clicked,
			Replied: e.Replied,
			Bounced: e.Bounced,
		})
	}
	return out, nil
}

// do executes one authenticated request and decodes the JSON response.
func (g *GongClient) do(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(g.accessKey, g.secret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider error: %s - %s", resp.Status, string(data))
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
