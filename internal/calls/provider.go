// Package calls provides access to the conversation-intelligence provider:
// call listings, transcripts, and tracked email activity.
package calls

import (
	"context"
	"time"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/models"
)

// Provider is the call-provider capability consumed by the search core.
// Implementations must be safe for concurrent use.
type Provider interface {
	// ListCalls returns calls started inside the window, via the cheap
	// paginated listing. Participant payloads may be partial.
	ListCalls(ctx context.Context, from, to time.Time) ([]models.CallRecord, error)

	// ListCallsExtensive returns calls with the full payload (complete
	// participant lists, topics, CRM associations). Slower and broader
	// than ListCalls; used for fallback matching and participant
	// filtering.
	ListCallsExtensive(ctx context.Context, from, to time.Time) ([]models.CallRecord, error)

	// FetchTranscripts retrieves transcripts for the given call IDs in a
	// single batched request, keyed by call ID. Missing transcripts are
	// simply absent from the map.
	FetchTranscripts(ctx context.Context, callIDs []string) (map[string]models.TranscriptRecord, error)

	// FetchEmailActivity returns tracked email activity inside the window.
	FetchEmailActivity(ctx context.Context, from, to time.Time) ([]models.EmailActivityRecord, error)
}
