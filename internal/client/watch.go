package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/susanpikesquare/crmoverlay-sub005/internal/jobs"
)

// WatchJob streams job snapshots over a WebSocket until the job finishes.
// The onUpdate callback is invoked for each snapshot; return an error from
// onUpdate to abort. The terminal snapshot is returned.
func (c *Client) WatchJob(ctx context.Context, id string, onUpdate func(snap jobs.Snapshot) error) (*jobs.Snapshot, error) {
	wsURL := c.baseURL
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL += "/search/jobs/" + id + "/watch"

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket connect: %w (status %s)", err, resp.Status)
		}
		return nil, fmt.Errorf("websocket connect: %w", err)
	}
	defer conn.Close()

	// Unblock reads when the caller gives up.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var snap jobs.Snapshot
		if err := conn.ReadJSON(&snap); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
		if onUpdate != nil {
			if err := onUpdate(snap); err != nil {
				return nil, err
			}
		}
		if snap.Status.Terminal() {
			return &snap, nil
		}
	}
}
