// Package notify delivers fire-and-forget user notifications to an
// external dispatcher. Delivery failures are logged and dropped; a
// notification must never roll back or delay a ledger mutation.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Event is a single user-facing notification
type Event struct {
	UserID  string `json:"user_id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	KindPurchaseApplied = "purchase_applied"
	KindReplayFailed    = "pending_replay_failed"
)

// Dispatcher sends events without blocking the caller
type Dispatcher interface {
	Dispatch(event Event)
}

type webhookDispatcher struct {
	url    string
	client *http.Client
}

// NewWebhook creates a dispatcher that POSTs events to the given URL.
// An empty URL yields a no-op dispatcher.
func NewWebhook(url string) Dispatcher {
	if url == "" {
		return Nop{}
	}
	return &webhookDispatcher{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *webhookDispatcher) Dispatch(event Event) {
	go func() {
		body, err := json.Marshal(event)
		if err != nil {
			log.Warn().Err(err).Msg("notification encode failed")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
		if err != nil {
			log.Warn().Err(err).Msg("notification request failed")
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			log.Warn().Err(err).Str("kind", event.Kind).Msg("notification delivery failed")
			return
		}
		resp.Body.Close()
	}()
}

// Nop discards all events
type Nop struct{}

func (Nop) Dispatch(Event) {}
