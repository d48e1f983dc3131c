package api

import "context"

// Event is one analytics envelope posted to the ingestion endpoint.
type Event struct {
	EventID       string         `json:"event_id"`
	Name          string         `json:"name"`
	CorrelationID string         `json:"correlation_id"`
	Timestamp     string         `json:"ts"`
	Payload       map[string]any `json:"payload,omitempty"`
}

// PublishEvent delivers a single analytics event. Callers treat failures as
// best-effort; nothing user-facing depends on this call.
func (c *Client) PublishEvent(ctx context.Context, event Event) error {
	return c.postJSON(ctx, "/events", event, nil)
}
