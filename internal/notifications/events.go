// Package notifications delivers live feed events to websocket clients.
package notifications

import (
	"encoding/json"
	"fmt"
)

// Live feed event types.
const (
	EventPostCreated         = "post.created"
	EventPostDeleted         = "post.deleted"
	EventPostReactionUpdated = "post.reaction_updated"
)

// Event is the envelope written to every feed client.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Encode renders an event as the JSON text sent over the wire.
func Encode(eventType string, payload any) (string, error) {
	b, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		return "", fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return string(b), nil
}
