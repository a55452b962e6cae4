// Package events defines the content lifecycle events the planner writes to
// a Redis stream for downstream consumers.
package events

import (
	"time"

	"github.com/google/uuid"
)

// StreamName is the Redis stream for content events.
const StreamName = "content-events"

// EventType names what happened to an item.
type EventType string

const (
	// ContentCreated indicates a new item was stored.
	ContentCreated EventType = "CONTENT_CREATED"
	// ContentDeleted indicates an item was removed.
	ContentDeleted EventType = "CONTENT_DELETED"
)

// ContentEvent is the envelope for all content events.
type ContentEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	Category  string    `json:"category"`
	ItemID    string    `json:"item_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// ContentCreatedPayload carries the new item's title and payload kind.
type ContentCreatedPayload struct {
	Title   string `json:"title"`
	HasLink bool   `json:"has_link"`
}
