// Package events publishes content lifecycle events to Redis Streams.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	infraevents "github.com/barjames/funeral-planner/infrastructure/events"
	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// asyncPublishTimeout bounds each background publish.
const asyncPublishTimeout = 5 * time.Second

// Publisher writes content events to the Redis stream.
type Publisher struct {
	client *redis.Client
	log    infralogger.Logger
}

// NewPublisher creates a publisher. Returns nil if client is nil; a nil
// publisher accepts every call and does nothing.
func NewPublisher(client *redis.Client, log infralogger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	return &Publisher{client: client, log: log}
}

// Publish appends event to the stream, filling in ID and timestamp when unset.
func (p *Publisher) Publish(ctx context.Context, event infraevents.ContentEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: infraevents.StreamName,
		Values: map[string]any{"event": string(payload)},
	})
	if publishErr := result.Err(); publishErr != nil {
		return fmt.Errorf("publish to stream: %w", publishErr)
	}

	if p.log != nil {
		p.log.Debug("Published content event",
			infralogger.String("event_type", string(event.EventType)),
			infralogger.String("item_id", event.ItemID),
			infralogger.String("stream_id", result.Val()),
		)
	}
	return nil
}

// PublishAsync publishes in the background. Errors are logged, not returned.
func (p *Publisher) PublishAsync(event infraevents.ContentEvent) {
	if p == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil && p.log != nil {
			p.log.Error("Async publish failed",
				infralogger.String("event_type", string(event.EventType)),
				infralogger.String("item_id", event.ItemID),
				infralogger.Error(err),
			)
		}
	}()
}

// ContentCreated publishes a CONTENT_CREATED event.
func (p *Publisher) ContentCreated(cat models.Category, item models.ContentItem) {
	p.PublishAsync(infraevents.ContentEvent{
		EventType: infraevents.ContentCreated,
		Category:  cat.Key,
		ItemID:    item.ID,
		Timestamp: item.CreatedAt,
		Payload: infraevents.ContentCreatedPayload{
			Title:   item.Title,
			HasLink: cat.RequiresLink(),
		},
	})
}

// ContentDeleted publishes a CONTENT_DELETED event.
func (p *Publisher) ContentDeleted(cat models.Category, id string) {
	p.PublishAsync(infraevents.ContentEvent{
		EventType: infraevents.ContentDeleted,
		Category:  cat.Key,
		ItemID:    id,
	})
}
