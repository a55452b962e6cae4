package bootstrap

import (
	"context"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	infraredis "github.com/barjames/funeral-planner/infrastructure/redis"
	"github.com/barjames/funeral-planner/internal/config"
	"github.com/barjames/funeral-planner/internal/events"
	"github.com/redis/go-redis/v9"
)

// EventStream is the optional Redis connection and the publisher on top of it.
// Both are nil when events are disabled or Redis is unreachable.
type EventStream struct {
	Client    *redis.Client
	Publisher *events.Publisher
}

// SetupEventPublisher connects to Redis when events are enabled. The planner
// runs without events if Redis is unavailable.
func SetupEventPublisher(ctx context.Context, cfg *config.Config, log infralogger.Logger) *EventStream {
	if !cfg.Redis.EventsEnabled {
		return &EventStream{}
	}

	client, err := infraredis.NewClient(ctx, infraredis.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis not available, events disabled", infralogger.Error(err))
		return &EventStream{}
	}

	log.Info("Event publisher initialized",
		infralogger.String("redis_address", cfg.Redis.Address),
	)
	return &EventStream{Client: client, Publisher: events.NewPublisher(client, log)}
}

// Ping checks the Redis connection. It is only meaningful when Client is set.
func (s *EventStream) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

// Close releases the Redis connection, if any.
func (s *EventStream) Close(log infralogger.Logger) {
	if s == nil || s.Client == nil {
		return
	}
	if err := s.Client.Close(); err != nil {
		log.Error("Failed to close Redis client", infralogger.Error(err))
	}
}
