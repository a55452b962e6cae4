// Package context holds the timeouts shared by startup and health probes.
package context

import (
	"context"
	"time"
)

const (
	// DefaultPingTimeout bounds connectivity checks against the database and Redis.
	DefaultPingTimeout = 5 * time.Second
	// DefaultRequestTimeout bounds a single CLI round trip to the API.
	DefaultRequestTimeout = 30 * time.Second
)

// WithPingTimeout derives a context bounded by DefaultPingTimeout.
func WithPingTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultPingTimeout)
}

// WithRequestTimeout derives a context bounded by DefaultRequestTimeout.
func WithRequestTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultRequestTimeout)
}
