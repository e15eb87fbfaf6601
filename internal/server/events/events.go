// Package events publishes domain events produced by the server. Only
// progress improvements are published today.
package events

import (
	"context"
	"time"
)

// ProgressEvent is emitted when a user's stored best score for a subject
// changes.
type ProgressEvent struct {
	UserID     int64     `json:"user_id"`
	Subject    string    `json:"subject"`
	Score      int       `json:"score"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishProgress(ctx context.Context, ev ProgressEvent) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishProgress(context.Context, ProgressEvent) error { return nil }
func (NopPublisher) Close() error                                         { return nil }
