// Package notify publishes detected anomalies to the live notification stream
// and lets API clients follow it. Publication is best-effort: the database row
// is the durability source of truth.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Yash-97136/Pulse/internal/models"
)

// StreamAppender appends records to a shared-store stream.
type StreamAppender interface {
	XAdd(ctx context.Context, stream string, values map[string]interface{}) error
}

// StreamPublisher writes anomaly events to a Redis stream as JSON payloads.
type StreamPublisher struct {
	store  StreamAppender
	stream string
}

// NewStreamPublisher creates a publisher for the given stream.
func NewStreamPublisher(store StreamAppender, stream string) *StreamPublisher {
	return &StreamPublisher{store: store, stream: stream}
}

// PublishAnomaly appends the event to the notification stream.
func (p *StreamPublisher) PublishAnomaly(ctx context.Context, ev *models.AnomalyEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal anomaly: %w", err)
	}
	return p.store.XAdd(ctx, p.stream, map[string]interface{}{
		"keyword": ev.Keyword,
		"payload": string(payload),
	})
}
