package notify

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event is one record read from the notification stream.
type Event struct {
	ID      string
	Payload string
}

// Subscriber tails the notification stream for live consumers (SSE clients).
// Each subscriber reads independently; a slow consumer only falls behind its
// own cursor.
type Subscriber struct {
	client *redis.Client
	stream string
}

// NewSubscriber creates a stream subscriber.
func NewSubscriber(client *redis.Client, stream string) *Subscriber {
	return &Subscriber{client: client, stream: stream}
}

// TailID returns the cursor for "only events from now on".
func (s *Subscriber) TailID() string {
	return "$"
}

// Next blocks up to block for records after lastID and returns them with the
// advanced cursor. A timeout returns no events and the unchanged cursor.
func (s *Subscriber) Next(ctx context.Context, lastID string, block time.Duration) ([]Event, string, error) {
	res, err := s.client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{s.stream, lastID},
		Count:   64,
		Block:   block,
	}).Result()
	if err == redis.Nil {
		return nil, lastID, nil
	}
	if err != nil {
		return nil, lastID, err
	}

	var events []Event
	for _, stream := range res {
		for _, msg := range stream.Messages {
			payload, _ := msg.Values["payload"].(string)
			events = append(events, Event{ID: msg.ID, Payload: payload})
			lastID = msg.ID
		}
	}
	return events, lastID, nil
}
