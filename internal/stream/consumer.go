// Package stream consumes raw documents from the intake Redis stream via a
// consumer group, giving at-least-once delivery of document text into the
// trend ingestor.
package stream

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Yash-97136/Pulse/internal/metrics"
)

// DocumentHandler receives each document's text.
type DocumentHandler interface {
	Ingest(ctx context.Context, body string) error
}

// Consumer reads documents from a Redis stream consumer group and hands their
// text to the ingestor. Per-message failures are counted and skipped; the
// consumer itself only stops on context cancellation.
type Consumer struct {
	client   *redis.Client
	handler  DocumentHandler
	stream   string
	group    string
	consumer string
}

// NewConsumer creates an intake consumer.
func NewConsumer(client *redis.Client, handler DocumentHandler, stream, group, consumer string) *Consumer {
	return &Consumer{
		client:   client,
		handler:  handler,
		stream:   stream,
		group:    group,
		consumer: consumer,
	}
}

// payload is the JSON shape of one intake record's payload field.
type payload struct {
	Text string `json:"text"`
}

// Start bootstraps the stream and group, then blocks reading documents until
// the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	c.ensureGroup(ctx)
	log.Printf("Intake consumer started (stream: %s, group: %s, consumer: %s)",
		c.stream, c.group, c.consumer)

	for {
		select {
		case <-ctx.Done():
			log.Println("Intake consumer stopped")
			return
		default:
		}

		res, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.consumer,
			Streams:  []string{c.stream, ">"},
			Count:    32,
			Block:    time.Second,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Intake consumer: read failed: %v", err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				c.handle(ctx, msg)
			}
		}
	}
}

// handle processes and acknowledges one intake record.
func (c *Consumer) handle(ctx context.Context, msg redis.XMessage) {
	defer func() {
		if err := c.client.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
			log.Printf("Intake consumer: ack failed for %s: %v", msg.ID, err)
		}
	}()

	raw, ok := msg.Values["payload"].(string)
	if !ok || raw == "" {
		return
	}

	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		metrics.StreamMessagesFailed.Inc()
		return
	}
	if p.Text == "" {
		return
	}

	if err := c.handler.Ingest(ctx, p.Text); err != nil {
		metrics.StreamMessagesFailed.Inc()
		log.Printf("Intake consumer: failed to process %s: %v", msg.ID, err)
		return
	}
	metrics.StreamMessagesConsumed.Inc()
}

// ensureGroup creates the consumer group (and stream) if missing.
func (c *Consumer) ensureGroup(ctx context.Context) {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		log.Printf("Intake consumer: could not ensure group %q on %q: %v", c.group, c.stream, err)
	}
}
