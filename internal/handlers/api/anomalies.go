package api

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Yash-97136/Pulse/internal/db"
	"github.com/Yash-97136/Pulse/internal/models"
	"github.com/Yash-97136/Pulse/internal/notify"
)

const (
	defaultAnomalyLimit = 50
	maxAnomalyLimit     = 200
	streamPollBlock     = 5 * time.Second
)

// AnomalyStore serves persisted anomaly queries.
type AnomalyStore interface {
	QueryAnomalies(ctx context.Context, filter db.AnomalyFilter, page, limit int) ([]models.AnomalyEvent, error)
	CountAnomaliesSince(ctx context.Context, since time.Time) (int64, error)
}

// AnomalyFeed tails the live anomaly stream.
type AnomalyFeed interface {
	TailID() string
	Next(ctx context.Context, lastID string, block time.Duration) ([]notify.Event, string, error)
}

// AnomaliesHandler handles anomaly history queries and the live SSE feed.
type AnomaliesHandler struct {
	store AnomalyStore
	feed  AnomalyFeed
}

// NewAnomaliesHandler creates a new anomalies handler.
func NewAnomaliesHandler(store AnomalyStore, feed AnomalyFeed) *AnomaliesHandler {
	return &AnomaliesHandler{store: store, feed: feed}
}

// List returns a page of persisted anomalies, newest first. Supports keyword,
// min_z and since filters.
func (h *AnomaliesHandler) List(c fiber.Ctx) error {
	page := queryInt(c, "page", 0)
	if page < 0 {
		page = 0
	}
	limit := queryInt(c, "limit", defaultAnomalyLimit)
	if limit < 1 || limit > maxAnomalyLimit {
		limit = defaultAnomalyLimit
	}

	filter := db.AnomalyFilter{Keyword: c.Query("keyword", "")}
	if raw := c.Query("min_z", ""); raw != "" {
		minZ, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "min_z must be a number")
		}
		filter.MinZ = minZ
		filter.HasMinZ = true
	}
	if raw := c.Query("since", ""); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "since must be RFC3339")
		}
		filter.Since = since
	}

	events, err := h.store.QueryAnomalies(c.Context(), filter, page, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch anomalies")
	}

	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	today, err := h.store.CountAnomaliesSince(c.Context(), midnight)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch anomalies")
	}

	return jsonSuccess(c, fiber.Map{
		"anomalies":      events,
		"anomaliesToday": today,
		"page":           page,
		"limit":          limit,
	})
}

// Stream delivers anomalies to the client as server-sent events, starting
// from the moment of connection.
func (h *AnomaliesHandler) Stream(c fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	return c.SendStreamWriter(func(w *bufio.Writer) {
		ctx := context.Background()
		lastID := h.feed.TailID()

		for {
			events, nextID, err := h.feed.Next(ctx, lastID, streamPollBlock)
			if err != nil {
				slog.Warn("anomaly stream read failed", "error", err)
				return
			}
			lastID = nextID

			if len(events) == 0 {
				// Heartbeat comment keeps intermediaries from closing the
				// connection and detects gone clients.
				fmt.Fprint(w, ": ping\n\n")
			}
			for _, ev := range events {
				fmt.Fprintf(w, "id: %s\nevent: anomaly\ndata: %s\n\n", ev.ID, ev.Payload)
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
}
