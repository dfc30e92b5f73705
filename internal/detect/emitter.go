package detect

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"

	"github.com/Yash-97136/Pulse/internal/db"
	"github.com/Yash-97136/Pulse/internal/metrics"
	"github.com/Yash-97136/Pulse/internal/models"
)

// Saver persists anomaly events idempotently.
type Saver interface {
	InsertAnomaly(ctx context.Context, ev *models.AnomalyEvent) error
}

// Publisher pushes anomaly events to the live notification channel.
type Publisher interface {
	PublishAnomaly(ctx context.Context, ev *models.AnomalyEvent) error
}

// Emitter persists detected anomalies and publishes them downstream.
// Persistence is the source of truth; publication is best-effort and its
// failure is swallowed.
type Emitter struct {
	saver     Saver
	publisher Publisher
}

// NewEmitter creates an anomaly emitter. publisher may be nil to disable
// live notification.
func NewEmitter(saver Saver, publisher Publisher) *Emitter {
	return &Emitter{saver: saver, publisher: publisher}
}

// Emit stores the event and, on first successful store, publishes it. An event
// already stored for the same (keyword, window) is treated as handled.
func (e *Emitter) Emit(ctx context.Context, ev *models.AnomalyEvent) error {
	if err := e.saver.InsertAnomaly(ctx, ev); err != nil {
		if errors.Is(err, db.ErrDuplicateAnomaly) {
			return nil
		}
		return fmt.Errorf("persist anomaly: %w", err)
	}
	metrics.AnomaliesEmitted.Inc()

	if e.publisher != nil {
		if err := e.publisher.PublishAnomaly(ctx, ev); err != nil {
			slog.Warn("anomaly publish failed (non-fatal)", "keyword", ev.Keyword, "error", err)
		}
	}

	log.Printf("Anomaly: kw=%q curr=%d mean=%.2f std=%.2f z=%.2f",
		ev.Keyword, ev.CurrentCount, ev.AverageCount, ev.Stddev, ev.ZScore)
	return nil
}
