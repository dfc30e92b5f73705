package trends

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Yash-97136/Pulse/internal/metrics"
	"github.com/Yash-97136/Pulse/internal/text"
)

// IngestStore is the subset of shared-store operations the ingestor needs.
type IngestStore interface {
	IncrWithTTLOnCreate(ctx context.Context, key string, ttl time.Duration) (int64, error)
	ZIncrBy(ctx context.Context, key, member string, delta float64) error
	ZAddScore(ctx context.Context, key, member string, score float64) error
}

// Ingestor consumes document text and updates the global trend counters, the
// activity recency index and the document-frequency window.
type Ingestor struct {
	store      IngestStore
	tokenizer  *text.Tokenizer
	dfTTL      time.Duration
	dfMaxRatio float64
	now        func() time.Time
}

// NewIngestor creates a trend ingestor.
func NewIngestor(store IngestStore, tokenizer *text.Tokenizer, dfTTL time.Duration, dfMaxRatio float64) *Ingestor {
	return &Ingestor{
		store:      store,
		tokenizer:  tokenizer,
		dfTTL:      dfTTL,
		dfMaxRatio: dfMaxRatio,
		now:        time.Now,
	}
}

// Ingest processes one document. Tokens are deduplicated per document, so all
// side effects are idempotent per unique token, not per raw occurrence. Tokens
// appearing in more than dfMaxRatio of recent documents are counted in the
// document-frequency window but not toward the global trend score.
func (i *Ingestor) Ingest(ctx context.Context, body string) error {
	tokens := i.tokenizer.Tokenize(body)
	if len(tokens) == 0 {
		return nil
	}
	unique := text.Unique(tokens)

	totalDocs, err := i.store.IncrWithTTLOnCreate(ctx, DocsTotalKey, i.dfTTL)
	if err != nil {
		return fmt.Errorf("increment total docs: %w", err)
	}
	metrics.DocumentsIngested.Inc()

	nowSec := float64(i.now().Unix())
	for _, token := range unique {
		df, err := i.store.IncrWithTTLOnCreate(ctx, DFKey(token), i.dfTTL)
		if err != nil {
			slog.Warn("failed to increment document frequency", "token", token, "error", err)
			continue
		}

		// The df and total-docs windows expire independently, so the ratio is
		// only approximately bounded; that is acceptable here.
		if totalDocs > 0 && float64(df)/float64(totalDocs) > i.dfMaxRatio {
			metrics.TokensSuppressed.WithLabelValues("ubiquity").Inc()
			continue
		}

		if err := i.store.ZIncrBy(ctx, GlobalKey, token, 1); err != nil {
			slog.Warn("failed to increment trend score", "token", token, "error", err)
			continue
		}
		if err := i.store.ZAddScore(ctx, ActivityKey, token, nowSec); err != nil {
			slog.Warn("failed to stamp keyword activity", "token", token, "error", err)
		}
	}

	return nil
}
