package trends

import (
	"context"
	"log"
	"time"
)

// MaintainStore is the subset of shared-store operations the maintainer needs.
type MaintainStore interface {
	ZRemRangeByScore(ctx context.Context, key string, max float64) (int64, error)
	ZCard(ctx context.Context, key string) (int64, error)
	ZRemRangeByRank(ctx context.Context, key string, start, stop int64) (int64, error)
}

// Maintainer periodically evicts stale activity entries and caps the
// cardinality of the global trend ranking. Both steps are advisory pruning:
// failures are logged and never propagated.
type Maintainer struct {
	store     MaintainStore
	interval  time.Duration
	retention time.Duration
	maxTokens int64
	now       func() time.Time
}

// NewMaintainer creates a retention maintainer.
func NewMaintainer(store MaintainStore, interval, retention time.Duration, maxTokens int64) *Maintainer {
	return &Maintainer{
		store:     store,
		interval:  interval,
		retention: retention,
		maxTokens: maxTokens,
		now:       time.Now,
	}
}

// Start begins the background maintenance loop.
func (m *Maintainer) Start(ctx context.Context) {
	log.Printf("Trend maintainer started (interval: %v, retention: %v, maxTokens: %d)",
		m.interval, m.retention, m.maxTokens)

	// Run immediately on start
	m.RunOnce(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Trend maintainer stopped")
			return
		case <-ticker.C:
			m.RunOnce(ctx)
		}
	}
}

// RunOnce performs one maintenance sweep.
func (m *Maintainer) RunOnce(ctx context.Context) {
	cutoff := float64(m.now().Add(-m.retention).Unix())
	removed, err := m.store.ZRemRangeByScore(ctx, ActivityKey, cutoff)
	if err != nil {
		log.Printf("Trend maintainer: failed to prune activity index: %v", err)
	} else if removed > 0 {
		log.Printf("Trend maintainer: pruned %d stale activity entries", removed)
	}

	size, err := m.store.ZCard(ctx, GlobalKey)
	if err != nil {
		log.Printf("Trend maintainer: failed to read trend cardinality: %v", err)
		return
	}
	if m.maxTokens > 0 && size > m.maxTokens {
		toRemove := size - m.maxTokens
		if _, err := m.store.ZRemRangeByRank(ctx, GlobalKey, 0, toRemove-1); err != nil {
			log.Printf("Trend maintainer: failed to trim trend ranking: %v", err)
			return
		}
		log.Printf("Trend maintainer: trimmed trend ranking from %d to %d (removed %d)",
			size, m.maxTokens, toRemove)
	}
}
