package trends

import (
	"context"
	"math"
	"time"

	"github.com/Yash-97136/Pulse/internal/models"
	"github.com/Yash-97136/Pulse/internal/store"
)

// ReadStore is the subset of shared-store operations the trend reader needs.
type ReadStore interface {
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]store.Member, error)
	ZCard(ctx context.Context, key string) (int64, error)
	ZCount(ctx context.Context, key string, min, max float64) (int64, error)
	ZScore(ctx context.Context, key, member string) (float64, bool, error)
}

// Reader serves query-side views of the trend ranking.
type Reader struct {
	store           ReadStore
	activityHorizon time.Duration
	now             func() time.Time
}

// NewReader creates a trend reader.
func NewReader(s ReadStore, activityHorizon time.Duration) *Reader {
	return &Reader{store: s, activityHorizon: activityHorizon, now: time.Now}
}

// TopRange returns a page of the keyword ranking ordered by score descending,
// with paging and activity metadata.
func (r *Reader) TopRange(ctx context.Context, offset, limit int) (*models.TrendsPage, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 1
	}
	stop := int64(offset + limit - 1)

	members, err := r.store.ZRevRangeWithScores(ctx, GlobalKey, int64(offset), stop)
	if err != nil {
		return nil, err
	}

	page := &models.TrendsPage{Metrics: make([]models.TrendMetric, 0, len(members))}
	for _, m := range members {
		volume := int64(math.Round(m.Score))
		page.Meta.TotalVolume += volume
		page.Metrics = append(page.Metrics, models.TrendMetric{Keyword: m.Member, Volume: volume})
	}

	tracked, err := r.store.ZCard(ctx, GlobalKey)
	if err != nil {
		return nil, err
	}
	windowStart := float64(r.now().Add(-r.activityHorizon).Unix())
	active, err := r.store.ZCount(ctx, ActivityKey, windowStart, math.Inf(1))
	if err != nil {
		return nil, err
	}
	// The activity index may briefly hold entries for keywords already evicted
	// from the ranking; cap the KPI by what is actually tracked.
	if active > tracked {
		active = tracked
	}

	page.Meta.ActiveKeywords = active
	page.Meta.TotalTracked = tracked
	page.Meta.NextOffset = offset + len(page.Metrics)
	page.Meta.HasMore = int64(page.Meta.NextOffset) < tracked
	page.Meta.GeneratedAt = r.now()
	return page, nil
}

// KeywordVolume returns the current trend score for a single keyword, zero if
// the keyword is not tracked.
func (r *Reader) KeywordVolume(ctx context.Context, keyword string) (int64, error) {
	score, ok, err := r.store.ZScore(ctx, GlobalKey, keyword)
	if err != nil || !ok {
		return 0, err
	}
	return int64(math.Round(score)), nil
}
