package detect

import (
	"context"
	"log"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/Yash-97136/Pulse/internal/metrics"
	"github.com/Yash-97136/Pulse/internal/trends"
)

// RecordStore is the subset of shared-store operations the recorder needs.
type RecordStore interface {
	ZRangeByScoreMin(ctx context.Context, key string, min float64) ([]string, error)
	ZScore(ctx context.Context, key, member string) (float64, bool, error)
	HMGet(ctx context.Context, key string, fields []string) (map[string]string, error)
	HSetMap(ctx context.Context, key string, kv map[string]string) error
	LPushTrimExpire(ctx context.Context, key, value string, keep int64, ttl time.Duration) error
}

// Recorder periodically samples the current trend score of recently active
// keywords into their rolling history buffers. A keyword is sampled only when
// its count changed since the previous sample; repeated identical samples
// would flatten the baseline variance and make every observation look
// anomalous. Its writes are idempotent per value, so it runs unleased.
type Recorder struct {
	store      RecordStore
	interval   time.Duration
	horizon    time.Duration
	window     int
	historyTTL time.Duration
	now        func() time.Time
}

// NewRecorder creates a history recorder.
func NewRecorder(store RecordStore, interval, horizon time.Duration, window int, historyTTL time.Duration) *Recorder {
	return &Recorder{
		store:      store,
		interval:   interval,
		horizon:    horizon,
		window:     window,
		historyTTL: historyTTL,
		now:        time.Now,
	}
}

// Start begins the background sampling loop.
func (r *Recorder) Start(ctx context.Context) {
	log.Printf("History recorder started (interval: %v, horizon: %v, window: %d)",
		r.interval, r.horizon, r.window)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("History recorder stopped")
			return
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				log.Printf("History recorder: pass failed: %v", err)
			}
		}
	}
}

// RunOnce performs one sampling pass over the active keywords.
func (r *Recorder) RunOnce(ctx context.Context) error {
	minSeen := float64(r.now().Add(-r.horizon).Unix())
	candidates, err := r.store.ZRangeByScoreMin(ctx, trends.ActivityKey, minSeen)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	prev, err := r.store.HMGet(ctx, LastCountsKey, candidates)
	if err != nil {
		return err
	}

	changed := make(map[string]string)
	for _, keyword := range candidates {
		score, ok, err := r.store.ZScore(ctx, trends.GlobalKey, keyword)
		if err != nil {
			slog.Warn("failed to read trend score", "keyword", keyword, "error", err)
			continue
		}
		if !ok {
			// Evicted from the ranking but still in the activity index; it
			// will be rediscovered on its next mention.
			continue
		}

		count := strconv.FormatInt(int64(math.Round(score)), 10)
		if prev[keyword] == count {
			continue
		}

		if err := r.store.LPushTrimExpire(ctx, HistoryKey(keyword), count, int64(r.window), r.historyTTL); err != nil {
			slog.Warn("failed to append history sample", "keyword", keyword, "error", err)
			continue
		}
		metrics.HistorySamplesRecorded.Inc()
		changed[keyword] = count
	}

	if len(changed) == 0 {
		return nil
	}
	return r.store.HSetMap(ctx, LastCountsKey, changed)
}
