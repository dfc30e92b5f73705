package detect

import (
	"context"
	"log"
	"log/slog"
	"strconv"
	"time"

	"github.com/Yash-97136/Pulse/internal/metrics"
	"github.com/Yash-97136/Pulse/internal/models"
	"github.com/Yash-97136/Pulse/internal/trends"
)

// DetectStore is the subset of shared-store operations the detector needs.
type DetectStore interface {
	ZRangeByScoreMin(ctx context.Context, key string, min float64) ([]string, error)
	ZRemRangeByScore(ctx context.Context, key string, max float64) (int64, error)
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
}

// Sink receives detected anomaly events.
type Sink interface {
	Emit(ctx context.Context, ev *models.AnomalyEvent) error
}

// Options are the detection tuning knobs.
type Options struct {
	ZThreshold        float64
	MinSamples        int
	BaselineVolumeMin float64
	MinZStep          float64
	LastZTTL          time.Duration
	HistoryWindow     int
	SampleInterval    time.Duration
	ActivityHorizon   time.Duration
	ActivityRetention time.Duration
}

// Detector evaluates each active keyword's rolling history against its
// baseline and emits an anomaly when the newest sample's z-score passes the
// threshold under the cross/step hysteresis rule.
type Detector struct {
	store DetectStore
	sink  Sink
	opts  Options
	now   func() time.Time
}

// NewDetector creates an anomaly detector.
func NewDetector(store DetectStore, sink Sink, opts Options) *Detector {
	return &Detector{store: store, sink: sink, opts: opts, now: time.Now}
}

// Run performs one detection pass. Per-keyword insufficiencies (short history,
// flat or sub-floor baseline) are skips, not errors; only a failure to select
// candidates aborts the pass.
func (d *Detector) Run(ctx context.Context) error {
	now := d.now()

	// The detector trims the recency index on its own, tighter horizon; the
	// ingest-side maintainer applies the long one. Both prune the same index
	// and either may win.
	cutoff := float64(now.Add(-d.opts.ActivityRetention).Unix())
	if _, err := d.store.ZRemRangeByScore(ctx, trends.ActivityKey, cutoff); err != nil {
		slog.Warn("failed to trim activity index", "error", err)
	}

	minSeen := float64(now.Add(-d.opts.ActivityHorizon).Unix())
	candidates, err := d.store.ZRangeByScoreMin(ctx, trends.ActivityKey, minSeen)
	if err != nil {
		return err
	}

	for _, keyword := range candidates {
		d.evaluate(ctx, keyword, now)
	}
	return nil
}

// evaluate runs the per-keyword state machine for one tick.
func (d *Detector) evaluate(ctx context.Context, keyword string, now time.Time) {
	entries, err := d.store.LRange(ctx, HistoryKey(keyword), 0, -1)
	if err != nil {
		slog.Warn("failed to read history", "keyword", keyword, "error", err)
		return
	}

	history := parseCounts(entries)
	if len(history) < d.opts.MinSamples {
		return
	}

	current := history[0]
	baseline := history[1:]
	if len(baseline) < 2 {
		return
	}

	mean, stddev := baselineStats(baseline)
	if mean < d.opts.BaselineVolumeMin {
		metrics.AnomaliesSuppressed.WithLabelValues("low_baseline").Inc()
		return
	}
	if stddev <= 0 {
		// A flat baseline cannot support a z-score.
		return
	}

	z := (float64(current) - mean) / stddev

	eligible, err := d.eligible(ctx, keyword, z)
	if err != nil {
		slog.Warn("failed to check emission eligibility", "keyword", keyword, "error", err)
		return
	}
	if !eligible {
		return
	}

	ev := &models.AnomalyEvent{
		Keyword:      keyword,
		CurrentCount: current,
		AverageCount: mean,
		Stddev:       stddev,
		ZScore:       z,
		DetectedAt:   now,
		WindowStart:  now.Add(-time.Duration(d.opts.HistoryWindow) * d.opts.SampleInterval),
		WindowEnd:    now,
	}
	if err := d.sink.Emit(ctx, ev); err != nil {
		log.Printf("Anomaly detector: emit failed for %q: %v", keyword, err)
	}
}

// eligible applies the cross/step hysteresis rule. An eligible keyword's
// last-emitted-z snapshot is updated before emission is attempted, so a
// persistence failure rate-limits the next re-emission instead of retrying
// immediately.
func (d *Detector) eligible(ctx context.Context, keyword string, z float64) (bool, error) {
	key := LastZKey(keyword)
	prevStr, hasPrev, err := d.store.GetString(ctx, key)
	if err != nil {
		return false, err
	}

	var zPrev float64
	if hasPrev {
		zPrev, err = strconv.ParseFloat(prevStr, 64)
		if err != nil {
			hasPrev = false
		}
	}

	crossed := (!hasPrev || zPrev < d.opts.ZThreshold) && z >= d.opts.ZThreshold
	stepped := hasPrev && z >= d.opts.ZThreshold && (z-zPrev) >= d.opts.MinZStep
	if !crossed && !stepped {
		return false, nil
	}

	if err := d.store.SetString(ctx, key, strconv.FormatFloat(z, 'f', -1, 64), d.opts.LastZTTL); err != nil {
		return false, err
	}
	return true, nil
}

// parseCounts converts raw history entries to counts, dropping anything
// unparsable.
func parseCounts(entries []string) []int64 {
	out := make([]int64, 0, len(entries))
	for _, e := range entries {
		n, err := strconv.ParseInt(e, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
