package trends

import (
	"context"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/Yash-97136/Pulse/internal/store"
	"github.com/Yash-97136/Pulse/internal/text"
)

// fakeStore is an in-memory stand-in for the shared store, atomic enough for
// single-goroutine tests.
type fakeStore struct {
	counters    map[string]int64
	expireCalls map[string]int
	zsets       map[string]map[string]float64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		counters:    make(map[string]int64),
		expireCalls: make(map[string]int),
		zsets:       make(map[string]map[string]float64),
	}
}

func (f *fakeStore) IncrWithTTLOnCreate(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.counters[key]++
	if f.counters[key] == 1 {
		f.expireCalls[key]++
	}
	return f.counters[key], nil
}

func (f *fakeStore) zset(key string) map[string]float64 {
	if f.zsets[key] == nil {
		f.zsets[key] = make(map[string]float64)
	}
	return f.zsets[key]
}

func (f *fakeStore) ZIncrBy(_ context.Context, key, member string, delta float64) error {
	f.zset(key)[member] += delta
	return nil
}

func (f *fakeStore) ZAddScore(_ context.Context, key, member string, score float64) error {
	f.zset(key)[member] = score
	return nil
}

func (f *fakeStore) ZScore(_ context.Context, key, member string) (float64, bool, error) {
	score, ok := f.zset(key)[member]
	return score, ok, nil
}

func (f *fakeStore) ZCard(_ context.Context, key string) (int64, error) {
	return int64(len(f.zset(key))), nil
}

func (f *fakeStore) ZCount(_ context.Context, key string, min, max float64) (int64, error) {
	var n int64
	for _, score := range f.zset(key) {
		if score >= min && score <= max {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ZRemRangeByScore(_ context.Context, key string, max float64) (int64, error) {
	var removed int64
	for member, score := range f.zset(key) {
		if score <= max {
			delete(f.zsets[key], member)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeStore) ZRemRangeByRank(_ context.Context, key string, start, stop int64) (int64, error) {
	members := f.sortedAsc(key)
	var removed int64
	for rank, member := range members {
		if int64(rank) >= start && int64(rank) <= stop {
			delete(f.zsets[key], member)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeStore) ZRevRangeWithScores(_ context.Context, key string, start, stop int64) ([]store.Member, error) {
	asc := f.sortedAsc(key)
	out := []store.Member{}
	for i := len(asc) - 1; i >= 0; i-- {
		rank := int64(len(asc) - 1 - i)
		if rank < start || rank > stop {
			continue
		}
		out = append(out, store.Member{Member: asc[i], Score: f.zset(key)[asc[i]]})
	}
	return out, nil
}

func (f *fakeStore) sortedAsc(key string) []string {
	set := f.zset(key)
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	sort.Slice(members, func(a, b int) bool {
		if set[members[a]] != set[members[b]] {
			return set[members[a]] < set[members[b]]
		}
		return members[a] < members[b]
	})
	return members
}

func newTestIngestor(s IngestStore, maxRatio float64) *Ingestor {
	tok := text.NewTokenizer(text.LoadStopwords(nil), 3, 24)
	return NewIngestor(s, tok, time.Hour, maxRatio)
}

func TestIngest_CountsUniqueTokensOnce(t *testing.T) {
	fs := newFakeStore()
	// The very first document carries df/total = 1.0 for all its tokens, so
	// any ratio below 1 would suppress them. A ratio above 1 can never be
	// exceeded, leaving only the per-document dedupe observable.
	ing := newTestIngestor(fs, 2.0)

	if err := ing.Ingest(context.Background(), "bitcoin bitcoin bitcoin rally"); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if got := fs.zset(GlobalKey)["bitcoin"]; got != 1 {
		t.Errorf("global score for repeated token = %v, want 1 (per-document dedupe)", got)
	}
	if got := fs.zset(ActivityKey)["bitcoin"]; got == 0 {
		t.Error("counted token did not receive an activity stamp")
	}
	if got := fs.counters[DFKey("bitcoin")]; got != 1 {
		t.Errorf("df counter = %d, want 1", got)
	}
	if got := fs.counters[DocsTotalKey]; got != 1 {
		t.Errorf("total docs = %d, want 1", got)
	}
}

func TestIngest_UbiquitySuppression(t *testing.T) {
	fs := newFakeStore()
	ing := newTestIngestor(fs, 0.20)

	// Establish a window of 10 documents without the token under test.
	for i := 0; i < 10; i++ {
		if err := ing.Ingest(context.Background(), "filler words everywhere"); err != nil {
			t.Fatalf("Ingest() error = %v", err)
		}
	}

	// 11th document introduces "spam": df=1, total=11, ratio ok -> counted.
	if err := ing.Ingest(context.Background(), "spam appears"); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if got := fs.zset(GlobalKey)["spam"]; got != 1 {
		t.Fatalf("spam score after first doc = %v, want 1", got)
	}

	// Drive spam's df ratio above 20%: after a few more docs df/total > 0.2.
	for i := 0; i < 5; i++ {
		if err := ing.Ingest(context.Background(), "spam again"); err != nil {
			t.Fatalf("Ingest() error = %v", err)
		}
	}

	// df grew with every mention even while suppressed.
	if got := fs.counters[DFKey("spam")]; got != 6 {
		t.Errorf("df counter = %d, want 6", got)
	}
	// Score must be below the mention count: suppression kicked in once the
	// ratio crossed the threshold.
	if got := fs.zset(GlobalKey)["spam"]; got >= 6 {
		t.Errorf("spam score = %v, want < 6 (ubiquity suppression)", got)
	}
}

func TestIngest_LazyTTLOnlyOnCreate(t *testing.T) {
	fs := newFakeStore()
	ing := newTestIngestor(fs, 0.99)

	for i := 0; i < 3; i++ {
		if err := ing.Ingest(context.Background(), "steady topic"); err != nil {
			t.Fatalf("Ingest() error = %v", err)
		}
	}

	if got := fs.expireCalls[DocsTotalKey]; got != 1 {
		t.Errorf("total docs expire calls = %d, want 1", got)
	}
	if got := fs.expireCalls[DFKey("steady")]; got != 1 {
		t.Errorf("df expire calls = %d, want 1", got)
	}
}

func TestIngest_BlankDocumentIsNoop(t *testing.T) {
	fs := newFakeStore()
	ing := newTestIngestor(fs, 0.99)

	if err := ing.Ingest(context.Background(), "   "); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if got := fs.counters[DocsTotalKey]; got != 0 {
		t.Errorf("blank document incremented total docs to %d", got)
	}
}

func TestMaintainer_EvictsStaleActivity(t *testing.T) {
	fs := newFakeStore()
	m := NewMaintainer(fs, time.Minute, 24*time.Hour, 0)

	now := time.Now()
	m.now = func() time.Time { return now }

	fs.zset(ActivityKey)["fresh"] = float64(now.Add(-time.Hour).Unix())
	fs.zset(ActivityKey)["stale"] = float64(now.Add(-25 * time.Hour).Unix())

	m.RunOnce(context.Background())

	if _, ok := fs.zset(ActivityKey)["stale"]; ok {
		t.Error("stale activity entry survived the retention sweep")
	}
	if _, ok := fs.zset(ActivityKey)["fresh"]; !ok {
		t.Error("fresh activity entry was evicted")
	}
}

func TestMaintainer_CapsTrendCardinality(t *testing.T) {
	fs := newFakeStore()
	m := NewMaintainer(fs, time.Minute, 24*time.Hour, 3)

	fs.zset(GlobalKey)["low"] = 1
	fs.zset(GlobalKey)["mid"] = 5
	fs.zset(GlobalKey)["high"] = 10
	fs.zset(GlobalKey)["top"] = 20
	fs.zset(GlobalKey)["peak"] = 40

	m.RunOnce(context.Background())

	if got := len(fs.zset(GlobalKey)); got != 3 {
		t.Fatalf("cardinality after trim = %d, want 3", got)
	}
	for _, survivor := range []string{"high", "top", "peak"} {
		if _, ok := fs.zset(GlobalKey)[survivor]; !ok {
			t.Errorf("high-scoring member %q was trimmed", survivor)
		}
	}
}

func TestReader_TopRange(t *testing.T) {
	fs := newFakeStore()
	now := time.Now()

	fs.zset(GlobalKey)["alpha"] = 30
	fs.zset(GlobalKey)["beta"] = 20
	fs.zset(GlobalKey)["gamma"] = 10
	fs.zset(ActivityKey)["alpha"] = float64(now.Unix())
	fs.zset(ActivityKey)["beta"] = float64(now.Add(-2 * time.Hour).Unix())

	r := NewReader(fs, time.Hour)
	r.now = func() time.Time { return now }

	page, err := r.TopRange(context.Background(), 0, 2)
	if err != nil {
		t.Fatalf("TopRange() error = %v", err)
	}

	if len(page.Metrics) != 2 {
		t.Fatalf("page size = %d, want 2", len(page.Metrics))
	}
	if page.Metrics[0].Keyword != "alpha" || page.Metrics[0].Volume != 30 {
		t.Errorf("first metric = %+v, want alpha/30", page.Metrics[0])
	}
	if page.Metrics[1].Keyword != "beta" {
		t.Errorf("second metric = %+v, want beta", page.Metrics[1])
	}
	if page.Meta.ActiveKeywords != 1 {
		t.Errorf("active keywords = %d, want 1 (only alpha within horizon)", page.Meta.ActiveKeywords)
	}
	if page.Meta.TotalTracked != 3 {
		t.Errorf("total tracked = %d, want 3", page.Meta.TotalTracked)
	}
	if !page.Meta.HasMore || page.Meta.NextOffset != 2 {
		t.Errorf("paging meta = %+v, want hasMore with nextOffset 2", page.Meta)
	}

	if math.IsNaN(float64(page.Meta.TotalVolume)) || page.Meta.TotalVolume != 50 {
		t.Errorf("total volume = %d, want 50", page.Meta.TotalVolume)
	}
}

func TestReader_KeywordVolume(t *testing.T) {
	fs := newFakeStore()
	fs.zset(GlobalKey)["alpha"] = 12

	r := NewReader(fs, time.Hour)

	got, err := r.KeywordVolume(context.Background(), "alpha")
	if err != nil || got != 12 {
		t.Errorf("KeywordVolume(alpha) = %d, %v, want 12, nil", got, err)
	}
	got, err = r.KeywordVolume(context.Background(), "missing")
	if err != nil || got != 0 {
		t.Errorf("KeywordVolume(missing) = %d, %v, want 0, nil", got, err)
	}
}
