package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Yash-97136/Pulse/internal/db"
	"github.com/Yash-97136/Pulse/internal/models"
	"github.com/Yash-97136/Pulse/internal/testutil"
)

func testEvent(keyword string, detectedAt time.Time) *models.AnomalyEvent {
	return &models.AnomalyEvent{
		Keyword:      keyword,
		CurrentCount: 50,
		AverageCount: 20,
		Stddev:       10,
		ZScore:       3.0,
		DetectedAt:   detectedAt,
		WindowStart:  detectedAt.Add(-10 * time.Minute),
		WindowEnd:    detectedAt,
	}
}

func TestInsertAnomaly_DuplicateWindow(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	ev := testEvent("surge", now)
	if err := database.InsertAnomaly(ctx, ev); err != nil {
		t.Fatalf("InsertAnomaly() error = %v", err)
	}
	if ev.ID == 0 {
		t.Error("InsertAnomaly() did not set ID")
	}

	// Same (keyword, window) again: must be reported as a duplicate, and
	// exactly one row must remain.
	dup := testEvent("surge", now)
	err := database.InsertAnomaly(ctx, dup)
	if !errors.Is(err, db.ErrDuplicateAnomaly) {
		t.Fatalf("duplicate InsertAnomaly() error = %v, want ErrDuplicateAnomaly", err)
	}

	events, err := database.QueryAnomalies(ctx, db.AnomalyFilter{Keyword: "surge"}, 0, 10)
	if err != nil {
		t.Fatalf("QueryAnomalies() error = %v", err)
	}
	if len(events) != 1 {
		t.Errorf("stored rows = %d, want 1", len(events))
	}
}

func TestQueryAnomalies_Filters(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	old := testEvent("alpha", now.Add(-2*time.Hour))
	old.ZScore = 3.1
	recent := testEvent("beta", now)
	recent.ZScore = 4.2

	for _, ev := range []*models.AnomalyEvent{old, recent} {
		if err := database.InsertAnomaly(ctx, ev); err != nil {
			t.Fatalf("InsertAnomaly() error = %v", err)
		}
	}

	events, err := database.QueryAnomalies(ctx, db.AnomalyFilter{}, 0, 10)
	if err != nil {
		t.Fatalf("QueryAnomalies() error = %v", err)
	}
	if len(events) != 2 || events[0].Keyword != "beta" {
		t.Errorf("unfiltered query = %+v, want beta first (newest)", events)
	}

	events, err = database.QueryAnomalies(ctx, db.AnomalyFilter{MinZ: 4.0, HasMinZ: true}, 0, 10)
	if err != nil {
		t.Fatalf("QueryAnomalies(minZ) error = %v", err)
	}
	if len(events) != 1 || events[0].Keyword != "beta" {
		t.Errorf("minZ filter = %+v, want only beta", events)
	}

	events, err = database.QueryAnomalies(ctx, db.AnomalyFilter{Since: now.Add(-time.Hour)}, 0, 10)
	if err != nil {
		t.Fatalf("QueryAnomalies(since) error = %v", err)
	}
	if len(events) != 1 || events[0].Keyword != "beta" {
		t.Errorf("since filter = %+v, want only beta", events)
	}
}

func TestCountAnomaliesSince(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := database.InsertAnomaly(ctx, testEvent("gamma", now)); err != nil {
		t.Fatalf("InsertAnomaly() error = %v", err)
	}
	if err := database.InsertAnomaly(ctx, testEvent("delta", now.Add(-3*time.Hour))); err != nil {
		t.Fatalf("InsertAnomaly() error = %v", err)
	}

	count, err := database.CountAnomaliesSince(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountAnomaliesSince() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
