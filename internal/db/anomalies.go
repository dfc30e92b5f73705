package db

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Yash-97136/Pulse/internal/models"
)

// anomalyColumns is the standard column list for anomaly queries.
const anomalyColumns = `id, keyword, current_count, average_count, stddev, z_score,
	detected_at, window_start, window_end`

// AnomalyFilter narrows an anomaly listing. Zero values mean "no filter".
type AnomalyFilter struct {
	Keyword string
	MinZ    float64
	HasMinZ bool
	Since   time.Time
}

// InsertAnomaly stores an anomaly event. A collision on the
// (keyword, window_start, window_end) uniqueness constraint returns
// ErrDuplicateAnomaly and leaves the stored row untouched.
func (d *DB) InsertAnomaly(ctx context.Context, ev *models.AnomalyEvent) error {
	query := `
		INSERT INTO anomalies (keyword, current_count, average_count, stddev, z_score,
			detected_at, window_start, window_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := d.Pool.QueryRow(ctx, query,
		ev.Keyword,
		ev.CurrentCount,
		ev.AverageCount,
		ev.Stddev,
		ev.ZScore,
		ev.DetectedAt,
		ev.WindowStart,
		ev.WindowEnd,
	).Scan(&ev.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateAnomaly
		}
		return err
	}

	return nil
}

// QueryAnomalies returns a page of anomaly events matching the filter,
// newest first. limit is clamped to [1, 200].
func (d *DB) QueryAnomalies(ctx context.Context, filter AnomalyFilter, page, limit int) ([]models.AnomalyEvent, error) {
	if page < 0 {
		page = 0
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 200 {
		limit = 200
	}

	var (
		conditions []string
		args       []any
	)
	if filter.Keyword != "" {
		args = append(args, filter.Keyword)
		conditions = append(conditions, "keyword = $"+strconv.Itoa(len(args)))
	}
	if filter.HasMinZ {
		args = append(args, filter.MinZ)
		conditions = append(conditions, "z_score >= $"+strconv.Itoa(len(args)))
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		conditions = append(conditions, "detected_at >= $"+strconv.Itoa(len(args)))
	}

	query := "SELECT " + anomalyColumns + " FROM anomalies"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit)
	query += " ORDER BY detected_at DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, page*limit)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanAnomalies(rows)
}

// CountAnomaliesSince counts events detected at or after ts.
func (d *DB) CountAnomaliesSince(ctx context.Context, ts time.Time) (int64, error) {
	var count int64
	err := d.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM anomalies WHERE detected_at >= $1", ts,
	).Scan(&count)
	return count, err
}

// scanAnomalies scans multiple rows into a slice of events.
func scanAnomalies(rows pgx.Rows) ([]models.AnomalyEvent, error) {
	defer rows.Close()

	var events []models.AnomalyEvent
	for rows.Next() {
		var ev models.AnomalyEvent
		if err := rows.Scan(
			&ev.ID,
			&ev.Keyword,
			&ev.CurrentCount,
			&ev.AverageCount,
			&ev.Stddev,
			&ev.ZScore,
			&ev.DetectedAt,
			&ev.WindowStart,
			&ev.WindowEnd,
		); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
