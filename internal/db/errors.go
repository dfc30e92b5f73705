package db

import "errors"

// Domain-level database error sentinels.
var (
	// ErrDuplicateAnomaly marks an insert that collided with an existing
	// (keyword, window_start, window_end) row. Callers treat it as
	// already-recorded, not a failure.
	ErrDuplicateAnomaly = errors.New("anomaly already recorded for this window")
)
