package models

import "time"

// AnomalyEvent is an immutable record of a detected keyword surge.
// At most one event is stored per (keyword, window_start, window_end).
type AnomalyEvent struct {
	ID           int64     `json:"id"`
	Keyword      string    `json:"keyword"`
	CurrentCount int64     `json:"current_count"`
	AverageCount float64   `json:"average_count"`
	Stddev       float64   `json:"stddev"`
	ZScore       float64   `json:"z_score"`
	DetectedAt   time.Time `json:"detected_at"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
}
