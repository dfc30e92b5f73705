// Package detect implements the detection side of the pipeline: the history
// recorder, the z-score anomaly detector with emission hysteresis, and the
// lease-coordinated scheduler that keeps at most one detector active across
// process instances.
package detect

// Shared-store keys owned by the detection pipeline.
const (
	// LastCountsKey is the hash of keyword -> last count written to history.
	LastCountsKey = "trends:last_counts"

	historyKeyPrefix = "trends:history:"
	lastZKeyPrefix   = "anomaly:last_emitted_z:"
)

// HistoryKey returns the rolling history list key for a keyword.
func HistoryKey(keyword string) string {
	return historyKeyPrefix + keyword
}

// LastZKey returns the last-emitted-z snapshot key for a keyword.
func LastZKey(keyword string) string {
	return lastZKeyPrefix + keyword
}
