// Package trends maintains the global keyword ranking: per-document ingestion
// with ubiquity suppression, the activity recency index, and the periodic
// retention sweep that keeps both bounded.
package trends

// Shared-store keys owned by the trends pipeline. The detection side reads
// GlobalKey and ActivityKey but never writes them.
const (
	// GlobalKey is the sorted set mapping keyword -> cumulative trend score.
	GlobalKey = "trends:global"

	// ActivityKey is the sorted set mapping keyword -> last-seen epoch seconds.
	ActivityKey = "trends:lastSeen"

	// DocsTotalKey is the rolling total-document counter.
	DocsTotalKey = "trends:docs_total"

	// StopwordsKey is the set of runtime stopword extras.
	StopwordsKey = "trends:stopwords"

	dfKeyPrefix = "trends:df:"
)

// DFKey returns the document-frequency counter key for a token.
func DFKey(token string) string {
	return dfKeyPrefix + token
}
