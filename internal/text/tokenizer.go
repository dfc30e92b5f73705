package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tokenizer turns raw document text into normalized candidate keywords.
// It is stateless across calls and never fails; malformed input produces an
// empty result rather than an error.
type Tokenizer struct {
	stopwords *Stopwords
	minLen    int
	maxLen    int
}

// NewTokenizer creates a tokenizer with the given stopword set and token
// length bounds.
func NewTokenizer(stopwords *Stopwords, minLen, maxLen int) *Tokenizer {
	return &Tokenizer{
		stopwords: stopwords,
		minLen:    minLen,
		maxLen:    maxLen,
	}
}

// Tokenize normalizes text to decomposed Unicode, strips combining marks,
// lowercases, collapses everything outside [a-z] to whitespace and returns the
// tokens that pass the length and stopword filters. Blank input yields nil.
func (t *Tokenizer) Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// A fresh transformer per call: chained transformers carry state and are
	// not safe for concurrent use.
	stripper := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	normalized, _, err := transform.String(stripper, text)
	if err != nil {
		normalized = text
	}

	var out []string
	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := b.String()
		b.Reset()
		if len(tok) < t.minLen || len(tok) > t.maxLen {
			return
		}
		if t.stopwords.Contains(tok) {
			return
		}
		out = append(out, tok)
	}

	for _, r := range normalized {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			flush()
		}
	}
	flush()

	return out
}

// Unique returns the distinct tokens of a document, preserving first-seen
// order. Document-frequency counting is per document, not per occurrence.
func Unique(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
