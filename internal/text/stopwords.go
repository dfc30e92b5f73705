// Package text provides the tokenizer and stopword filtering that turn raw
// document text into candidate keywords.
package text

import (
	"bufio"
	"bytes"
	_ "embed"
	"strings"
)

//go:embed stopwords_en.txt
var embeddedStopwords []byte

// Stopwords is a merged stopword set: the embedded static English list plus
// any runtime extras supplied at load time.
type Stopwords struct {
	set map[string]struct{}
}

// LoadStopwords builds the merged stopword set. Extras are lowercased; blank
// entries and comment lines in the static list are skipped.
func LoadStopwords(extras []string) *Stopwords {
	set := make(map[string]struct{}, 256)

	scanner := bufio.NewScanner(bytes.NewReader(embeddedStopwords))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[strings.ToLower(line)] = struct{}{}
	}

	for _, w := range extras {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}

	return &Stopwords{set: set}
}

// Contains reports whether token is a stopword.
func (s *Stopwords) Contains(token string) bool {
	_, ok := s.set[token]
	return ok
}

// Len returns the number of stopwords in the merged set.
func (s *Stopwords) Len() int {
	return len(s.set)
}
