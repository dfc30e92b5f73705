package text

import (
	"reflect"
	"strings"
	"testing"
)

func newTestTokenizer() *Tokenizer {
	return NewTokenizer(LoadStopwords(nil), 3, 24)
}

func TestTokenize(t *testing.T) {
	tok := newTestTokenizer()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty string", "", nil},
		{"blank string", "   \t\n  ", nil},
		{"simple words", "bitcoin rally continues", []string{"bitcoin", "rally", "continues"}},
		{"uppercase folded", "BITCOIN Rally", []string{"bitcoin", "rally"}},
		{"diacritics stripped", "café résumé", []string{"cafe", "resume"}},
		{"punctuation split", "breaking: outage!!! at provider", []string{"breaking", "outage", "provider"}},
		{"digits removed", "model3 gpt4 turbo", []string{"model", "gpt", "turbo"}},
		{"stopwords dropped", "the quick and the dead", []string{"quick", "dead"}},
		{"too short dropped", "ai ml go rust", []string{"rust"}},
		{"too long dropped", strings.Repeat("x", 25) + " normal", []string{"normal"}},
		{"only symbols", "!!! ??? ...", nil},
		{"mixed unicode", "日本語 bitcoin ☕", []string{"bitcoin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenize_OutputCharset(t *testing.T) {
	tok := newTestTokenizer()

	inputs := []string{
		"Hello, WORLD! 123 çà-va?",
		"ÀÉÎÕÜ mixed with ascii text",
		"tabs\tand\nnewlines and   spaces",
	}

	for _, input := range inputs {
		for _, token := range tok.Tokenize(input) {
			if len(token) < 3 || len(token) > 24 {
				t.Errorf("token %q violates length bounds", token)
			}
			for _, r := range token {
				if r < 'a' || r > 'z' {
					t.Errorf("token %q contains non [a-z] rune %q", token, r)
				}
			}
		}
	}
}

func TestLoadStopwords_RuntimeExtras(t *testing.T) {
	sw := LoadStopwords([]string{"Crypto", "  ", "HODL"})

	if !sw.Contains("crypto") {
		t.Error("expected runtime extra 'crypto' to be a stopword")
	}
	if !sw.Contains("hodl") {
		t.Error("expected runtime extra 'hodl' to be lowercased and merged")
	}
	if !sw.Contains("the") {
		t.Error("expected static list entry 'the' to be present")
	}
	if sw.Contains("") {
		t.Error("blank extras must not be merged")
	}

	tok := NewTokenizer(sw, 3, 24)
	got := tok.Tokenize("crypto markets wobble")
	want := []string{"markets", "wobble"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize with extras = %v, want %v", got, want)
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]string{"btc", "eth", "btc", "sol", "eth"})
	want := []string{"btc", "eth", "sol"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unique() = %v, want %v", got, want)
	}
	if Unique(nil) != nil {
		t.Error("Unique(nil) should be nil")
	}
}
