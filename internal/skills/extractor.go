// Package skills finds canonical skill names inside free text.
package skills

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Match modes.
const (
	ModeSubstring = "substring"
	ModeWord      = "word"
)

// Extract returns the vocabulary terms whose upper-cased form occurs anywhere in the
// upper-cased text, in vocabulary order. "Java" therefore also matches "JavaScript".
func Extract(text string, vocab Vocabulary) []string {
	upper := strings.ToUpper(text)
	out := make([]string, 0)
	if upper == "" {
		return out
	}
	for _, term := range vocab {
		if strings.Contains(upper, strings.ToUpper(term)) {
			out = append(out, term)
		}
	}
	return out
}

// ExtractWords is Extract with the extra rule that a match must not be glued to a
// letter or digit on either side.
func ExtractWords(text string, vocab Vocabulary) []string {
	upper := strings.ToUpper(text)
	out := make([]string, 0)
	if upper == "" {
		return out
	}
	for _, term := range vocab {
		if containsWord(upper, strings.ToUpper(term)) {
			out = append(out, term)
		}
	}
	return out
}

// Extractor binds a vocabulary to a match mode.
type Extractor struct {
	Vocabulary Vocabulary
	Mode       string
}

// Extract applies the configured match mode.
func (e Extractor) Extract(text string) []string {
	if e.Mode == ModeWord {
		return ExtractWords(text, e.Vocabulary)
	}
	return Extract(text, e.Vocabulary)
}

func containsWord(s, term string) bool {
	if term == "" {
		return false
	}
	for offset := 0; offset <= len(s)-len(term); {
		i := strings.Index(s[offset:], term)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(term)
		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Missing returns the required skills absent from have, in required order.
func Missing(required, have []string) []string {
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[s] = struct{}{}
	}
	out := make([]string, 0)
	for _, s := range required {
		if _, ok := set[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// OverlapRatio is |have ∩ required| / |required|, or 1 when nothing is required.
func OverlapRatio(required, have []string) float64 {
	if len(required) == 0 {
		return 1.0
	}
	return float64(len(required)-len(Missing(required, have))) / float64(len(required))
}
