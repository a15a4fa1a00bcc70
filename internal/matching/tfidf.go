package matching

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// DefaultMaxFeatures caps the vocabulary of a fitted corpus.
const DefaultMaxFeatures = 5000

// Vectorizer turns a small corpus into l2-normalised TF-IDF rows over unigrams and
// bigrams.
type Vectorizer struct {
	MaxFeatures int
}

// Matrix is the fitted corpus. Terms is sorted; Rows[i][j] is the weight of Terms[j]
// in document i.
type Matrix struct {
	Terms []string
	Rows  [][]float64
}

// Empty reports whether fitting produced no features.
func (m Matrix) Empty() bool {
	return len(m.Terms) == 0
}

// FitTransform learns the vocabulary and IDF of docs and returns their weights.
func (v Vectorizer) FitTransform(docs []string) Matrix {
	maxFeatures := v.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	counts := make([]map[string]int, len(docs))
	totals := map[string]int{}
	df := map[string]int{}
	for i, doc := range docs {
		counts[i] = map[string]int{}
		for _, gram := range ngrams(tokenize(doc)) {
			counts[i][gram]++
			totals[gram]++
		}
		for gram := range counts[i] {
			df[gram]++
		}
	}

	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) > maxFeatures {
		sort.SliceStable(terms, func(a, b int) bool {
			return totals[terms[a]] > totals[terms[b]]
		})
		terms = terms[:maxFeatures]
		sort.Strings(terms)
	}

	n := float64(len(docs))
	rows := make([][]float64, len(docs))
	for i := range docs {
		row := make([]float64, len(terms))
		var norm float64
		for j, term := range terms {
			tf := counts[i][term]
			if tf == 0 {
				continue
			}
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1
			row[j] = float64(tf) * idf
			norm += row[j] * row[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
		rows[i] = row
	}
	return Matrix{Terms: terms, Rows: rows}
}

// Cosine of two l2-normalised rows. Zero rows give 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return clamp01(dot)
}

// LexicalSimilarity is the TF-IDF cosine between two texts fitted as a two-document
// corpus. Either text blank, or nothing left after stop-word removal, yields 0.
func LexicalSimilarity(a, b string) float64 {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}
	m := Vectorizer{}.FitTransform([]string{a, b})
	if m.Empty() {
		return 0
	}
	return Cosine(m.Rows[0], m.Rows[1])
}

// tokenize lowercases text and keeps runs of two or more word characters that are
// not stop words.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	var tokens []string
	var b strings.Builder
	runes := 0
	flush := func() {
		if runes >= 2 {
			tok := b.String()
			if !isStopWord(tok) {
				tokens = append(tokens, tok)
			}
		}
		b.Reset()
		runes = 0
	}
	for _, r := range lower {
		if isTokenRune(r) {
			b.WriteRune(r)
			runes++
			continue
		}
		flush()
	}
	flush()
	return tokens
}

func isTokenRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func ngrams(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
