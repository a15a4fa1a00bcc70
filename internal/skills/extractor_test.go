package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeepsVocabularyOrder(t *testing.T) {
	vocab := NewVocabulary([]string{"SQL", "Python"})

	got := Extract("Python and SQL expert", vocab)
	assert.Equal(t, []string{"SQL", "Python"}, got)
}

func TestExtractIsIdempotent(t *testing.T) {
	vocab := DefaultVocabulary()
	text := "Built Go microservices on AWS with Docker, Kubernetes and PostgreSQL."

	first := Extract(text, vocab)
	second := Extract(text, vocab)
	assert.Equal(t, first, second)
}

func TestExtractScenario(t *testing.T) {
	vocab := NewVocabulary([]string{"Python", "SQL", "AWS", "Docker"})

	resume := Extract("Experienced in Python, SQL, and Docker", vocab)
	jd := Extract("Looking for Python, SQL, AWS, Docker expert", vocab)

	assert.Equal(t, []string{"Python", "SQL", "Docker"}, resume)
	assert.Equal(t, []string{"Python", "SQL", "AWS", "Docker"}, jd)
	assert.Equal(t, []string{"AWS"}, Missing(jd, resume))
	assert.InDelta(t, 0.75, OverlapRatio(jd, resume), 1e-9)
}

func TestExtractSubstringFalsePositive(t *testing.T) {
	vocab := NewVocabulary([]string{"Java", "JavaScript"})

	assert.Equal(t, []string{"Java", "JavaScript"}, Extract("Senior JavaScript developer", vocab))
	assert.Equal(t, []string{"JavaScript"}, ExtractWords("Senior JavaScript developer", vocab))
}

func TestExtractWordsHandlesSymbols(t *testing.T) {
	vocab := NewVocabulary([]string{"C++", "Go", "CI/CD"})

	got := Extractor{Vocabulary: vocab, Mode: ModeWord}.Extract("Wrote C++ and Go services; owned CI/CD. Good at gossip.")
	assert.Equal(t, []string{"C++", "Go", "CI/CD"}, got)

	got = ExtractWords("Google and gopher", vocab)
	assert.Empty(t, got)
}

func TestExtractEmptyText(t *testing.T) {
	got := Extract("", DefaultVocabulary())
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestOverlapRatioNoRequirements(t *testing.T) {
	assert.Equal(t, 1.0, OverlapRatio(nil, []string{"Go"}))
}

func TestMissingIsSubsetAndDisjoint(t *testing.T) {
	required := []string{"Go", "SQL", "AWS"}
	have := []string{"SQL", "Docker"}

	missing := Missing(required, have)
	assert.Equal(t, []string{"Go", "AWS"}, missing)
	for _, m := range missing {
		assert.Contains(t, required, m)
		assert.NotContains(t, have, m)
	}
}
