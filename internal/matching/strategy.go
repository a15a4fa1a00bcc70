// Package matching scores a resume against a job description.
package matching

import (
	"math"
	"sort"
	"strings"

	"resume-matcher/internal/skills"
)

// Strategy names.
const (
	StrategyBlended = "blended"
	StrategyLexical = "lexical"
)

const (
	DefaultSkillWeight = 0.7
	DefaultTopK        = 15
)

// Strategy scores resume text against job description text. Implementations never
// fail; degenerate input yields zeros.
type Strategy interface {
	Name() string
	Score(resumeText, jdText string) MatchResult
}

type MatchResult struct {
	Strategy            string   `json:"strategy"`
	LexicalSimilarity   float64  `json:"lexicalSimilarity"`
	SkillsOverlapRatio  float64  `json:"skillsOverlapRatio"`
	BlendedScorePercent float64  `json:"score"`
	ResumeSkills        []string `json:"resumeSkills"`
	JDSkills            []string `json:"jdSkills"`
	MissingSkills       []string `json:"missingSkills"`
	TopTerms            []string `json:"topTerms"`
	PresentTerms        []string `json:"presentTerms"`
	MissingTerms        []string `json:"missingTerms"`
}

// BlendedSkillsStrategy mixes skills overlap with lexical similarity:
// round(100*(w*overlap + (1-w)*lexical), 1).
type BlendedSkillsStrategy struct {
	Skills      skills.Extractor
	SkillWeight float64
	TopK        int
}

func (BlendedSkillsStrategy) Name() string { return StrategyBlended }

func (s BlendedSkillsStrategy) Score(resumeText, jdText string) MatchResult {
	resumeSkills := s.Skills.Extract(resumeText)
	jdSkills := s.Skills.Extract(jdText)
	overlap := skills.OverlapRatio(jdSkills, resumeSkills)

	lexical, top, present, missing := lexicalTerms(resumeText, jdText, topK(s.TopK))
	w := clamp01(s.SkillWeight)
	score := clampPercent(Round1(100 * (w*overlap + (1-w)*lexical)))

	return MatchResult{
		Strategy:            StrategyBlended,
		LexicalSimilarity:   lexical,
		SkillsOverlapRatio:  overlap,
		BlendedScorePercent: score,
		ResumeSkills:        resumeSkills,
		JDSkills:            jdSkills,
		MissingSkills:       skills.Missing(jdSkills, resumeSkills),
		TopTerms:            top,
		PresentTerms:        present,
		MissingTerms:        missing,
	}
}

// PlainLexicalStrategy scores on TF-IDF cosine alone and reports which of the
// heaviest job description terms the resume covers.
type PlainLexicalStrategy struct {
	TopK int
}

func (PlainLexicalStrategy) Name() string { return StrategyLexical }

func (s PlainLexicalStrategy) Score(resumeText, jdText string) MatchResult {
	lexical, top, present, missing := lexicalTerms(resumeText, jdText, topK(s.TopK))
	return MatchResult{
		Strategy:            StrategyLexical,
		LexicalSimilarity:   lexical,
		SkillsOverlapRatio:  0,
		BlendedScorePercent: clampPercent(Round1(100 * lexical)),
		ResumeSkills:        []string{},
		JDSkills:            []string{},
		MissingSkills:       []string{},
		TopTerms:            top,
		PresentTerms:        present,
		MissingTerms:        missing,
	}
}

// Set looks strategies up by name.
type Set map[string]Strategy

func NewSet(strategies ...Strategy) Set {
	out := make(Set, len(strategies))
	for _, s := range strategies {
		out[s.Name()] = s
	}
	return out
}

// Get resolves name case-insensitively; an empty name selects the blended strategy.
func (s Set) Get(name string) (Strategy, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = StrategyBlended
	}
	st, ok := s[name]
	return st, ok
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func lexicalTerms(resumeText, jdText string, k int) (float64, []string, []string, []string) {
	top, present, missing := []string{}, []string{}, []string{}
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jdText) == "" {
		return 0, top, present, missing
	}
	m := Vectorizer{}.FitTransform([]string{resumeText, jdText})
	if m.Empty() {
		return 0, top, present, missing
	}
	resumeRow, jdRow := m.Rows[0], m.Rows[1]

	idx := make([]int, 0, len(m.Terms))
	for j, w := range jdRow {
		if w > 0 {
			idx = append(idx, j)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if jdRow[idx[a]] != jdRow[idx[b]] {
			return jdRow[idx[a]] > jdRow[idx[b]]
		}
		return m.Terms[idx[a]] < m.Terms[idx[b]]
	})
	if len(idx) > k {
		idx = idx[:k]
	}
	for _, j := range idx {
		term := m.Terms[j]
		top = append(top, term)
		if resumeRow[j] > 0 {
			present = append(present, term)
		} else {
			missing = append(missing, term)
		}
	}
	return Cosine(resumeRow, jdRow), top, present, missing
}

func topK(k int) int {
	if k <= 0 {
		return DefaultTopK
	}
	return k
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
