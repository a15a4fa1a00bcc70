package skills

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_skills.yaml
var defaultSkillsYAML []byte

// Vocabulary is the ordered list of canonical skill names.
type Vocabulary []string

type vocabularyFile struct {
	Skills []string `yaml:"skills"`
}

// NewVocabulary trims terms and drops blanks and case-insensitive duplicates,
// keeping the first spelling.
func NewVocabulary(terms []string) Vocabulary {
	seen := make(map[string]struct{}, len(terms))
	out := make(Vocabulary, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		key := strings.ToUpper(term)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, term)
	}
	return out
}

// ParseVocabulary decodes a YAML document with a top-level "skills" list.
func ParseVocabulary(data []byte) (Vocabulary, error) {
	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse skills yaml: %w", err)
	}
	vocab := NewVocabulary(f.Skills)
	if len(vocab) == 0 {
		return nil, fmt.Errorf("parse skills yaml: no skills defined")
	}
	return vocab, nil
}

// LoadVocabulary reads a vocabulary file, or the built-in list when path is empty.
func LoadVocabulary(path string) (Vocabulary, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultVocabulary(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skills file %s: %w", path, err)
	}
	return ParseVocabulary(data)
}

// DefaultVocabulary returns the built-in skill list.
func DefaultVocabulary() Vocabulary {
	vocab, err := ParseVocabulary(defaultSkillsYAML)
	if err != nil {
		panic(err)
	}
	return vocab
}

// Document renders the vocabulary as a single reference text.
func (v Vocabulary) Document() string {
	return strings.Join(v, "\n")
}
