package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVocabulary(t *testing.T) {
	vocab := DefaultVocabulary()
	require.NotEmpty(t, vocab)
	assert.Equal(t, "Python", vocab[0])
	assert.Contains(t, vocab, "Docker")
}

func TestNewVocabularyDedupesCaseInsensitive(t *testing.T) {
	vocab := NewVocabulary([]string{" SQL ", "sql", "", "Python", "PYTHON"})
	assert.Equal(t, Vocabulary{"SQL", "Python"}, vocab)
}

func TestLoadVocabularyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skills:\n  - Rust\n  - Go\n"), 0o600))

	vocab, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.Equal(t, Vocabulary{"Rust", "Go"}, vocab)
}

func TestLoadVocabularyErrors(t *testing.T) {
	_, err := LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseVocabulary([]byte("skills: []\n"))
	assert.Error(t, err)

	_, err = ParseVocabulary([]byte("skills: [unclosed\n"))
	assert.Error(t, err)
}

func TestLoadVocabularyEmptyPathUsesDefault(t *testing.T) {
	vocab, err := LoadVocabulary("")
	require.NoError(t, err)
	assert.Equal(t, DefaultVocabulary(), vocab)
}
