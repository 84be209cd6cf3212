package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/quiz"
)

func TestBuiltin(t *testing.T) {
	qs, err := Builtin()
	require.NoError(t, err)

	counts := Counts(qs)
	for _, cat := range quiz.AllCategories() {
		assert.GreaterOrEqual(t, counts[cat], 5, "category %s", cat)
	}

	first := qs[0]
	assert.Equal(t, "h1", first.ID)
	assert.Equal(t, "What is the reading of あさ?", first.Prompt)
	assert.Equal(t, "asa", first.CorrectOption())
}

func TestBuiltin_ReturnsCopies(t *testing.T) {
	qs, err := Builtin()
	require.NoError(t, err)

	a, err := qs.Questions(t.Context())
	require.NoError(t, err)
	a[0].ID = "changed"

	b, err := qs.Questions(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "h1", b[0].ID)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"missing questions", `{}`},
		{"unknown category", `{"questions":[{"id":"x","category":"kanji","question":"?","options":["a","b"],"correctAnswer":0,"difficulty":"easy"}]}`},
		{"answer out of range", `{"questions":[{"id":"x","category":"grammar","question":"?","options":["a","b"],"correctAnswer":2,"difficulty":"easy"}]}`},
		{"duplicate id", `{"questions":[
			{"id":"x","category":"grammar","question":"?","options":["a","b"],"correctAnswer":0,"difficulty":"easy"},
			{"id":"x","category":"grammar","question":"?","options":["a","b"],"correctAnswer":1,"difficulty":"easy"}]}`},
		{"extra field", `{"questions":[{"id":"x","category":"grammar","question":"?","options":["a","b"],"correctAnswer":0,"difficulty":"easy","hint":"no"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	data := `{"questions":[{"id":"k9","category":"katakana","question":"What is the reading of ピザ?","options":["piza","biza"],"correctAnswer":0,"difficulty":"easy"}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	qs, err := Open(path)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, quiz.CategoryKatakana, qs[0].Category)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	qs, err := Builtin()
	require.NoError(t, err)

	got := Filter(qs, quiz.CategoryGrammar)
	require.NotEmpty(t, got)
	for _, q := range got {
		assert.Equal(t, quiz.CategoryGrammar, q.Category)
	}
}
