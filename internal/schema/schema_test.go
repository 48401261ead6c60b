package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/colprof-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdultCensusLayout(t *testing.T) {
	s := AdultCensus()
	assert.Equal(t, "adult-census", s.Name())
	assert.Len(t, s.ByRole(Numerical), 5)
	assert.Len(t, s.ByRole(Categorical), 8)
	target, ok := s.Target()
	require.True(t, ok)
	assert.Equal(t, "class", target)

	names := s.Names()
	assert.Equal(t, "age", names[0])
	assert.Equal(t, "class", names[len(names)-1])

	r, ok := s.Role("education-num")
	require.True(t, ok)
	assert.Equal(t, Numerical, r)
	_, ok = s.Role("fnlwgt")
	assert.False(t, ok)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		cols    []Column
		wantErr string
	}{
		{"empty", nil, "no columns"},
		{"blank name", []Column{{Name: " ", Role: Numerical}}, "empty name"},
		{"bad role", []Column{{Name: "age", Role: "ordinal"}}, "unknown column role"},
		{"duplicate", []Column{{Name: "age", Role: Numerical}, {Name: "age", Role: Categorical}}, "declared twice"},
		{"two targets", []Column{{Name: "a", Role: Target}, {Name: "b", Role: Target}}, "at most one"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("x", tt.cols...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	s, err := New("x", Column{Name: "age", Role: "num"})
	require.NoError(t, err)
	r, _ := s.Role("age")
	assert.Equal(t, Numerical, r, "aliases normalize")
}

func TestSaveAndLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, AdultCensus().Save(p))

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, AdultCensus().Columns(), got.Columns())
}

func TestSaveReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(p, []byte("numerical: [stale]\n"), 0o644))

	s, err := FromFile(File{Name: "small", Numerical: []string{"age"}, Target: "class"})
	require.NoError(t, err)
	require.NoError(t, s.Save(p))

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "class"}, got.Names())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")

	assert.Error(t, s.Save(filepath.Join(dir, "missing", "schema.yaml")))
}

func TestLoadFromHandWrittenYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "schema.yaml")
	body := "numerical: [age]\ncategorical:\n  - sex\ntarget: class\n"
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	s, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "sex", "class"}, s.Names())
	assert.True(t, Target.Discrete())
	assert.False(t, Numerical.Discrete())
}

func TestDraft(t *testing.T) {
	tbl, err := dataset.FromRecords("people", []string{"age", "sex", "class"}, []map[string]string{
		{"age": "39", "sex": "Male", "class": "<=50K"},
		{"age": "", "sex": "Female", "class": ">50K"},
	})
	require.NoError(t, err)

	s, err := Draft("people", tbl, "class")
	require.NoError(t, err)
	assert.Equal(t, []string{"age"}, s.ByRole(Numerical))
	assert.Equal(t, []string{"sex"}, s.ByRole(Categorical))

	_, err = Draft("people", tbl, "income")
	assert.Error(t, err)
}
