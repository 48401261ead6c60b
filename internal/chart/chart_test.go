package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/colprof-cli/internal/dataset"
	"github.com/KaramelBytes/colprof-cli/internal/profile"
	"github.com/KaramelBytes/colprof-cli/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requirePNG(t *testing.T, path string) {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(b), 8)
	assert.Equal(t, "\x89PNG", string(b[:4]), path)
}

func TestHistogram(t *testing.T) {
	dir := t.TempDir()
	path := HistogramFile(dir, "hours-per-week")
	assert.Equal(t, filepath.Join(dir, "hist_hours-per-week.png"), path)

	bins := []profile.Bin{{Low: 1, High: 50.5, Count: 30}, {Low: 50.5, High: 99, Count: 4}}
	require.NoError(t, Histogram(path, "hours-per-week", bins))
	requirePNG(t, path)

	assert.Error(t, Histogram(filepath.Join(dir, "empty.png"), "age", nil))
}

func TestPairGrid(t *testing.T) {
	tbl, err := dataset.FromRecords("adult.csv", []string{"age", "hours-per-week", "class"}, []map[string]string{
		{"age": "39", "hours-per-week": "40", "class": "<=50K"},
		{"age": "50", "hours-per-week": "13", "class": "<=50K"},
		{"age": "52", "hours-per-week": "45", "class": ">50K"},
		{"age": "31", "hours-per-week": "50", "class": ">50K"},
		{"age": "28", "hours-per-week": "", "class": "<=50K"},
	})
	require.NoError(t, err)
	s, err := schema.FromFile(schema.File{Numerical: []string{"age", "hours-per-week"}, Target: "class"})
	require.NoError(t, err)
	p, err := profile.New(tbl, s)
	require.NoError(t, err)
	g, err := p.PairGrid(profile.PairOptions{XVars: []string{"age", "hours-per-week"}, Hue: "class", Bins: 4})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "plots")
	paths, err := PairGrid(dir, g)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "pairs_age.png"),
		filepath.Join(dir, "pairs_hours-per-week_age.png"),
		filepath.Join(dir, "pairs_age_hours-per-week.png"),
		filepath.Join(dir, "pairs_hours-per-week.png"),
	}, paths)
	for _, path := range paths {
		requirePNG(t, path)
	}

	// x = age, y = hours-per-week only
	xy, err := p.PairGrid(profile.PairOptions{XVars: []string{"age"}, YVars: []string{"hours-per-week"}, Hue: "class"})
	require.NoError(t, err)
	paths, err = PairGrid(dir, xy)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "pairs_age_hours-per-week.png")}, paths)
}

func TestFileSafe(t *testing.T) {
	assert.Equal(t, "native-country", fileSafe("native-country"))
	assert.Equal(t, "a_b_c", fileSafe("a b/c"))
	assert.Equal(t, "column", fileSafe(""))
}
