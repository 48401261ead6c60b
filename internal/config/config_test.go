package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"?"}, c.MissingMarkers)
	assert.Equal(t, 10, c.HistBins)
	assert.Equal(t, 5000, c.PairSamples)
	assert.Equal(t, 3.5, c.OutlierThreshold)
	assert.Equal(t, "table", c.Format)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".colprof", "studies"), c.StudiesDir)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("hist_bins: 20\nformat: markdown\nmissing_markers: [\"?\", \"NA\"]\n"), 0o644))
	t.Setenv("COLPROF_FORMAT", "json")

	c, err := Load(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, 20, c.HistBins)
	assert.Equal(t, "json", c.Format, "env overrides file")
	assert.Equal(t, []string{"?", "NA"}, c.MissingMarkers)
}

func TestLoadMalformedFile(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("hist_bins: [\n"), 0o644))
	_, err := Load(cfgFile)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	c := &Global{SchemaFile: "census.yaml", HistBins: 12, MissingMarkers: []string{"?"}, Format: "markdown"}
	require.NoError(t, Save(c, cfgFile))

	got, err := Load(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "census.yaml", got.SchemaFile)
	assert.Equal(t, 12, got.HistBins)
	assert.Equal(t, "markdown", got.Format)
}

func TestDefaultIgnoresEnv(t *testing.T) {
	t.Setenv("COLPROF_HIST_BINS", "99")
	c := Default()
	assert.Equal(t, 10, c.HistBins)
	assert.Equal(t, 64, c.MaxLevels)
	assert.Empty(t, c.StudiesDir)
}
