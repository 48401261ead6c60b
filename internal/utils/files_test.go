package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/colprof-cli/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFileReplaces(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out.json")
	require.NoError(t, utils.SafeWriteFile(p, []byte("one")))
	require.NoError(t, utils.SafeWriteFile(p, []byte("two")))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))
	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestSafeWriteFileMissingDir(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nope", "out.json")
	assert.Error(t, utils.SafeWriteFile(p, []byte("x")))
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"rows": 3})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"rows\": 3\n}", string(b))

	_, err = utils.PrettyJSON(make(chan int))
	assert.Error(t, err)
}

func TestFindStudyRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "reports", "2024")
	require.NoError(t, utils.EnsureDir(nested))
	require.NoError(t, os.WriteFile(filepath.Join(root, utils.StudyFileName), []byte("{}"), 0o644))
	file := filepath.Join(nested, "adult.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	got, err := utils.FindStudyRoot(file)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = utils.FindStudyRoot(t.TempDir())
	assert.Error(t, err)
}
