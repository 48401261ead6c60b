package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cfgpkg "github.com/KaramelBytes/colprof-cli/internal/config"
	"github.com/KaramelBytes/colprof-cli/internal/dataset"
	"github.com/KaramelBytes/colprof-cli/internal/profile"
	"github.com/KaramelBytes/colprof-cli/internal/schema"
	"github.com/KaramelBytes/colprof-cli/internal/utils"
)

const (
	formatTable    = "table"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

// settings returns the loaded config, or defaults when none was loaded.
func settings() *cfgpkg.Global {
	if cfg == nil {
		cfg = cfgpkg.Default()
	}
	return cfg
}

func outputFormat() (string, error) {
	f := flagFormat
	if f == "" {
		f = settings().Format
	}
	switch strings.ToLower(strings.TrimSpace(f)) {
	case "", "table", "text":
		return formatTable, nil
	case "md", "markdown":
		return formatMarkdown, nil
	case "json":
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unsupported --format: %s (use table, markdown or json)", f)
	}
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

// loadOptions merges config values with explicitly set flags.
func loadOptions() (dataset.Options, error) {
	c := settings()
	opt := dataset.DefaultOptions()
	opt.Logger = logger

	delim := c.Delimiter
	if flagDelimiter != "" {
		delim = flagDelimiter
	}
	d, err := parseDelimiter(delim)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = d

	opt.MissingMarkers = c.MissingMarkers
	if rootCmd.PersistentFlags().Changed("missing") {
		opt.MissingMarkers = flagMissing
	}
	opt.MaxRows = c.MaxRows
	if flagMaxRows > 0 {
		opt.MaxRows = flagMaxRows
	}

	// Locale separators
	switch strings.ToLower(strings.TrimSpace(flagDecimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", flagDecimal)
	}
	switch strings.ToLower(strings.TrimSpace(flagThousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", flagThousands)
	}
	opt.SheetName = flagSheetName
	opt.SheetIndex = flagSheetIndex
	return opt, nil
}

// loadSchema resolves --schema, then the configured schema file, then the
// built-in adult census schema.
func loadSchema() (*schema.Schema, error) {
	path := flagSchema
	if path == "" {
		path = expandHome(settings().SchemaFile)
	}
	if path == "" {
		return schema.AdultCensus(), nil
	}
	logger.Debug("loading schema", "path", path)
	return schema.Load(path)
}

// loadTable reads the schema columns of path, plus any extra columns named on
// the command line that the schema does not declare.
func loadTable(path string, s *schema.Schema, extra ...string) (*dataset.Table, error) {
	opt, err := loadOptions()
	if err != nil {
		return nil, err
	}
	cols := s.Names()
	for _, c := range extra {
		if _, ok := s.Role(c); !ok && !contains(cols, c) {
			cols = append(cols, c)
		}
	}
	return dataset.Load(path, cols, opt)
}

// newProfiler loads path under the active schema.
func newProfiler(path string, extra ...string) (*profile.Profiler, error) {
	s, err := loadSchema()
	if err != nil {
		return nil, err
	}
	t, err := loadTable(path, s, extra...)
	if err != nil {
		return nil, err
	}
	logger.Debug("table loaded", "path", path, "rows", t.Len(), "columns", len(t.Columns()))
	return profile.New(t, s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func expandHome(dir string) string {
	if !strings.HasPrefix(dir, "~") {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	dir = strings.TrimPrefix(dir, "~")
	dir = strings.TrimPrefix(dir, string(os.PathSeparator))
	dir = strings.TrimPrefix(dir, "/")
	return filepath.Join(home, dir)
}

func defaultStudiesDir() (string, error) {
	dir := filepath.Clean(expandHome(settings().StudiesDir))
	if settings().StudiesDir == "" {
		cdir, err := cfgpkg.Dir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(cdir, "studies")
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func resolveStudyDirByName(name string) (string, error) {
	if name == "" {
		return "", errors.New("study name is required")
	}
	root, err := defaultStudiesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}
