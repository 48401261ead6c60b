// Package study keeps a schema and the reports generated from it together in
// one directory, described by study.json.
package study

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/colprof-cli/internal/schema"
	"github.com/KaramelBytes/colprof-cli/internal/utils"
)

// Study represents a profiling workspace persisted on disk.
type Study struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	SchemaFile  string                 `json:"schema_file,omitempty"`
	DataFile    string                 `json:"data_file,omitempty"`
	Reports     map[string]*Attachment `json:"reports"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`

	// Not serialized: on-disk location of the study.json
	rootDir string
}

// New constructs an in-memory study. Call Save() to persist.
func New(name, description, rootDir string) *Study {
	return &Study{
		Name:        name,
		Description: description,
		Reports:     make(map[string]*Attachment),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		rootDir:     rootDir,
	}
}

// Load loads a study.json from the provided directory.
func Load(dir string) (*Study, error) {
	path := filepath.Join(dir, utils.StudyFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("study not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read study: %w", err)
	}
	var s Study
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse study: %w", err)
	}
	if s.Reports == nil {
		s.Reports = make(map[string]*Attachment)
	}
	s.rootDir = dir
	return &s, nil
}

// RootDir returns the on-disk study directory path.
func (s *Study) RootDir() string { return s.rootDir }

// ReportsDir is where attached reports are written.
func (s *Study) ReportsDir() string { return filepath.Join(s.rootDir, "reports") }

// Save writes study.json using atomic write.
func (s *Study) Save() error {
	if s.rootDir == "" {
		return errors.New("study root directory not set")
	}
	if err := utils.EnsureDir(s.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	s.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(s)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.rootDir, utils.StudyFileName), data)
}

// resolve makes a study-relative path absolute.
func (s *Study) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.rootDir, p)
}

// Schema loads the study's schema file, or the built-in adult census schema
// when none is set.
func (s *Study) Schema() (*schema.Schema, error) {
	if strings.TrimSpace(s.SchemaFile) == "" {
		return schema.AdultCensus(), nil
	}
	return schema.Load(s.resolve(s.SchemaFile))
}

// DataPath returns the study's default data file, resolved against the root.
func (s *Study) DataPath() string { return s.resolve(s.DataFile) }
