package study

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/KaramelBytes/colprof-cli/internal/utils"
	"github.com/google/uuid"
)

// Attachment records one report file written into the study.
type Attachment struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"` // relative to the study root
	Source    string    `json:"source"`
	Format    string    `json:"format"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
}

// AttachReport writes content under reports/ and records it. name is the
// desired file name; a name already used by another report gets a numeric
// suffix.
func (s *Study) AttachReport(name, source, format string, rows int, content []byte) (*Attachment, error) {
	if err := utils.EnsureDir(s.ReportsDir()); err != nil {
		return nil, fmt.Errorf("ensure reports dir: %w", err)
	}
	rel := filepath.Join("reports", s.uniqueName(name))
	if err := utils.SafeWriteFile(filepath.Join(s.rootDir, rel), content); err != nil {
		return nil, err
	}
	a := &Attachment{
		ID:        uuid.NewString(),
		Path:      rel,
		Source:    source,
		Format:    format,
		Rows:      rows,
		CreatedAt: time.Now(),
	}
	if s.Reports == nil {
		s.Reports = make(map[string]*Attachment)
	}
	s.Reports[a.ID] = a
	s.UpdatedAt = time.Now()
	return a, nil
}

func (s *Study) uniqueName(name string) string {
	used := map[string]bool{}
	for _, a := range s.Reports {
		used[filepath.Base(a.Path)] = true
	}
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	out := name
	for i := 2; used[out]; i++ {
		out = fmt.Sprintf("%s__%d%s", stem, i, ext)
	}
	return out
}

// RemoveReport deletes an attached report by id and drops its file.
func (s *Study) RemoveReport(id string) error {
	a, ok := s.Reports[id]
	if !ok {
		return fmt.Errorf("report %s not found", id)
	}
	if err := os.Remove(s.resolve(a.Path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove report file: %w", err)
	}
	delete(s.Reports, id)
	s.UpdatedAt = time.Now()
	return nil
}

// SortedReports returns attachments oldest first.
func (s *Study) SortedReports() []*Attachment {
	out := make([]*Attachment, 0, len(s.Reports))
	for _, a := range s.Reports {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Path < out[j].Path
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
