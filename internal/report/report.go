// Package report assembles a full profile of a table into one document that
// renders as Markdown or serializes to JSON.
package report

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/KaramelBytes/colprof-cli/internal/dataset"
	"github.com/KaramelBytes/colprof-cli/internal/profile"
	"github.com/KaramelBytes/colprof-cli/internal/schema"
)

// Options controls which summaries a report includes.
type Options struct {
	// HistBins is the bin count for numerical columns; 0 skips histograms.
	HistBins int
	// TopValues limits value counts listed per discrete column; 0 lists all.
	TopValues int
	// SampleRows determines how many head rows to include.
	SampleRows int
	// MaxLevels bounds numerical columns considered for redundancy checks.
	MaxLevels int
	// Outlier detection via robust Z-score (MAD); 0 disables it.
	OutlierThreshold float64
	// Correlations computes Pearson correlations among numerical columns.
	Correlations bool
	// Logger receives debug output; nil discards it.
	Logger *slog.Logger
}

// DefaultOptions returns reasonable defaults for census-style tables.
func DefaultOptions() Options {
	return Options{
		HistBins:         10,
		TopValues:        8,
		SampleRows:       5,
		MaxLevels:        64,
		OutlierThreshold: 3.5,
		Correlations:     true,
	}
}

// Report is a markdown-friendly profile of one table.
type Report struct {
	Name       string               `json:"name"`
	Schema     string               `json:"schema,omitempty"`
	Rows       int                  `json:"rows"`
	SourceRows int                  `json:"source_rows"`
	Columns    []ColumnSummary      `json:"columns"`
	Target     *profile.ValueCounts `json:"target,omitempty"`
	Redundant  []profile.Redundancy `json:"redundant,omitempty"`
	Corr       *profile.CorrMatrix  `json:"correlations,omitempty"`
	SampleCols []string             `json:"sample_columns,omitempty"`
	Samples    [][]string           `json:"samples,omitempty"`
	Warnings   []string             `json:"warnings,omitempty"`
}

// ColumnSummary holds the role and the statistics that apply to it.
type ColumnSummary struct {
	Name    string      `json:"name"`
	Role    schema.Role `json:"role"`
	NonNull int         `json:"non_null"`
	Missing int         `json:"missing"`
	// Discrete columns
	Unique    int                  `json:"unique,omitempty"`
	TopValues []profile.ValueCount `json:"top_values,omitempty"`
	// Numerical columns
	Stats    *profile.Description    `json:"stats,omitempty"`
	Outliers *profile.OutlierSummary `json:"outliers,omitempty"`
	Bins     []profile.Bin           `json:"bins,omitempty"`
}

// MissingPct returns the share of missing cells in percent.
func (c ColumnSummary) MissingPct() float64 {
	total := c.NonNull + c.Missing
	if total == 0 {
		return 0
	}
	return float64(c.Missing) * 100.0 / float64(total)
}

// Build profiles every schema column of t. A numerical column holding text, or
// holding nothing but missing cells, is reported as a warning instead of
// failing the whole report.
func Build(t *dataset.Table, s *schema.Schema, opt Options) (*Report, error) {
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p, err := profile.New(t, s)
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, &dataset.DataError{Reason: dataset.ReasonEmptyTable, Path: t.Name()}
	}
	rep := &Report{Name: t.Name(), Schema: s.Name(), Rows: t.Len(), SourceRows: t.SourceRows()}
	if rep.SourceRows > rep.Rows {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("Only the first %d of %d rows were profiled.", rep.Rows, rep.SourceRows))
	}
	for _, c := range t.Columns() {
		if _, ok := s.Role(c); !ok {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("Column %q has no declared role and was skipped.", c))
		}
	}

	for _, c := range s.Columns() {
		logger.Debug("profiling column", "column", c.Name, "role", c.Role)
		cs, err := summarize(p, c, opt)
		if err != nil {
			var de *dataset.DataError
			if errors.As(err, &de) && (de.Reason == dataset.ReasonTypeMismatch || de.Reason == dataset.ReasonEmptyTable) {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("Column %q: %s", c.Name, de.Detail))
				rep.Columns = append(rep.Columns, *cs)
				continue
			}
			return nil, err
		}
		if pct := cs.MissingPct(); pct >= 50 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("Column %q is %.0f%% missing.", c.Name, pct))
		}
		rep.Columns = append(rep.Columns, *cs)
	}

	if target, ok := s.Target(); ok {
		if rep.Target, err = p.ValueCounts(target); err != nil {
			return nil, err
		}
	}
	if rep.Redundant, err = p.Redundancies(opt.MaxLevels); err != nil && !skippable(err) {
		return nil, err
	}
	if opt.Correlations {
		if rep.Corr, err = p.Correlations(); err != nil && !skippable(err) {
			return nil, err
		}
	}
	if opt.SampleRows > 0 {
		head, err := t.Select(s.Names()...)
		if err != nil {
			return nil, err
		}
		rep.SampleCols = head.Columns()
		rep.Samples = head.Records(opt.SampleRows)
	}
	return rep, nil
}

// skippable errors were already reported per column.
func skippable(err error) bool {
	return dataset.IsReason(err, dataset.ReasonTypeMismatch) || dataset.IsReason(err, dataset.ReasonEmptyTable)
}

func summarize(p *profile.Profiler, c schema.Column, opt Options) (*ColumnSummary, error) {
	cs := &ColumnSummary{Name: c.Name, Role: c.Role}
	vals, err := p.Table().Column(c.Name)
	if err != nil {
		return cs, err
	}
	for _, v := range vals {
		if v.Missing {
			cs.Missing++
		} else {
			cs.NonNull++
		}
	}
	if c.Role.Discrete() {
		vc, err := p.ValueCounts(c.Name)
		if err != nil {
			return cs, err
		}
		cs.Unique = len(vc.Counts)
		cs.TopValues = vc.Top(opt.TopValues)
		return cs, nil
	}

	if cs.Stats, err = p.Describe(c.Name); err != nil {
		return cs, err
	}
	if opt.OutlierThreshold > 0 {
		if cs.Outliers, err = p.Outliers(c.Name, opt.OutlierThreshold); err != nil {
			return cs, err
		}
	}
	if opt.HistBins > 0 {
		if cs.Bins, err = p.HistogramBins(c.Name, opt.HistBins); err != nil {
			return cs, err
		}
	}
	return cs, nil
}
