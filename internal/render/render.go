// Package render prints profiler results as terminal tables.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/colprof-cli/internal/profile"
	"github.com/KaramelBytes/colprof-cli/internal/schema"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	printer    = message.NewPrinter(language.English)
	titleCaser = cases.Title(language.English)
)

const barWidth = 30

// Heading prints a section title.
func Heading(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, headingStyle.Render(title))
}

// Note prints a dimmed line.
func Note(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Count formats n with thousands separators.
func Count(n int) string { return printer.Sprintf("%d", n) }

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func rightAlign(cols ...int) []table.ColumnConfig {
	out := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		out[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	return out
}

func share(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}

func num(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return fmt.Sprintf("%.4g", f)
}

// ValueCounts prints at most top entries of vc; top <= 0 prints all.
func ValueCounts(w io.Writer, vc *profile.ValueCounts, top int) {
	Heading(w, "Value counts: "+vc.Column)
	total := vc.Total()
	t := newTable(w)
	t.AppendHeader(table.Row{vc.Column, "Count", "Share"})
	t.SetColumnConfigs(rightAlign(2, 3))
	for _, c := range vc.Top(top) {
		t.AppendRow(table.Row{c.Value, Count(c.Count), share(c.Count, total)})
	}
	if rest := len(vc.Counts) - len(vc.Top(top)); rest > 0 {
		t.AppendRow(table.Row{fmt.Sprintf("(%d more)", rest), "", ""})
	}
	t.AppendFooter(table.Row{"Total", Count(total), ""})
	t.Render()
	if vc.Missing > 0 {
		Note(w, "%s missing values not counted", Count(vc.Missing))
	}
}

// CrossTab prints a contingency table with row and column totals.
func CrossTab(w io.Writer, ct *profile.CrossTab) {
	Heading(w, fmt.Sprintf("Cross-tabulation: %s x %s", ct.RowColumn, ct.ColColumn))
	t := newTable(w)
	header := table.Row{ct.RowColumn + ` \ ` + ct.ColColumn}
	for _, c := range ct.ColLabels {
		header = append(header, c)
	}
	header = append(header, "Total")
	t.AppendHeader(header)
	for i, r := range ct.RowLabels {
		row := table.Row{r}
		for _, n := range ct.Counts[i] {
			row = append(row, Count(n))
		}
		row = append(row, Count(ct.RowTotals[i]))
		t.AppendRow(row)
	}
	footer := table.Row{"Total"}
	for _, n := range ct.ColTotals {
		footer = append(footer, Count(n))
	}
	footer = append(footer, Count(ct.Total))
	t.AppendFooter(footer)
	t.Render()
	if ct.IsBijective() {
		Note(w, "%s and %s map one-to-one: one of them is redundant", ct.RowColumn, ct.ColColumn)
	} else if ct.IsOneToOne() {
		Note(w, "every %s value maps to a single %s value", ct.RowColumn, ct.ColColumn)
	}
	if m := ct.Mapping(); m != nil {
		for _, r := range ct.RowLabels {
			Note(w, "  %s → %s", r, m[r])
		}
	}
}

// Bins prints a histogram with a text bar per bin.
func Bins(w io.Writer, column string, bins []profile.Bin) {
	Heading(w, "Histogram: "+column)
	peak := 0
	for _, b := range bins {
		if b.Count > peak {
			peak = b.Count
		}
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Range", "Count", ""})
	t.SetColumnConfigs(rightAlign(2))
	for i, b := range bins {
		closing := ")"
		if i == len(bins)-1 {
			closing = "]"
		}
		bar := 0
		if peak > 0 {
			bar = int(math.Round(float64(b.Count) / float64(peak) * barWidth))
		}
		t.AppendRow(table.Row{fmt.Sprintf("[%s, %s%s", num(b.Low), num(b.High), closing), Count(b.Count), strings.Repeat("█", bar)})
	}
	t.Render()
}

// Describe prints one row per numerical column.
func Describe(w io.Writer, ds []*profile.Description) {
	Heading(w, "Numerical summary")
	t := newTable(w)
	t.AppendHeader(table.Row{"Column", "Count", "Missing", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"})
	t.SetColumnConfigs(rightAlign(2, 3, 4, 5, 6, 7, 8, 9, 10))
	for _, d := range ds {
		t.AppendRow(table.Row{
			d.Column, Count(d.Count), Count(d.Missing),
			num(d.Mean), num(d.Std), num(d.Min), num(d.Q25), num(d.Median), num(d.Q75), num(d.Max),
		})
	}
	t.Render()
}

// Outliers prints robust z-score outlier counts.
func Outliers(w io.Writer, summaries []*profile.OutlierSummary) {
	Heading(w, "Outliers (robust z-score)")
	t := newTable(w)
	t.AppendHeader(table.Row{"Column", "Median", "MAD", "Threshold", "Outliers", "Max |z|"})
	t.SetColumnConfigs(rightAlign(2, 3, 4, 5, 6))
	for _, o := range summaries {
		t.AppendRow(table.Row{o.Column, num(o.Median), num(o.MAD), num(o.Threshold), Count(o.Count), fmt.Sprintf("%.2f", o.MaxAbsZ)})
	}
	t.Render()
}

// Redundancies prints column pairs that map one-to-one.
func Redundancies(w io.Writer, rs []profile.Redundancy) {
	Heading(w, "Redundant column pairs")
	if len(rs) == 0 {
		Note(w, "(none)")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Column", "Column", "Levels"})
	t.SetColumnConfigs(rightAlign(3))
	for _, r := range rs {
		t.AppendRow(table.Row{r.A, r.B, r.Levels})
	}
	t.Render()
}

// Correlations prints the strongest pairs of a correlation matrix.
func Correlations(w io.Writer, m *profile.CorrMatrix, top int) {
	Heading(w, "Correlations")
	pairs := m.TopPairs(top)
	if len(pairs) == 0 {
		Note(w, "(fewer than two numerical columns)")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Column", "Column", "r"})
	t.SetColumnConfigs(rightAlign(3))
	for _, p := range pairs {
		t.AppendRow(table.Row{p.A, p.B, fmt.Sprintf("%.3f", p.R)})
	}
	t.Render()
}

// PairGrid prints per-hue summaries of every scatter panel and diagonal histogram.
func PairGrid(w io.Writer, g *profile.PairGrid) {
	Heading(w, fmt.Sprintf("Pair grid by %s (first %s rows)", g.Hue, Count(g.Samples)))
	if len(g.Panels) > 0 {
		t := newTable(w)
		t.AppendHeader(table.Row{"X", "Y", g.Hue, "Points", "Mean X", "Mean Y", "r"})
		t.SetColumnConfigs(rightAlign(4, 5, 6, 7))
		for _, p := range g.Panels {
			for _, s := range p.Series {
				mx, my := s.Mean()
				t.AppendRow(table.Row{p.X, p.Y, s.Hue, Count(s.Len()), num(mx), num(my), fmt.Sprintf("%.3f", s.Pearson())})
			}
			t.AppendSeparator()
		}
		t.Render()
	}
	for _, d := range g.Diagonal {
		Heading(w, fmt.Sprintf("Diagonal: %s", d.Var))
		if len(d.Series) == 0 {
			Note(w, "(no values)")
			continue
		}
		t := newTable(w)
		header := table.Row{"Range"}
		for _, s := range d.Series {
			header = append(header, s.Hue)
		}
		t.AppendHeader(header)
		for i, b := range d.Series[0].Bins {
			row := table.Row{fmt.Sprintf("[%s, %s)", num(b.Low), num(b.High))}
			for _, s := range d.Series {
				row = append(row, Count(s.Bins[i].Count))
			}
			t.AppendRow(row)
		}
		t.Render()
	}
}

// LevelRow summarizes one discrete column.
type LevelRow struct {
	Column  string
	Role    schema.Role
	Unique  int
	Missing int
	Top     []profile.ValueCount
}

// Levels prints one row per discrete column with its most frequent values.
func Levels(w io.Writer, rows []LevelRow) {
	Heading(w, "Discrete columns")
	t := newTable(w)
	t.AppendHeader(table.Row{"Column", "Role", "Unique", "Missing", "Most frequent"})
	t.SetColumnConfigs(rightAlign(3, 4))
	for _, r := range rows {
		top := make([]string, len(r.Top))
		for i, v := range r.Top {
			top[i] = fmt.Sprintf("%s (%s)", v.Value, Count(v.Count))
		}
		t.AppendRow(table.Row{r.Column, titleCaser.String(string(r.Role)), Count(r.Unique), Count(r.Missing), strings.Join(top, ", ")})
	}
	t.Render()
}

// Schema prints the declared role of every column.
func Schema(w io.Writer, s *schema.Schema) {
	title := "Schema"
	if s.Name() != "" {
		title += ": " + s.Name()
	}
	Heading(w, title)
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Column", "Role"})
	for i, c := range s.Columns() {
		t.AppendRow(table.Row{i + 1, c.Name, titleCaser.String(string(c.Role))})
	}
	t.Render()
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
