package report

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Markdown renders a compact report suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Schema != "" {
		b.WriteString(fmt.Sprintf("Schema: %s\n", r.Schema))
	}
	if r.SourceRows > r.Rows {
		b.WriteString(fmt.Sprintf("Rows: ~%d (processed %d)\n", r.SourceRows, r.Rows))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Columns)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Columns {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Role, c.NonNull, c.MissingPct()))
		if c.Stats != nil {
			s := c.Stats
			b.WriteString(fmt.Sprintf(": min %.4g, q25 %.4g, median %.4g, q75 %.4g, max %.4g, mean %.4g, std %.4g",
				s.Min, s.Q25, s.Median, s.Q75, s.Max, s.Mean, s.Std))
			if o := c.Outliers; o != nil {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", o.Count, o.Threshold))
				if o.MaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", o.MaxAbsZ))
				}
			}
		}
		if len(c.TopValues) > 0 {
			b.WriteString(": top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		}
		b.WriteString("\n")
	}

	if r.Target != nil && len(r.Target.Counts) > 0 {
		b.WriteString("\n[TARGET DISTRIBUTION]\n")
		total := r.Target.Total()
		for _, kv := range r.Target.Counts {
			b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", safeVal(kv.Value), kv.Count, float64(kv.Count)*100/float64(total)))
		}
		if r.Target.Missing > 0 {
			b.WriteString(fmt.Sprintf("- (missing): %d\n", r.Target.Missing))
		}
	}

	hasBins := false
	for _, c := range r.Columns {
		if len(c.Bins) > 0 {
			hasBins = true
			break
		}
	}
	if hasBins {
		b.WriteString("\n[HISTOGRAMS]\n")
		for _, c := range r.Columns {
			if len(c.Bins) == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("- %s:", safeName(c.Name)))
			for i, bin := range c.Bins {
				closing := ")"
				if i == len(c.Bins)-1 {
					closing = "]"
				}
				b.WriteString(fmt.Sprintf(" [%.4g, %.4g%s=%d", bin.Low, bin.High, closing, bin.Count))
			}
			b.WriteString("\n")
		}
	}

	if len(r.Redundant) > 0 {
		b.WriteString("\n[REDUNDANT COLUMNS]\n")
		for _, red := range r.Redundant {
			b.WriteString(fmt.Sprintf("- %s <-> %s: one-to-one over %d levels\n", red.A, red.B, red.Levels))
		}
	}

	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range r.Corr.TopPairs(10) {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.SampleCols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c))
		}
		b.WriteString(" |\n| ")
		for i := range r.SampleCols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.SampleCols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				b.WriteString(safeVal(truncate(val, 80)))
			}
			b.WriteString(" |\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
