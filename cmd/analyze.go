package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/colprof-cli/internal/dataset"
	"github.com/KaramelBytes/colprof-cli/internal/profile"
	"github.com/KaramelBytes/colprof-cli/internal/render"
	"github.com/KaramelBytes/colprof-cli/internal/report"
	"github.com/KaramelBytes/colprof-cli/internal/schema"
	"github.com/KaramelBytes/colprof-cli/internal/study"
	"github.com/spf13/cobra"
)

var (
	anaStudy      string
	anaOutputPath string
	anaSampleRows int
	anaHistBins   int
	anaTopValues  int
	anaMaxLevels  int
	anaNoCorr     bool
	anaOutlierThr float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Profile every schema column of a CSV/TSV/XLSX file",
	Long:  "Profile every schema column of a CSV/TSV/XLSX file. With --study the file defaults to the study's data file.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		var st *study.Study
		if anaStudy != "" {
			if st, err = loadStudyByName(anaStudy); err != nil {
				return err
			}
		}
		var path string
		switch {
		case len(args) == 1:
			path = args[0]
		case st != nil && st.DataFile != "":
			path = st.DataPath()
		default:
			return fmt.Errorf("a data file is required (pass it or set one on the study)")
		}
		s, err := schemaFor(st)
		if err != nil {
			return err
		}
		rep, err := buildReport(path, s, reportOptions(cmd, anaSampleRows, anaHistBins, anaTopValues, anaMaxLevels, anaOutlierThr, anaNoCorr))
		if err != nil {
			return err
		}
		body, err := encodeReport(rep, format)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		// Decide where to write: --output path, or attach to study, or stdout
		written := false
		if anaOutputPath != "" {
			if err := os.WriteFile(anaOutputPath, body, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote analysis to %s\n", anaOutputPath)
			written = true
		}
		if st != nil {
			a, err := st.AttachReport(reportFileName(path, format), path, format, rep.Rows, body)
			if err != nil {
				return err
			}
			if err := st.Save(); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Added analysis to study '%s' as %s (id %s)\n", st.Name, filepath.Base(a.Path), a.ID)
			written = true
		}
		if !written {
			if format == formatTable {
				printReport(out, rep)
				return nil
			}
			_, err = out.Write(body)
			return err
		}
		return nil
	},
}

// reportOptions starts from config values; explicitly set flags win.
func reportOptions(cmd *cobra.Command, sampleRows, histBins, topValues, maxLevels int, outlierThr float64, noCorr bool) report.Options {
	c := settings()
	opt := report.DefaultOptions()
	opt.Logger = logger
	opt.SampleRows = c.SampleRows
	opt.HistBins = c.HistBins
	opt.TopValues = c.TopValues
	opt.MaxLevels = c.MaxLevels
	opt.OutlierThreshold = c.OutlierThreshold
	f := cmd.Flags()
	if f.Changed("sample-rows") {
		opt.SampleRows = sampleRows
	}
	if f.Changed("hist-bins") {
		opt.HistBins = histBins
	}
	if f.Changed("top") {
		opt.TopValues = topValues
	}
	if f.Changed("max-levels") {
		opt.MaxLevels = maxLevels
	}
	if f.Changed("outlier-threshold") {
		opt.OutlierThreshold = outlierThr
	}
	opt.Correlations = !noCorr
	return opt
}

// buildReport loads every column of path so undeclared ones show up as notes.
func buildReport(path string, s *schema.Schema, opt report.Options) (*report.Report, error) {
	lopt, err := loadOptions()
	if err != nil {
		return nil, err
	}
	t, err := dataset.Load(path, nil, lopt)
	if err != nil {
		return nil, err
	}
	logger.Debug("building report", "path", path, "rows", t.Len(), "schema", s.Name())
	return report.Build(t, s, opt)
}

// encodeReport renders rep for files and study attachments. Terminal tables
// are not meant for files, so the table format stores Markdown.
func encodeReport(rep *report.Report, format string) ([]byte, error) {
	if format == formatJSON {
		var buf bytes.Buffer
		if err := render.JSON(&buf, rep); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return []byte(rep.Markdown()), nil
}

func reportFileName(path, format string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if format == formatJSON {
		return stem + ".profile.json"
	}
	return stem + ".profile.md"
}

func printReport(w io.Writer, rep *report.Report) {
	render.Heading(w, fmt.Sprintf("%s: %s rows", rep.Name, render.Count(rep.Rows)))
	if rep.SourceRows > rep.Rows {
		render.Note(w, "processed %s of %s rows", render.Count(rep.Rows), render.Count(rep.SourceRows))
	}
	var descs []*profile.Description
	for i := range rep.Columns {
		if rep.Columns[i].Stats != nil {
			descs = append(descs, rep.Columns[i].Stats)
		}
	}
	if len(descs) > 0 {
		render.Describe(w, descs)
	}
	var levels []render.LevelRow
	for _, c := range rep.Columns {
		if c.Role.Discrete() {
			levels = append(levels, render.LevelRow{Column: c.Name, Role: c.Role, Unique: c.Unique, Missing: c.Missing, Top: c.TopValues})
		}
	}
	if len(levels) > 0 {
		render.Levels(w, levels)
	}
	if len(rep.Redundant) > 0 {
		render.Redundancies(w, rep.Redundant)
	}
	if rep.Corr != nil && len(rep.Corr.Columns) >= 2 {
		render.Correlations(w, rep.Corr, 10)
	}
	for _, warn := range rep.Warnings {
		fmt.Fprintf(w, "⚠ %s\n", warn)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaStudy, "study", "s", "", "study name to attach the report to")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report (Markdown, or JSON with --format json)")
	addReportFlags(analyzeCmd, &anaSampleRows, &anaHistBins, &anaTopValues, &anaMaxLevels, &anaOutlierThr, &anaNoCorr)
}

func addReportFlags(c *cobra.Command, sampleRows, histBins, topValues, maxLevels *int, outlierThr *float64, noCorr *bool) {
	c.Flags().IntVar(sampleRows, "sample-rows", 5, "number of sample rows to include (0 disables samples)")
	c.Flags().IntVar(histBins, "hist-bins", 10, "histogram bins per numerical column (0 disables histograms)")
	c.Flags().IntVar(topValues, "top", 8, "value counts listed per discrete column (0 = all)")
	c.Flags().IntVar(maxLevels, "max-levels", 64, "numerical columns with more distinct values skip redundancy checks")
	c.Flags().Float64Var(outlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based, 0 disables)")
	c.Flags().BoolVar(noCorr, "no-correlations", false, "skip Pearson correlations among numerical columns")
}
