package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/colprof-cli/internal/study"
	"github.com/spf13/cobra"
)

var (
	abStudy      string
	abSampleRows int
	abHistBins   int
	abTopValues  int
	abMaxLevels  int
	abNoCorr     bool
	abOutlierThr float64
	abQuiet      bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Profile multiple CSV/TSV/XLSX files with progress and optional study attachment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		format, err := outputFormat()
		if err != nil {
			return err
		}

		var st *study.Study
		if abStudy != "" {
			if st, err = loadStudyByName(abStudy); err != nil {
				return err
			}
		}
		s, err := schemaFor(st)
		if err != nil {
			return err
		}
		opt := reportOptions(cmd, abSampleRows, abHistBins, abTopValues, abMaxLevels, abOutlierThr, abNoCorr)
		out := cmd.OutOrStdout()

		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			rep, err := buildReport(path, s, opt)
			if err != nil {
				return err
			}
			if st == nil {
				if abQuiet {
					continue
				}
				if format == formatTable {
					printReport(out, rep)
					continue
				}
				body, err := encodeReport(rep, format)
				if err != nil {
					return err
				}
				if _, err := out.Write(body); err != nil {
					return err
				}
				continue
			}

			body, err := encodeReport(rep, format)
			if err != nil {
				return err
			}
			name := reportFileName(path, format)
			a, err := st.AttachReport(name, path, format, rep.Rows, body)
			if err != nil {
				return err
			}
			if err := st.Save(); err != nil {
				return err
			}
			if !abQuiet {
				if got := filepath.Base(a.Path); got != name {
					fmt.Fprintf(out, "⚠ Detected existing report, writing to %s to avoid overwrite.\n", got)
				}
				fmt.Fprintf(out, "✓ Added analysis to study '%s' as %s (id %s)\n", st.Name, filepath.Base(a.Path), a.ID)
			}
		}
		return nil
	},
}

// expandInputs resolves glob patterns, keeping literal paths that exist.
// The result is deduplicated and sorted.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abStudy, "study", "s", "", "study name to attach reports to")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	addReportFlags(analyzeBatchCmd, &abSampleRows, &abHistBins, &abTopValues, &abMaxLevels, &abOutlierThr, &abNoCorr)
}
