package cmd

import (
	"fmt"

	"github.com/KaramelBytes/colprof-cli/internal/chart"
	"github.com/KaramelBytes/colprof-cli/internal/profile"
	"github.com/KaramelBytes/colprof-cli/internal/render"
	"github.com/KaramelBytes/colprof-cli/internal/schema"
	"github.com/KaramelBytes/colprof-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	histBins int
	histPNG  string
)

type histResult struct {
	Column string        `json:"column"`
	Bins   []profile.Bin `json:"bins"`
}

var histCmd = &cobra.Command{
	Use:   "hist <file> [column...]",
	Short: "Bin numerical columns into equal-width histograms",
	Long:  "Bin numerical columns into equal-width histograms. Without columns, every numerical column of the schema is binned.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		bins := settings().HistBins
		if cmd.Flags().Changed("bins") {
			bins = histBins
		}
		p, err := newProfiler(args[0], args[1:]...)
		if err != nil {
			return err
		}
		cols := args[1:]
		if len(cols) == 0 {
			cols = p.Schema().ByRole(schema.Numerical)
		}
		var all []histResult
		for _, c := range cols {
			b, err := p.HistogramBins(c, bins)
			if err != nil {
				return err
			}
			all = append(all, histResult{Column: c, Bins: b})
		}
		out := cmd.OutOrStdout()
		if histPNG != "" {
			if err := utils.EnsureDir(histPNG); err != nil {
				return err
			}
			for _, h := range all {
				path := chart.HistogramFile(histPNG, h.Column)
				if err := chart.Histogram(path, h.Column, h.Bins); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Wrote %s\n", path)
			}
			return nil
		}
		switch format {
		case formatJSON:
			return render.JSON(out, all)
		case formatMarkdown:
			for _, h := range all {
				fmt.Fprintf(out, "[HISTOGRAM: %s]\n", h.Column)
				for i, b := range h.Bins {
					closing := ")"
					if i == len(h.Bins)-1 {
						closing = "]"
					}
					fmt.Fprintf(out, "- [%.4g, %.4g%s: %d\n", b.Low, b.High, closing, b.Count)
				}
				fmt.Fprintln(out)
			}
		default:
			for _, h := range all {
				render.Bins(out, h.Column, h.Bins)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(histCmd)
	histCmd.Flags().IntVarP(&histBins, "bins", "b", 10, "number of equal-width bins (overrides config)")
	histCmd.Flags().StringVar(&histPNG, "png", "", "write one histogram image per column into this directory instead of printing")
}
