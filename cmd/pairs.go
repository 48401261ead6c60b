package cmd

import (
	"fmt"

	"github.com/KaramelBytes/colprof-cli/internal/chart"
	"github.com/KaramelBytes/colprof-cli/internal/profile"
	"github.com/KaramelBytes/colprof-cli/internal/render"
	"github.com/spf13/cobra"
)

var (
	pairVars    []string
	pairXVars   []string
	pairYVars   []string
	pairHue     string
	pairSamples int
	pairBins    int
	pairPNG     string
)

var pairsCmd = &cobra.Command{
	Use:   "pairs <file>",
	Short: "Build pairwise scatter data and per-class histograms over numerical columns",
	Long: `Build the data behind a pair plot: for every pair of variables, the points of
each hue level, and on the diagonal a histogram per hue level. The hue defaults to
the schema's target column and only the first --samples rows are used.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		opt := profile.PairOptions{
			XVars:   pairVars,
			Hue:     pairHue,
			Samples: settings().PairSamples,
			Bins:    settings().HistBins,
		}
		if len(pairXVars) > 0 {
			opt.XVars = pairXVars
			opt.YVars = pairYVars
		}
		if len(opt.XVars) == 0 {
			opt.XVars = []string{"age", "education-num", "hours-per-week"}
		}
		f := cmd.Flags()
		if f.Changed("samples") {
			opt.Samples = pairSamples
		}
		if f.Changed("bins") {
			opt.Bins = pairBins
		}
		extra := append(append([]string{}, opt.XVars...), opt.YVars...)
		if opt.Hue != "" {
			extra = append(extra, opt.Hue)
		}
		p, err := newProfiler(args[0], extra...)
		if err != nil {
			return err
		}
		if opt.Hue == "" {
			t, ok := p.Schema().Target()
			if !ok {
				return fmt.Errorf("schema has no target column; pass --hue")
			}
			opt.Hue = t
		}
		g, err := p.PairGrid(opt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if pairPNG != "" {
			paths, err := chart.PairGrid(pairPNG, g)
			if err != nil {
				return err
			}
			for _, path := range paths {
				fmt.Fprintf(out, "✓ Wrote %s\n", path)
			}
			return nil
		}
		switch format {
		case formatJSON:
			return render.JSON(out, g)
		case formatMarkdown:
			fmt.Fprintf(out, "[PAIR GRID: hue %s, first %d rows]\n", g.Hue, g.Samples)
			for _, panel := range g.Panels {
				for _, s := range panel.Series {
					mx, my := s.Mean()
					fmt.Fprintf(out, "- %s ~ %s [%s]: n=%d, mean=(%.4g, %.4g), r=%.3f\n", panel.X, panel.Y, s.Hue, s.Len(), mx, my, s.Pearson())
				}
			}
			for _, d := range g.Diagonal {
				for _, s := range d.Series {
					fmt.Fprintf(out, "- %s [%s]:", d.Var, s.Hue)
					for _, b := range s.Bins {
						fmt.Fprintf(out, " %d", b.Count)
					}
					fmt.Fprintln(out)
				}
			}
		default:
			render.PairGrid(out, g)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pairsCmd)
	pairsCmd.Flags().StringSliceVar(&pairVars, "vars", nil, "numerical variables for a square grid (default: age, education-num, hours-per-week)")
	pairsCmd.Flags().StringSliceVar(&pairXVars, "x-vars", nil, "variables along the x axis (use with --y-vars)")
	pairsCmd.Flags().StringSliceVar(&pairYVars, "y-vars", nil, "variables along the y axis")
	pairsCmd.Flags().StringVar(&pairHue, "hue", "", "discrete column splitting the points (default: schema target)")
	pairsCmd.Flags().IntVar(&pairSamples, "samples", 5000, "use only the first N rows (0 = all; overrides config)")
	pairsCmd.Flags().IntVar(&pairBins, "bins", 10, "histogram bins on the diagonal (overrides config)")
	pairsCmd.Flags().StringVar(&pairPNG, "png", "", "write one image per grid cell into this directory instead of printing")
}
