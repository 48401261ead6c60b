package cmd

import (
	"fmt"

	"github.com/KaramelBytes/colprof-cli/internal/profile"
	"github.com/KaramelBytes/colprof-cli/internal/render"
	"github.com/spf13/cobra"
)

var countsTop int

var countsCmd = &cobra.Command{
	Use:   "counts <file> [column...]",
	Short: "Count distinct values of categorical or target columns",
	Long:  "Count distinct values of categorical or target columns. Without columns, every discrete column of the schema is counted.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		p, err := newProfiler(args[0], args[1:]...)
		if err != nil {
			return err
		}
		cols := args[1:]
		if len(cols) == 0 {
			for _, c := range p.Schema().Columns() {
				if c.Role.Discrete() {
					cols = append(cols, c.Name)
				}
			}
		}
		var all []*profile.ValueCounts
		for _, c := range cols {
			vc, err := p.ValueCounts(c)
			if err != nil {
				return err
			}
			all = append(all, vc)
		}
		out := cmd.OutOrStdout()
		switch format {
		case formatJSON:
			return render.JSON(out, all)
		case formatMarkdown:
			for _, vc := range all {
				fmt.Fprintf(out, "[VALUE COUNTS: %s]\n", vc.Column)
				for _, c := range vc.Top(countsTop) {
					fmt.Fprintf(out, "- %s: %d\n", c.Value, c.Count)
				}
				if vc.Missing > 0 {
					fmt.Fprintf(out, "- (missing): %d\n", vc.Missing)
				}
				fmt.Fprintln(out)
			}
		default:
			for _, vc := range all {
				render.ValueCounts(out, vc, countsTop)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countsCmd)
	countsCmd.Flags().IntVar(&countsTop, "top", 0, "show only the N most frequent values (0 = all)")
}
