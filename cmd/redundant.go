package cmd

import (
	"fmt"

	"github.com/KaramelBytes/colprof-cli/internal/render"
	"github.com/spf13/cobra"
)

var redMaxLevels int

var redundantCmd = &cobra.Command{
	Use:   "redundant <file>",
	Short: "Find column pairs that map one-to-one, such as education and education-num",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		maxLevels := settings().MaxLevels
		if cmd.Flags().Changed("max-levels") {
			maxLevels = redMaxLevels
		}
		p, err := newProfiler(args[0])
		if err != nil {
			return err
		}
		rs, err := p.Redundancies(maxLevels)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch format {
		case formatJSON:
			return render.JSON(out, rs)
		case formatMarkdown:
			fmt.Fprintln(out, "[REDUNDANT COLUMNS]")
			if len(rs) == 0 {
				fmt.Fprintln(out, "(none)")
			}
			for _, r := range rs {
				fmt.Fprintf(out, "- %s <-> %s: one-to-one over %d levels\n", r.A, r.B, r.Levels)
			}
		default:
			render.Redundancies(out, rs)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(redundantCmd)
	redundantCmd.Flags().IntVar(&redMaxLevels, "max-levels", 64, "numerical columns with more distinct values are skipped")
}
