package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/colprof-cli/internal/profile"
	"github.com/KaramelBytes/colprof-cli/internal/render"
	"github.com/spf13/cobra"
)

type crosstabResult struct {
	*profile.CrossTab
	OneToOne  bool              `json:"one_to_one"`
	Bijective bool              `json:"bijective"`
	Mapping   map[string]string `json:"mapping,omitempty"`
}

var crosstabCmd = &cobra.Command{
	Use:   "crosstab <file> <row-column> <col-column>",
	Short: "Cross-tabulate two columns and report whether one determines the other",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		p, err := newProfiler(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		ct, err := p.CrossTabulate(args[1], args[2])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch format {
		case formatJSON:
			return render.JSON(out, crosstabResult{CrossTab: ct, OneToOne: ct.IsOneToOne(), Bijective: ct.IsBijective(), Mapping: ct.Mapping()})
		case formatMarkdown:
			fmt.Fprintf(out, "| %s \\ %s | %s | Total |\n", ct.RowColumn, ct.ColColumn, strings.Join(ct.ColLabels, " | "))
			fmt.Fprintf(out, "|%s\n", strings.Repeat(" --- |", len(ct.ColLabels)+2))
			for i, r := range ct.RowLabels {
				cells := make([]string, len(ct.ColLabels))
				for j, n := range ct.Counts[i] {
					cells[j] = fmt.Sprint(n)
				}
				fmt.Fprintf(out, "| %s | %s | %d |\n", r, strings.Join(cells, " | "), ct.RowTotals[i])
			}
			fmt.Fprintf(out, "\nOne-to-one: %t, bijective: %t\n", ct.IsOneToOne(), ct.IsBijective())
			if m := ct.Mapping(); m != nil {
				for _, r := range ct.RowLabels {
					fmt.Fprintf(out, "- %s → %s\n", r, m[r])
				}
			}
		default:
			render.CrossTab(out, ct)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crosstabCmd)
}
