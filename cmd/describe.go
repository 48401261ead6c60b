package cmd

import (
	"fmt"

	"github.com/KaramelBytes/colprof-cli/internal/profile"
	"github.com/KaramelBytes/colprof-cli/internal/render"
	"github.com/spf13/cobra"
)

var descOutlierThr float64

type describeResult struct {
	Stats    []*profile.Description    `json:"stats"`
	Outliers []*profile.OutlierSummary `json:"outliers"`
}

var describeCmd = &cobra.Command{
	Use:   "describe <file> [column...]",
	Short: "Summarize numerical columns: count, mean, std, quartiles and outliers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		thr := settings().OutlierThreshold
		if cmd.Flags().Changed("outlier-threshold") {
			thr = descOutlierThr
		}
		p, err := newProfiler(args[0], args[1:]...)
		if err != nil {
			return err
		}
		var res describeResult
		if cols := args[1:]; len(cols) > 0 {
			for _, c := range cols {
				d, err := p.Describe(c)
				if err != nil {
					return err
				}
				res.Stats = append(res.Stats, d)
			}
		} else if res.Stats, err = p.DescribeAll(); err != nil {
			return err
		}
		for _, d := range res.Stats {
			o, err := p.Outliers(d.Column, thr)
			if err != nil {
				return err
			}
			res.Outliers = append(res.Outliers, o)
		}
		out := cmd.OutOrStdout()
		switch format {
		case formatJSON:
			return render.JSON(out, res)
		case formatMarkdown:
			fmt.Fprintln(out, "| column | count | mean | std | min | 25% | 50% | 75% | max | outliers |")
			fmt.Fprintln(out, "| --- | --- | --- | --- | --- | --- | --- | --- | --- | --- |")
			for i, d := range res.Stats {
				fmt.Fprintf(out, "| %s | %d | %.4g | %.4g | %.4g | %.4g | %.4g | %.4g | %.4g | %d |\n",
					d.Column, d.Count, d.Mean, d.Std, d.Min, d.Q25, d.Median, d.Q75, d.Max, res.Outliers[i].Count)
			}
		default:
			render.Describe(out, res.Stats)
			render.Outliers(out, res.Outliers)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().Float64Var(&descOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
}
