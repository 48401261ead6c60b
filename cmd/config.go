package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/colprof-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set colprof configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "schema_file: %s\n", c.SchemaFile)
		fmt.Fprintf(out, "studies_dir: %s\n", c.StudiesDir)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		fmt.Fprintf(out, "missing_markers: %s\n", strings.Join(c.MissingMarkers, ","))
		fmt.Fprintf(out, "max_rows: %d\n", c.MaxRows)
		fmt.Fprintf(out, "hist_bins: %d\n", c.HistBins)
		fmt.Fprintf(out, "top_values: %d\n", c.TopValues)
		fmt.Fprintf(out, "sample_rows: %d\n", c.SampleRows)
		fmt.Fprintf(out, "max_levels: %d\n", c.MaxLevels)
		fmt.Fprintf(out, "pair_samples: %d\n", c.PairSamples)
		fmt.Fprintf(out, "outlier_threshold: %.3f\n", c.OutlierThreshold)
		fmt.Fprintf(out, "format: %s\n", c.Format)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "schema_file":
			p, err := absIfSet(val)
			if err != nil {
				return err
			}
			cfg.SchemaFile = p
		case "studies_dir":
			cfg.StudiesDir = val
		case "delimiter":
			if _, err := parseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "missing_markers":
			var markers []string
			for _, m := range strings.Split(val, ",") {
				if m = strings.TrimSpace(m); m != "" {
					markers = append(markers, m)
				}
			}
			cfg.MissingMarkers = markers
		case "max_rows", "hist_bins", "top_values", "sample_rows", "max_levels", "pair_samples":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			setIntKey(cfg, key, i)
		case "outlier_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid float for outlier_threshold: %v", val)
			}
			cfg.OutlierThreshold = f
		case "format":
			switch strings.ToLower(val) {
			case "table", "text":
				cfg.Format = formatTable
			case "md", "markdown":
				cfg.Format = formatMarkdown
			case "json":
				cfg.Format = formatJSON
			default:
				return fmt.Errorf("invalid format: %s (use table, markdown or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setIntKey(c *cfgpkg.Global, key string, i int) {
	switch key {
	case "max_rows":
		c.MaxRows = i
	case "hist_bins":
		c.HistBins = i
	case "top_values":
		c.TopValues = i
	case "sample_rows":
		c.SampleRows = i
	case "max_levels":
		c.MaxLevels = i
	case "pair_samples":
		c.PairSamples = i
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
