package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/colprof-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile    string
	debug      bool
	flagSchema string
	flagFormat string
	// Loading flags (override config if set)
	flagDelimiter  string
	flagMissing    []string
	flagMaxRows    int
	flagDecimal    string
	flagThousands  string
	flagSheetName  string
	flagSheetIndex int

	// Loaded configuration
	cfg *cfgpkg.Global
	// logger writes diagnostics to stderr; --debug lowers its level
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:   "colprof",
	Short: "colprof: profile the columns of census-style CSV files",
	Long: `colprof loads a delimited flat file, assigns every column a declared role
(numerical, categorical or target) from a schema, and summarizes it: value counts,
cross-tabulations, histograms, numeric descriptions, redundant column pairs and
pairwise scatter data split by the target class.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.colprof/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug output")
	pf.StringVar(&flagSchema, "schema", "", "schema YAML declaring column roles (default: built-in adult census schema)")
	pf.StringVarP(&flagFormat, "format", "f", "", "output format: table | markdown | json (overrides config)")
	pf.StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default: from file extension)")
	pf.StringSliceVar(&flagMissing, "missing", nil, "cell texts treated as missing, e.g. '?' (overrides config)")
	pf.IntVar(&flagMaxRows, "max-rows", 0, "maximum rows to load (0 = unlimited)")
	pf.StringVar(&flagDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	pf.StringVar(&flagThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
	pf.StringVar(&flagSheetName, "sheet-name", "", "XLSX: sheet name to load")
	pf.IntVar(&flagSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func loadConfig() {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c
	logger.Debug("config loaded", "file", cfgFile, "schema_file", cfg.SchemaFile, "format", cfg.Format)
}
