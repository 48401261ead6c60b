package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/colprof-cli/internal/dataset"
	"github.com/KaramelBytes/colprof-cli/internal/render"
	"github.com/KaramelBytes/colprof-cli/internal/schema"
	"github.com/spf13/cobra"
)

var (
	schOutput string
	schTarget string
	schName   string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Draft or inspect column role schemas",
}

var schemaInitCmd = &cobra.Command{
	Use:   "init <file>",
	Short: "Draft a schema from a data file for review",
	Long: `Draft a schema from a data file: a column whose non-missing values all parse as
numbers is numerical, everything else categorical. Review the file before use;
numeric codes such as education-num may deserve another role.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := loadOptions()
		if err != nil {
			return err
		}
		t, err := dataset.Load(args[0], nil, opt)
		if err != nil {
			return err
		}
		name := schName
		if name == "" {
			base := filepath.Base(args[0])
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		s, err := schema.Draft(name, t, schTarget)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if schOutput == "" {
			if format, _ := outputFormat(); format == formatJSON {
				return render.JSON(out, s.File())
			}
			render.Schema(out, s)
			return nil
		}
		if err := s.Save(schOutput); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Wrote schema '%s' (%d columns) to %s\n", s.Name(), len(s.Columns()), schOutput)
		return nil
	},
}

var schemaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active schema (--schema, config, or the built-in adult census schema)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		s, err := loadSchema()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch format {
		case formatJSON:
			return render.JSON(out, s.File())
		case formatMarkdown:
			fmt.Fprintf(out, "[SCHEMA: %s]\n", s.Name())
			for _, c := range s.Columns() {
				fmt.Fprintf(out, "- %s: %s\n", c.Name, c.Role)
			}
		default:
			render.Schema(out, s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaInitCmd)
	schemaCmd.AddCommand(schemaShowCmd)
	schemaInitCmd.Flags().StringVarP(&schOutput, "output", "o", "", "write the drafted schema YAML to this path")
	schemaInitCmd.Flags().StringVar(&schTarget, "target", "", "column to declare as the target")
	schemaInitCmd.Flags().StringVar(&schName, "name", "", "schema name (default: file name without extension)")
}
