package cmd

import (
	"fmt"

	"github.com/KaramelBytes/colprof-cli/internal/render"
	"github.com/KaramelBytes/colprof-cli/internal/schema"
	"github.com/KaramelBytes/colprof-cli/internal/study"
	"github.com/KaramelBytes/colprof-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	stStudy  string
	stSchema string
	stData   string
	stClear  bool
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Manage per-study settings and reports",
}

var studyShowCmd = &cobra.Command{
	Use:   "show <study>",
	Short: "Show a study's settings, schema and attached reports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStudyByName(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "name: %s\n", st.Name)
		if st.Description != "" {
			fmt.Fprintf(out, "description: %s\n", st.Description)
		}
		fmt.Fprintf(out, "root: %s\n", st.RootDir())
		if st.DataFile != "" {
			fmt.Fprintf(out, "data_file: %s\n", st.DataFile)
		}
		if st.SchemaFile != "" {
			fmt.Fprintf(out, "schema_file: %s\n", st.SchemaFile)
		}
		s, err := st.Schema()
		if err != nil {
			return err
		}
		render.Schema(out, s)
		fmt.Fprintf(out, "reports: %d\n", len(st.Reports))
		for _, a := range st.SortedReports() {
			fmt.Fprintf(out, "- %s: %s (%s, %s rows, from %s)\n", a.ID, a.Path, a.Format, render.Count(a.Rows), a.Source)
		}
		return nil
	},
}

var studySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set or clear a study's schema and data file",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStudyByName(stStudy)
		if err != nil {
			return err
		}
		f := cmd.Flags()
		if stClear {
			st.SchemaFile = ""
			st.DataFile = ""
		}
		if f.Changed("schema-file") {
			p, err := absIfSet(stSchema)
			if err != nil {
				return err
			}
			if p != "" {
				if _, err := schema.Load(p); err != nil {
					return err
				}
			}
			st.SchemaFile = p
		}
		if f.Changed("data") {
			if st.DataFile, err = absIfSet(stData); err != nil {
				return err
			}
		}
		if err := st.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated study %s\n", st.Name)
		return nil
	},
}

var studyRemoveCmd = &cobra.Command{
	Use:   "remove-report <study> <report-id>",
	Short: "Delete an attached report",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStudyByName(args[0])
		if err != nil {
			return err
		}
		if err := st.RemoveReport(args[1]); err != nil {
			return err
		}
		if err := st.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed report %s from %s\n", args[1], st.Name)
		return nil
	},
}

// loadStudyByName loads a named study, or the study enclosing the working
// directory when name is empty.
func loadStudyByName(name string) (*study.Study, error) {
	if name == "" {
		dir, err := utils.FindStudyRoot("")
		if err != nil {
			return nil, fmt.Errorf("no --study given and %w", err)
		}
		return study.Load(dir)
	}
	dir, err := resolveStudyDirByName(name)
	if err != nil {
		return nil, err
	}
	return study.Load(dir)
}

// schemaFor prefers --schema, then the study's schema, then the configured one.
func schemaFor(st *study.Study) (*schema.Schema, error) {
	if st != nil && flagSchema == "" {
		return st.Schema()
	}
	return loadSchema()
}

func init() {
	rootCmd.AddCommand(studyCmd)
	studyCmd.AddCommand(studyShowCmd)
	studyCmd.AddCommand(studySetCmd)
	studyCmd.AddCommand(studyRemoveCmd)

	studySetCmd.Flags().StringVarP(&stStudy, "study", "s", "", "study name (default: the study enclosing the working directory)")
	studySetCmd.Flags().StringVar(&stSchema, "schema-file", "", "schema YAML for the study")
	studySetCmd.Flags().StringVar(&stData, "data", "", "default data file for the study")
	studySetCmd.Flags().BoolVar(&stClear, "clear", false, "clear the study's schema and data file")
}
