package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/colprof-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	listStudies   bool
	listReports   bool
	listStudyName string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List studies or attached reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listStudies == listReports { // either both true or both false
			return fmt.Errorf("specify exactly one of --studies or --reports")
		}
		out := cmd.OutOrStdout()
		if listStudies {
			return listAllStudies(cmd)
		}
		st, err := loadStudyByName(listStudyName)
		if err != nil {
			return err
		}
		if len(st.Reports) == 0 {
			fmt.Fprintln(out, "(no reports)")
			return nil
		}
		for _, a := range st.SortedReports() {
			fmt.Fprintf(out, "- %s: %s (%s)\n", a.ID, filepath.Base(a.Path), a.Source)
		}
		return nil
	},
}

func listAllStudies(cmd *cobra.Command) error {
	root, err := defaultStudiesDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), utils.StudyFileName)); err == nil {
			fmt.Fprintf(out, "- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Fprintln(out, "(no studies)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listStudies, "studies", false, "list studies")
	listCmd.Flags().BoolVar(&listReports, "reports", false, "list reports attached to a study")
	listCmd.Flags().StringVarP(&listStudyName, "study", "s", "", "study name for --reports (default: the study enclosing the working directory)")
}
