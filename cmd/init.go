package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/colprof-cli/internal/schema"
	"github.com/KaramelBytes/colprof-cli/internal/study"
	"github.com/KaramelBytes/colprof-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	initDescription string
	initSchema      string
	initData        string
)

var initCmd = &cobra.Command{
	Use:   "init <study-name>",
	Short: "Initialize a new study",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		studyDir, err := resolveStudyDirByName(name)
		if err != nil {
			return err
		}
		// Refuse to overwrite an existing study.
		if info, err := os.Stat(studyDir); err == nil && info.IsDir() {
			if _, err := os.Stat(filepath.Join(studyDir, utils.StudyFileName)); err == nil {
				return fmt.Errorf("study already exists at %s", studyDir)
			}
			entries, err := os.ReadDir(studyDir)
			if err != nil {
				return fmt.Errorf("inspect study directory: %w", err)
			}
			if len(entries) > 0 {
				return fmt.Errorf("directory %s already exists and is not empty; refusing to initialize study", studyDir)
			}
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat study directory: %w", err)
		}
		schemaFile, err := absIfSet(initSchema)
		if err != nil {
			return err
		}
		if schemaFile != "" {
			if _, err := schema.Load(schemaFile); err != nil {
				return err
			}
		}
		dataFile, err := absIfSet(initData)
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(studyDir); err != nil {
			return err
		}
		st := study.New(name, initDescription, studyDir)
		st.SchemaFile = schemaFile
		st.DataFile = dataFile
		if err := st.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Study initialized: %s\n", studyDir)
		return nil
	},
}

func absIfSet(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	return abs, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "study description")
	initCmd.Flags().StringVar(&initSchema, "schema-file", "", "schema YAML for the study (default: built-in adult census schema)")
	initCmd.Flags().StringVar(&initData, "data", "", "default data file for the study")
}
