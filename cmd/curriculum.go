package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/kpv/internal/curriculum"
)

var curriculumCmd = &cobra.Command{
	Use:   "curriculum",
	Short: "Inspect the curriculum definition",
}

var curriculumValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check ids, prerequisite references and cycles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		file, err := curriculum.Load(cfg.CurriculumPath)
		if err != nil {
			return err
		}

		report := curriculum.Validate(file.Topics)
		w := cmd.OutOrStdout()
		for _, e := range report.Errors {
			fmt.Fprintf(w, "error:   %s\n", e)
		}
		for _, warning := range report.Warnings {
			fmt.Fprintf(w, "warning: %s\n", warning)
		}
		if err := report.Err(cfg.Strict); err != nil {
			return fmt.Errorf("%d errors, %d warnings", len(report.Errors), len(report.Warnings))
		}
		fmt.Fprintf(w, "%d topics OK\n", len(file.Topics))
		return nil
	},
}

func init() {
	curriculumCmd.AddCommand(curriculumValidateCmd)
}
