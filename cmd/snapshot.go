package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/kpv/internal/progress"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a progress snapshot (JSON)",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		data, err := d.store.Export()
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if out == "" {
			out = progress.ExportFilename(time.Now())
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %s\n", out)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Apply a progress snapshot; \"-\" reads standard input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}

		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		res, err := d.store.Import(cmd.Context(), data)
		if err != nil {
			return err
		}
		warn(cmd, res.Warning)

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "applied %d topics\n", res.Applied)
		if len(res.Unlocked) > 0 {
			fmt.Fprintf(w, "unlocked: %s\n", strings.Join(res.Unlocked, ", "))
		}
		if len(res.Locked) > 0 {
			fmt.Fprintf(w, "locked: %s\n", strings.Join(res.Locked, ", "))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output file; \"-\" for stdout (default: suggested name in the working directory)")
}
