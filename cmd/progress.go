package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Change topic progress",
}

var progressSetCmd = &cobra.Command{
	Use:   "set <id> <value>",
	Short: "Set a topic's progress (clamped to 0-100)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
		if err != nil {
			return fmt.Errorf("progress must be an integer: %q", args[1])
		}

		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		change, err := d.store.SetProgress(cmd.Context(), args[0], value)
		if err != nil {
			return err
		}
		warn(cmd, change.Warning)

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s: %d%%\n", change.Topic.ID, change.Topic.Progress)
		if len(change.Unlocked) > 0 {
			fmt.Fprintf(w, "unlocked: %s\n", strings.Join(change.Unlocked, ", "))
		}
		if len(change.Locked) > 0 {
			fmt.Fprintf(w, "locked: %s\n", strings.Join(change.Locked, ", "))
		}
		return nil
	},
}

func init() {
	progressCmd.AddCommand(progressSetCmd)
}
