package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/kpv/internal/app"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(cmd.Context(), app.Options{Store: d.store})
}
