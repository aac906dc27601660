package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/kpv/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the topic graph over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := d.cfg.Server.Addr()
		fmt.Fprintf(cmd.OutOrStdout(), "kpv listening on http://%s\n", addr)
		return server.New(d.store, d.cfg.Server.AllowOrigins, d.log).Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "Listen host (overrides KPV_HOST)")
	serveCmd.Flags().Int("port", 0, "Listen port (overrides KPV_PORT)")
}
