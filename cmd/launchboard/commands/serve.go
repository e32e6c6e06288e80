package commands

import (
	"time"

	"launchboard/cmd/launchboard/globals"
	"launchboard/lib/dashboard"
	"launchboard/lib/serviceutil"
	"launchboard/lib/telemetry"

	"github.com/spf13/cobra"
)

var port int

func init() {
	serveCmd.Flags().IntVar(&port, "port", 0, "Port to listen on, defaults to the configured port.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g := globals.Get(ctx)

		listen := port
		if listen == 0 {
			listen = g.Config.Port
		}

		telemetry.InstrumentPerfStats(ctx, time.Second*15)

		server := dashboard.NewServer(g.Dashboard, dashboard.DefaultServerOptions())
		return serviceutil.StartHttpServer(ctx, listen, server.Handler())
	},
}
