package main

import (
	"os"

	"github.com/aretw0/cartridge/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the track HTTP server",
	Long: `Serves the track listing, cleaned sources, track metadata and Prometheus
metrics, so players without mounted storage can load tracks remotely.`,
	Run: func(cmd *cobra.Command, args []string) {
		listen, _ := cmd.Flags().GetString("listen")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		exitOnError(cli.RunServe(sigCtx, os.Stdout, optionsFrom(cmd), listen))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "Address to listen on (default from config, :8080)")
}
