package main

import (
	"os"

	"github.com/aretw0/cartridge/internal/cli"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load [track]",
	Short: "Load a track, play it and print the handle it returns",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hold, _ := cmd.Flags().GetDuration("hold")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		exitOnError(cli.RunLoad(sigCtx, os.Stdout, optionsFrom(cmd), args[0], hold))
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().Duration("hold", 0, "Keep the track's scheduled callbacks running for this long")
}
