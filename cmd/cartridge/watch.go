package main

import (
	"os"

	"github.com/aretw0/cartridge"
	"github.com/aretw0/cartridge/internal/cli"
	"github.com/aretw0/cartridge/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload every track whenever the storage directory changes",
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(cartridge.Version)

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		exitOnError(cli.RunWatch(sigCtx, os.Stdout, optionsFrom(cmd)))
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
