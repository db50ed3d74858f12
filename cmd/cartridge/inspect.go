package main

import (
	"os"

	"github.com/aretw0/cartridge/internal/cli"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [track]",
	Short: "Show a track's raw and cleaned source without running it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")
		exitOnError(cli.RunInspect(cmd.Context(), os.Stdout, optionsFrom(cmd), args[0], plain))
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("plain", false, "Print without markdown rendering")
}
