package main

import (
	"os"

	"github.com/aretw0/cartridge/internal/cli"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish [file...]",
	Short: "Copy local track files into Redis storage",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ttl, _ := cmd.Flags().GetDuration("ttl")
		exitOnError(cli.RunPublish(cmd.Context(), os.Stdout, optionsFrom(cmd), args, ttl))
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().Duration("ttl", 0, "Expire published tracks after this long (0 keeps them)")
}
