package main

import (
	"os"

	"github.com/aretw0/cartridge/internal/cli"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available tracks",
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")
		exitOnError(cli.RunList(cmd.Context(), os.Stdout, optionsFrom(cmd), plain))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("plain", false, "Print one file name per line")
}
