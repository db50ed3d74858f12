package main

import (
	"os"

	"github.com/aretw0/cartridge/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load every track once and report the ones that fail",
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(cli.RunValidate(cmd.Context(), os.Stdout, optionsFrom(cmd)))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
