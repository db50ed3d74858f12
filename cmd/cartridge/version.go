package main

import (
	"fmt"

	"github.com/aretw0/cartridge/internal/cli"
	"github.com/aretw0/cartridge/pkg/host"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cartridge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cartridge version %s (host contract v%d)\n", cli.Version(), host.ContractVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
