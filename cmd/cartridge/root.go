package main

import (
	"fmt"
	"os"

	"github.com/aretw0/cartridge/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cartridge",
	Short: "Cartridge loads and plays sandboxed track scripts",
	Long: `Cartridge finds track scripts on removable storage (or a track server),
strips their module syntax and runs them in a restricted JavaScript scope.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./cartridge.yaml)")
	rootCmd.PersistentFlags().String("dir", "", "Track directory probed before the default storage roots")
	rootCmd.PersistentFlags().String("remote", "", "Track server used when no storage is mounted")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for shared track storage")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// optionsFrom collects the persistent flags.
func optionsFrom(cmd *cobra.Command) cli.Options {
	configPath, _ := cmd.Flags().GetString("config")
	dir, _ := cmd.Flags().GetString("dir")
	remote, _ := cmd.Flags().GetString("remote")
	redisAddr, _ := cmd.Flags().GetString("redis")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.Options{
		ConfigPath: configPath,
		Dir:        dir,
		Remote:     remote,
		Redis:      redisAddr,
		Debug:      debug,
	}
}

// exitOnError prints err and exits with status 1.
func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
