package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skyfleet/skyctl/config"
)

var (
	version = "0.1.0"

	globalConfig string
	globalDebug  bool

	rootCmd = &cobra.Command{
		Use:   "skyctl",
		Short: "Machines across every datacenter",
		Long: `skyctl - Skyfleet multi-datacenter CLI

skyctl queries the machines control plane in every configured datacenter
concurrently and merges the results into one view. A slow or unreachable
datacenter never hides what the others report: successful listings are
always shown, failures are reported per datacenter.`,
		Version: version,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init sets up the root command
func init() {
	rootCmd.SetVersionTemplate(`skyctl {{.Version}} - Skyfleet multi-datacenter CLI
`)
	rootCmd.PersistentFlags().StringVar(&globalConfig, "config", config.DefaultPath(), "Path to skyctl config file")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "Enable debug logging")
}
