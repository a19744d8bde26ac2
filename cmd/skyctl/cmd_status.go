package main

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	statusDatacenters []string
	statusOutput      string
	statusTimeout     time.Duration
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-datacenter reachability",
	Long: `Probe every configured datacenter's control plane and report
reachability, response latency and machine count per datacenter.`,
	Example: `  skyctl status
  skyctl status --datacenters us-west,eu-central
  skyctl status --output json`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringSliceVarP(&statusDatacenters, "datacenters", "d", nil, "Comma-separated datacenters to probe (default: all configured)")
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "table", "Output format: table, json")
	statusCmd.Flags().DurationVar(&statusTimeout, "timeout", 15*time.Second, "Overall probe deadline")
}

func runStatus(cmd *cobra.Command, args []string) error {
	statusCommand := &StatusCommand{
		ConfigPath:  globalConfig,
		Debug:       globalDebug,
		Datacenters: statusDatacenters,
		Output:      statusOutput,
		Timeout:     statusTimeout,
	}
	return statusCommand.Run(cmd.Context())
}
