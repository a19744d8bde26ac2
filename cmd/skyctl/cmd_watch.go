package main

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	watchDatacenters []string
	watchApp         string
	watchState       string
	watchInterval    time.Duration
	watchMetricsAddr string
	watchOTEL        string
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously watch machines across datacenters",
	Long: `Re-run the query on an interval, log machine-count changes per
datacenter, and serve Prometheus metrics for scraping.`,
	Example: `  skyctl watch                          # Poll every minute
  skyctl watch --interval 15s --app web
  skyctl watch --metrics :9090
  skyctl watch --otel-endpoint localhost:4317`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringSliceVarP(&watchDatacenters, "datacenters", "d", nil, "Comma-separated datacenters to watch (default: all configured)")
	watchCmd.Flags().StringVarP(&watchApp, "app", "a", "", "Filter by application name")
	watchCmd.Flags().StringVarP(&watchState, "state", "s", "", "Filter by machine state")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Minute, "Poll interval")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics", ":9090", "Metrics server address")
	watchCmd.Flags().StringVar(&watchOTEL, "otel-endpoint", "", "OTLP gRPC endpoint for traces and metrics (optional)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	watchCommand := &WatchCommand{
		ConfigPath:   globalConfig,
		Debug:        globalDebug,
		Datacenters:  watchDatacenters,
		App:          watchApp,
		State:        watchState,
		Interval:     watchInterval,
		MetricsAddr:  watchMetricsAddr,
		OTELEndpoint: watchOTEL,
	}
	return watchCommand.Run(cmd.Context())
}
