package main

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	machinesDatacenters []string
	machinesApp         string
	machinesState       string
	machinesImage       string
	machinesLabels      []string
	machinesIDs         []string
	machinesOutput      string
	machinesTimeout     time.Duration
	machinesStrict      bool
)

// machinesCmd represents the machines command
var machinesCmd = &cobra.Command{
	Use:     "machines",
	Aliases: []string{"ls"},
	Short:   "List machines across datacenters",
	Long: `List machines from every configured datacenter in one view.

The same query is sent to each datacenter concurrently. Machines from
datacenters that respond are always shown; datacenters that fail are
reported separately with the reason, and never block the others.`,
	Example: `  skyctl machines                          # All datacenters, all machines
  skyctl machines --datacenters us-west,us-east
  skyctl machines --app web --state started
  skyctl machines --label team=platform
  skyctl machines --output json
  skyctl machines --strict                 # Any datacenter failure is fatal`,
	RunE: runMachines,
}

func init() {
	rootCmd.AddCommand(machinesCmd)

	machinesCmd.Flags().StringSliceVarP(&machinesDatacenters, "datacenters", "d", nil, "Comma-separated datacenters to query (default: all configured)")
	machinesCmd.Flags().StringVarP(&machinesApp, "app", "a", "", "Filter by application name")
	machinesCmd.Flags().StringVarP(&machinesState, "state", "s", "", "Filter by machine state (created, started, stopped, destroyed)")
	machinesCmd.Flags().StringVar(&machinesImage, "image", "", "Filter by image reference")
	machinesCmd.Flags().StringSliceVarP(&machinesLabels, "label", "l", nil, "Filter by label (key=value, repeatable)")
	machinesCmd.Flags().StringSliceVar(&machinesIDs, "id", nil, "Filter by machine ID (repeatable)")
	machinesCmd.Flags().StringVarP(&machinesOutput, "output", "o", "table", "Output format: table, json, csv")
	machinesCmd.Flags().DurationVar(&machinesTimeout, "timeout", 0, "Overall deadline across all datacenters (0 = per-datacenter timeouts only)")
	machinesCmd.Flags().BoolVar(&machinesStrict, "strict", false, "Treat any datacenter failure as fatal")
}

func runMachines(cmd *cobra.Command, args []string) error {
	machinesCommand := &MachinesCommand{
		ConfigPath:  globalConfig,
		Debug:       globalDebug,
		Datacenters: machinesDatacenters,
		App:         machinesApp,
		State:       machinesState,
		Image:       machinesImage,
		Labels:      machinesLabels,
		IDs:         machinesIDs,
		Output:      machinesOutput,
		Timeout:     machinesTimeout,
		Strict:      machinesStrict,
	}
	return machinesCommand.Run(cmd.Context())
}
