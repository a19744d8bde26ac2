package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/skyfleet/skyctl/config"
	"github.com/skyfleet/skyctl/fanout"
	"github.com/skyfleet/skyctl/output"
	"github.com/skyfleet/skyctl/telemetry"
	"github.com/skyfleet/skyctl/types"
)

// StatusCommand implements the 'skyctl status' command
type StatusCommand struct {
	ConfigPath  string
	Debug       bool
	Datacenters []string
	Output      string
	Timeout     time.Duration
}

// DatacenterStatus is one datacenter's probe outcome
type DatacenterStatus struct {
	Datacenter string        `json:"datacenter"`
	Reachable  bool          `json:"reachable"`
	Machines   int           `json:"machines"`
	Latency    time.Duration `json:"latency_ns"`
	Failure    string        `json:"failure,omitempty"`
}

// Run executes the status command
func (cmd *StatusCommand) Run(ctx context.Context) error {
	logger := telemetry.NewConsoleLogger("skyctl", os.Stderr, cmd.Debug)

	if cmd.Output != "table" && cmd.Output != "json" {
		return fmt.Errorf("invalid output format: %s (must be one of: table, json)", cmd.Output)
	}

	cfg, err := config.LoadConfig(cmd.ConfigPath)
	if err != nil {
		return err
	}

	dcs := cfg.QueryDatacenters(cmd.Datacenters)
	clients, err := buildClients(ctx, cfg, dcs)
	if err != nil {
		return err
	}

	agg := fanout.New(clients,
		fanout.WithLogger(logger.Logger),
		fanout.WithTimeout(cmd.Timeout),
	)

	// An empty query probes each control plane with a full listing
	events, err := agg.Run(ctx, dcs, types.Query{})
	if err != nil {
		return err
	}

	statuses := collectStatuses(events)

	if cmd.Output == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(statuses)
	}

	renderStatuses(statuses)
	return nil
}

// collectStatuses consumes the event stream into per-datacenter rows
func collectStatuses(events <-chan fanout.Event) []DatacenterStatus {
	var statuses []DatacenterStatus
	for event := range events {
		switch event.Kind {
		case fanout.EventBatch:
			statuses = append(statuses, DatacenterStatus{
				Datacenter: event.Datacenter,
				Reachable:  true,
				Machines:   len(event.Machines),
				Latency:    event.Elapsed,
			})
		case fanout.EventFailure:
			statuses = append(statuses, DatacenterStatus{
				Datacenter: event.Datacenter,
				Latency:    event.Elapsed,
				Failure:    fmt.Sprintf("%s: %v", event.Err.Kind, event.Err.Err),
			})
		case fanout.EventDone:
			sort.Slice(statuses, func(i, j int) bool {
				return statuses[i].Datacenter < statuses[j].Datacenter
			})
			return statuses
		}
	}
	return statuses
}

// renderStatuses prints the status table and a one-line summary
func renderStatuses(statuses []DatacenterStatus) {
	headers := []string{"DATACENTER", "STATUS", "MACHINES", "LATENCY", "DETAIL"}
	rows := make([][]string, 0, len(statuses))

	reachable := 0
	for _, s := range statuses {
		status := "unreachable"
		machines := "-"
		if s.Reachable {
			reachable++
			status = "ok"
			machines = fmt.Sprintf("%d", s.Machines)
		}
		rows = append(rows, []string{
			s.Datacenter,
			status,
			machines,
			s.Latency.Round(time.Millisecond).String(),
			s.Failure,
		})
	}

	output.RenderTable(os.Stdout, headers, rows, []output.Alignment{
		output.AlignLeft, output.AlignLeft, output.AlignRight, output.AlignRight, output.AlignLeft,
	})
	fmt.Printf("\n%d/%d datacenters reachable\n", reachable, len(statuses))
}
