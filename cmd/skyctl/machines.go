package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/skyfleet/skyctl/client"
	_ "github.com/skyfleet/skyctl/client/rest" // Register REST client
	"github.com/skyfleet/skyctl/config"
	"github.com/skyfleet/skyctl/fanout"
	"github.com/skyfleet/skyctl/output"
	"github.com/skyfleet/skyctl/telemetry"
	"github.com/skyfleet/skyctl/types"
)

// MachinesCommand implements the 'skyctl machines' command
type MachinesCommand struct {
	ConfigPath  string
	Debug       bool
	Datacenters []string
	App         string
	State       string
	Image       string
	Labels      []string
	IDs         []string
	Output      string
	Timeout     time.Duration
	Strict      bool
}

// Run executes the machines command
func (cmd *MachinesCommand) Run(ctx context.Context) error {
	logger := telemetry.NewConsoleLogger("skyctl", os.Stderr, cmd.Debug)

	format, err := output.ParseFormat(cmd.Output)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(cmd.ConfigPath)
	if err != nil {
		return err
	}

	query, err := buildQuery(cmd.App, cmd.State, cmd.Image, cmd.Labels, cmd.IDs)
	if err != nil {
		return err
	}

	dcs := cfg.QueryDatacenters(cmd.Datacenters)
	clients, err := buildClients(ctx, cfg, dcs)
	if err != nil {
		return err
	}

	metrics, err := fanout.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	opts := []fanout.Option{
		fanout.WithLogger(logger.Logger),
		fanout.WithMetrics(metrics),
	}
	if cmd.Timeout > 0 {
		opts = append(opts, fanout.WithTimeout(cmd.Timeout))
	}
	agg := fanout.New(clients, opts...)

	start := time.Now()
	logger.LogRunStart(ctx, len(dcs), cmd.App)

	events, err := agg.Run(ctx, dcs, query)
	if err != nil {
		return err
	}

	result := fanout.Collect(events)
	result.Sort()
	logger.LogRunComplete(ctx, len(result.Machines), len(result.Errors),
		float64(time.Since(start).Milliseconds()))

	if err := output.Machines(os.Stdout, format, result.Machines); err != nil {
		return err
	}
	output.Failures(os.Stderr, result.Errors)

	// Partial failure is reported but not fatal unless asked for; a run
	// where nothing answered must never look like an empty success
	if result.AllFailed() || (cmd.Strict && len(result.Errors) > 0) {
		return result.Err()
	}
	return nil
}

// buildQuery assembles and validates the query sent to every datacenter
func buildQuery(app, state, image string, labels, ids []string) (types.Query, error) {
	labelMap, err := parseLabels(labels)
	if err != nil {
		return types.Query{}, err
	}

	query := types.Query{
		App: app,
		Filter: types.MachineFilter{
			State:  state,
			Image:  image,
			Labels: labelMap,
			IDs:    ids,
		},
	}
	if err := query.Validate(); err != nil {
		return types.Query{}, err
	}
	return query, nil
}

// parseLabels parses key=value pairs
func parseLabels(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	labels := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid label %q (expected key=value)", pair)
		}
		labels[key] = value
	}
	return labels, nil
}

// buildClients creates one REST client per requested datacenter. A
// datacenter missing from the config gets no client; the aggregator
// reports it as a failure rather than dropping it silently.
func buildClients(ctx context.Context, cfg *config.Config, dcs []string) (map[string]client.Client, error) {
	token, err := cfg.Token()
	if err != nil {
		return nil, err
	}

	clients := make(map[string]client.Client, len(dcs))
	for _, dc := range dcs {
		endpoint, ok := cfg.Endpoint(dc)
		if !ok {
			continue
		}
		c, err := client.New(ctx, "rest", client.Config{
			Datacenter: dc,
			Endpoint:   endpoint,
			Token:      token,
			Timeout:    cfg.Timeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create client for %s: %w", dc, err)
		}
		clients[dc] = c
	}
	return clients, nil
}
