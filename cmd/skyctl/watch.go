package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skyfleet/skyctl/config"
	"github.com/skyfleet/skyctl/fanout"
	"github.com/skyfleet/skyctl/telemetry"
	"github.com/skyfleet/skyctl/types"
)

// WatchCommand implements the 'skyctl watch' command
type WatchCommand struct {
	ConfigPath   string
	Debug        bool
	Datacenters  []string
	App          string
	State        string
	Interval     time.Duration
	MetricsAddr  string
	OTELEndpoint string
}

// Run executes the watch command
func (cmd *WatchCommand) Run(ctx context.Context) error {
	logger := telemetry.NewLogger("skyctl")

	cfg, err := config.LoadConfig(cmd.ConfigPath)
	if err != nil {
		return err
	}

	query, err := buildQuery(cmd.App, cmd.State, "", nil, nil)
	if err != nil {
		return err
	}

	shutdown, err := telemetry.InitOTEL(ctx, telemetry.Config{
		ServiceName:    "skyctl",
		ServiceVersion: version,
		OTELEndpoint:   cmd.OTELEndpoint,
		Insecure:       true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	metrics, err := fanout.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	dcs := cfg.QueryDatacenters(cmd.Datacenters)
	clients, err := buildClients(ctx, cfg, dcs)
	if err != nil {
		return err
	}

	agg := fanout.New(clients,
		fanout.WithLogger(logger.Logger),
		fanout.WithMetrics(metrics),
	)

	logger.Info().
		Strs("datacenters", dcs).
		Dur("interval", cmd.Interval).
		Str("metrics_addr", cmd.MetricsAddr).
		Msg("watch starting")

	var g run.Group

	g.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	server := cmd.metricsServer()
	g.Add(func() error {
		return server.ListenAndServe()
	}, func(error) {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	})

	pollCtx, cancel := context.WithCancel(ctx)
	g.Add(func() error {
		return cmd.poll(pollCtx, agg, dcs, query, logger)
	}, func(error) {
		cancel()
	})

	err = g.Run()

	var sigErr run.SignalError
	if errors.As(err, &sigErr) {
		logger.Info().Str("signal", sigErr.Signal.String()).Msg("shutting down")
		return nil
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// metricsServer serves the Prometheus registry and a health probe
func (cmd *WatchCommand) metricsServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		telemetry.PrometheusRegistry,
		promhttp.HandlerOpts{},
	))
	mux.HandleFunc("/healthz", handleHealthz)

	return &http.Server{
		Addr:              cmd.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// handleHealthz reports process liveness
func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// poll re-runs the query on an interval and logs per-datacenter changes
func (cmd *WatchCommand) poll(ctx context.Context, agg *fanout.Aggregator, dcs []string, query types.Query, logger *telemetry.Logger) error {
	lastCounts := make(map[string]int)
	cmd.pollOnce(ctx, agg, dcs, query, logger, lastCounts)

	ticker := time.NewTicker(cmd.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cmd.pollOnce(ctx, agg, dcs, query, logger, lastCounts)
		}
	}
}

// pollOnce runs one fan-out pass and reports deltas against the last one
func (cmd *WatchCommand) pollOnce(ctx context.Context, agg *fanout.Aggregator, dcs []string, query types.Query, logger *telemetry.Logger, lastCounts map[string]int) {
	start := time.Now()

	events, err := agg.Run(ctx, dcs, query)
	if err != nil {
		logger.Error().Err(err).Msg("fan-out run rejected")
		return
	}

	result := fanout.Collect(events)

	counts := make(map[string]int, len(dcs))
	for _, machine := range result.Machines {
		counts[machine.Datacenter]++
	}
	for _, dc := range result.Succeeded {
		if last, seen := lastCounts[dc]; seen && last != counts[dc] {
			logger.Info().
				Str("datacenter", dc).
				Int("was", last).
				Int("now", counts[dc]).
				Msg("machine count changed")
		}
		lastCounts[dc] = counts[dc]
	}
	for _, dcErr := range result.Errors {
		logger.LogDatacenterFailure(ctx, dcErr.Datacenter, string(dcErr.Kind), dcErr.Err)
	}

	logger.LogRunComplete(ctx, len(result.Machines), len(result.Errors),
		float64(time.Since(start).Milliseconds()))
}
