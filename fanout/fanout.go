// Package fanout issues one logical query against every datacenter
// concurrently and merges outcomes into a single event stream. One slow or
// failing datacenter never blocks or corrupts the others' results.
package fanout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyfleet/skyctl/client"
	"github.com/skyfleet/skyctl/types"
)

// Aggregator fans a query out to datacenters and owns no state beyond one
// in-flight run
type Aggregator struct {
	clients map[string]client.Client
	timeout time.Duration
	logger  zerolog.Logger
	metrics *Metrics
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithTimeout sets a global cross-datacenter deadline. On expiry every
// still-outstanding datacenter resolves as a timeout failure and Done is
// still emitted; the stream never stays open.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) { a.timeout = d }
}

// WithLogger attaches a logger for per-datacenter progress
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

// WithMetrics attaches fan-out metrics
func WithMetrics(m *Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// New creates an aggregator over per-datacenter clients keyed by ID
func New(clients map[string]client.Client, opts ...Option) *Aggregator {
	a := &Aggregator{
		clients: clients,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run launches one worker per datacenter and returns the event stream
// without blocking. Exactly one Batch or Failure event is produced per
// datacenter in arrival order, followed by exactly one Done, after which
// the channel is closed. An empty datacenter set completes immediately
// with Done; an invalid query fails synchronously before any worker
// starts.
func (a *Aggregator) Run(ctx context.Context, dcs []string, query types.Query) (<-chan Event, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	// Buffer holds every outcome plus Done so workers never block on a
	// slow consumer
	events := make(chan Event, len(dcs)+1)

	if len(dcs) == 0 {
		events <- Event{Kind: EventDone}
		close(events)
		return events, nil
	}

	runCtx := ctx
	cancel := context.CancelFunc(func() {})
	if a.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, a.timeout)
	}

	var wg sync.WaitGroup
	wg.Add(len(dcs))
	for _, dc := range dcs {
		go func(dc string) {
			defer wg.Done()
			events <- a.queryDatacenter(runCtx, dc, query)
		}(dc)
	}

	go func() {
		wg.Wait()
		cancel()
		events <- Event{Kind: EventDone}
		close(events)
	}()

	return events, nil
}

// queryDatacenter resolves exactly one outcome for one datacenter
func (a *Aggregator) queryDatacenter(ctx context.Context, dc string, query types.Query) Event {
	start := time.Now()

	c, ok := a.clients[dc]
	if !ok {
		return a.failure(ctx, dc, fmt.Errorf("%w: %s", ErrUnknownDatacenter, dc), start)
	}

	a.logger.Debug().Str("datacenter", dc).Msg("querying datacenter")

	type result struct {
		machines []types.Machine
		err      error
	}

	// Buffered so an abandoned late result never leaks the goroutine
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: &DCError{
					Datacenter: dc,
					Kind:       KindInternal,
					Err:        fmt.Errorf("client panic: %v", r),
				}}
			}
		}()
		machines, err := c.ListMachines(ctx, query)
		done <- result{machines: machines, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return a.failure(ctx, dc, res.err, start)
		}
		return a.batch(ctx, dc, res.machines, start)
	case <-ctx.Done():
		// The client ignored its deadline; resolve the unit without it
		return a.failure(ctx, dc, fmt.Errorf("datacenter %s: %w", dc, ctx.Err()), start)
	}
}

// batch tags every machine with its datacenter before exposure
func (a *Aggregator) batch(ctx context.Context, dc string, machines []types.Machine, start time.Time) Event {
	elapsed := time.Since(start)
	for i := range machines {
		machines[i].Datacenter = dc
	}

	a.logger.Info().
		Str("datacenter", dc).
		Int("machines", len(machines)).
		Dur("elapsed", elapsed).
		Msg("datacenter responded")
	a.metrics.recordBatch(ctx, dc, len(machines), elapsed)

	return Event{
		Kind:       EventBatch,
		Datacenter: dc,
		Machines:   machines,
		Elapsed:    elapsed,
	}
}

// failure classifies and tags one datacenter's failure
func (a *Aggregator) failure(ctx context.Context, dc string, err error, start time.Time) Event {
	elapsed := time.Since(start)

	dcErr, ok := err.(*DCError)
	if !ok {
		dcErr = newDCError(dc, err)
	}

	a.logger.Warn().
		Str("datacenter", dc).
		Str("kind", string(dcErr.Kind)).
		Dur("elapsed", elapsed).
		Err(dcErr.Err).
		Msg("datacenter failed")
	a.metrics.recordFailure(ctx, dc, dcErr.Kind, elapsed)

	return Event{
		Kind:       EventFailure,
		Datacenter: dc,
		Err:        dcErr,
		Elapsed:    elapsed,
	}
}
