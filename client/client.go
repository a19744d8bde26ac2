package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skyfleet/skyctl/types"
)

// Client is a per-datacenter control-plane client. One instance talks to
// exactly one datacenter; the aggregator invokes it once per run.
type Client interface {
	// ListMachines performs one complete listing against the datacenter.
	// It must respect the context deadline and never hang indefinitely.
	ListMachines(ctx context.Context, query types.Query) ([]types.Machine, error)

	// Datacenter returns the datacenter ID this client is bound to
	Datacenter() string
}

// Config holds per-datacenter client configuration
type Config struct {
	Datacenter string
	Endpoint   string
	Token      string
	Timeout    time.Duration
}

// Factory creates a client instance for one datacenter
type Factory func(ctx context.Context, config Config) (Client, error)

// Registry of available client implementations
var factories = make(map[string]Factory)

// Register registers a new client factory
func Register(name string, factory Factory) {
	factories[name] = factory
}

// New creates a client instance by implementation name
func New(ctx context.Context, name string, config Config) (Client, error) {
	factory, exists := factories[name]
	if !exists {
		return nil, fmt.Errorf("client implementation %s not found", name)
	}
	if config.Datacenter == "" {
		return nil, fmt.Errorf("client config missing datacenter")
	}
	return factory(ctx, config)
}

// ListClients returns registered implementation names
func ListClients() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}

// ErrMalformedResponse marks a response the client could not decode
var ErrMalformedResponse = errors.New("malformed response")

// APIError is a non-2xx response from a datacenter's control plane
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("control plane returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("control plane returned status %d: %s", e.StatusCode, e.Message)
}

// IsAuth reports whether the response indicates rejected credentials
func (e *APIError) IsAuth() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
