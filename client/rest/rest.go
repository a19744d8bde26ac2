// Package rest implements the per-datacenter client against the Skyfleet
// control-plane REST API.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skyfleet/skyctl/client"
	"github.com/skyfleet/skyctl/types"
)

const (
	listMachinesPath = "/v1/machines"
	defaultTimeout   = 10 * time.Second
	retryBackoff     = 200 * time.Millisecond
)

func init() {
	// Register the REST client factory
	client.Register("rest", New)
}

// Client talks to one datacenter's control plane over HTTP
type Client struct {
	dc       string
	endpoint string
	token    string
	http     *http.Client
}

// New creates a REST client bound to one datacenter
func New(ctx context.Context, cfg client.Config) (client.Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("datacenter %s: endpoint is required", cfg.Datacenter)
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("datacenter %s: invalid endpoint: %w", cfg.Datacenter, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		dc:       cfg.Datacenter,
		endpoint: endpoint,
		token:    cfg.Token,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// Datacenter returns the datacenter ID this client is bound to
func (c *Client) Datacenter() string {
	return c.dc
}

// ListMachines performs one complete machine listing. Transient failures
// (gateway errors, dropped connections) are retried once; the retry budget
// lives here, never in the aggregator.
func (c *Client) ListMachines(ctx context.Context, query types.Query) ([]types.Machine, error) {
	machines, retry, err := c.list(ctx, query)
	if err == nil || !retry {
		return machines, err
	}

	select {
	case <-ctx.Done():
		return nil, err
	case <-time.After(retryBackoff):
	}

	machines, _, err = c.list(ctx, query)
	return machines, err
}

// list performs a single listing attempt and reports whether a failure
// is worth one retry
func (c *Client) list(ctx context.Context, query types.Query) ([]types.Machine, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.listURL(query), nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("request to %s failed: %w", c.dc, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		apiErr := &client.APIError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
		return nil, retryableStatus(resp.StatusCode), apiErr
	}

	var body listMachinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("%w: %v", client.ErrMalformedResponse, err)
	}
	return body.Machines, false, nil
}

// listURL builds the listing URL with query parameters
func (c *Client) listURL(query types.Query) string {
	params := url.Values{}
	if query.App != "" {
		params.Set("app", query.App)
	}
	if query.Filter.State != "" {
		params.Set("state", query.Filter.State)
	}
	if query.Filter.Image != "" {
		params.Set("image", query.Filter.Image)
	}
	for _, id := range query.Filter.IDs {
		params.Add("id", id)
	}
	for key, value := range query.Filter.Labels {
		params.Add("label", key+"="+value)
	}

	u := c.endpoint + listMachinesPath
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// retryableStatus reports whether the gateway is worth a second attempt
func retryableStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// readErrorMessage extracts the control plane's error message, if any
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}

// listMachinesResponse is the control plane's listing payload
type listMachinesResponse struct {
	Machines []types.Machine `json:"machines"`
}
