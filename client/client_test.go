package client

import (
	"context"
	"testing"

	"github.com/skyfleet/skyctl/types"
)

// MockClient for testing
type MockClient struct {
	dc       string
	machines []types.Machine
}

func (m *MockClient) Datacenter() string {
	return m.dc
}

func (m *MockClient) ListMachines(ctx context.Context, query types.Query) ([]types.Machine, error) {
	var result []types.Machine
	for _, machine := range m.machines {
		if machine.Matches(query.Filter) {
			result = append(result, machine)
		}
	}
	return result, nil
}

func TestClientInterface(t *testing.T) {
	// Ensure MockClient implements Client
	var _ Client = (*MockClient)(nil)

	mock := &MockClient{
		dc: "us-test-1",
		machines: []types.Machine{
			{ID: "m-1", State: types.StateStarted},
			{ID: "m-2", State: types.StateStopped},
		},
	}

	machines, err := mock.ListMachines(context.Background(), types.Query{
		Filter: types.MachineFilter{State: types.StateStarted},
	})
	if err != nil {
		t.Fatalf("ListMachines() error = %v", err)
	}
	if len(machines) != 1 || machines[0].ID != "m-1" {
		t.Errorf("ListMachines() = %v, want one started machine", machines)
	}
}

func TestRegistry(t *testing.T) {
	Register("mock", func(ctx context.Context, config Config) (Client, error) {
		return &MockClient{dc: config.Datacenter}, nil
	})

	c, err := New(context.Background(), "mock", Config{Datacenter: "us-west"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Datacenter() != "us-west" {
		t.Errorf("Datacenter() = %v, want us-west", c.Datacenter())
	}

	if _, err := New(context.Background(), "missing", Config{Datacenter: "us-west"}); err == nil {
		t.Error("New() with unknown implementation should fail")
	}

	if _, err := New(context.Background(), "mock", Config{}); err == nil {
		t.Error("New() without datacenter should fail")
	}

	found := false
	for _, name := range ListClients() {
		if name == "mock" {
			found = true
		}
	}
	if !found {
		t.Error("ListClients() should include mock")
	}
}

func TestAPIError(t *testing.T) {
	authErr := &APIError{StatusCode: 401, Message: "bad token"}
	if !authErr.IsAuth() {
		t.Error("401 should be an auth error")
	}

	serverErr := &APIError{StatusCode: 503}
	if serverErr.IsAuth() {
		t.Error("503 should not be an auth error")
	}
	if serverErr.Error() == "" {
		t.Error("Error() should not be empty")
	}
}
