package types

import (
	"testing"
)

func TestMachine_Matches(t *testing.T) {
	machine := Machine{
		ID:         "d891f2a4b03e58",
		Name:       "web-1",
		Datacenter: "us-west",
		State:      StateStarted,
		Image:      "registry.skyfleet.dev/web:v4",
		Labels: map[string]string{
			"app":  "web",
			"team": "platform",
		},
	}

	tests := []struct {
		name   string
		filter MachineFilter
		want   bool
	}{
		{
			name:   "empty filter matches",
			filter: MachineFilter{},
			want:   true,
		},
		{
			name:   "state match",
			filter: MachineFilter{State: StateStarted},
			want:   true,
		},
		{
			name:   "state mismatch",
			filter: MachineFilter{State: StateStopped},
			want:   false,
		},
		{
			name:   "image match",
			filter: MachineFilter{Image: "registry.skyfleet.dev/web:v4"},
			want:   true,
		},
		{
			name:   "image mismatch",
			filter: MachineFilter{Image: "registry.skyfleet.dev/api:v1"},
			want:   false,
		},
		{
			name:   "label match",
			filter: MachineFilter{Labels: map[string]string{"app": "web"}},
			want:   true,
		},
		{
			name:   "label mismatch",
			filter: MachineFilter{Labels: map[string]string{"app": "api"}},
			want:   false,
		},
		{
			name:   "id in list",
			filter: MachineFilter{IDs: []string{"other", "d891f2a4b03e58"}},
			want:   true,
		},
		{
			name:   "id not in list",
			filter: MachineFilter{IDs: []string{"other"}},
			want:   false,
		},
		{
			name: "combined filter",
			filter: MachineFilter{
				State:  StateStarted,
				Labels: map[string]string{"team": "platform"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := machine.Matches(tt.filter); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMachine_Matches_NilLabels(t *testing.T) {
	machine := Machine{ID: "m-1", State: StateStarted}

	if machine.Matches(MachineFilter{Labels: map[string]string{"app": "web"}}) {
		t.Error("machine without labels should not match label filter")
	}
	if !machine.Matches(MachineFilter{}) {
		t.Error("machine without labels should match empty filter")
	}
}

func TestMachine_IsRunning(t *testing.T) {
	running := Machine{State: StateStarted}
	stopped := Machine{State: StateStopped}

	if !running.IsRunning() {
		t.Error("started machine should be running")
	}
	if stopped.IsRunning() {
		t.Error("stopped machine should not be running")
	}
}

func TestQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		wantErr bool
	}{
		{
			name:    "empty query is valid",
			query:   Query{},
			wantErr: false,
		},
		{
			name:    "app name",
			query:   Query{App: "web"},
			wantErr: false,
		},
		{
			name:    "app name with whitespace",
			query:   Query{App: "web app"},
			wantErr: true,
		},
		{
			name: "empty label key",
			query: Query{
				Filter: MachineFilter{Labels: map[string]string{"": "x"}},
			},
			wantErr: true,
		},
		{
			name: "empty ID entry",
			query: Query{
				Filter: MachineFilter{IDs: []string{"m-1", ""}},
			},
			wantErr: true,
		},
		{
			name: "well-formed filter",
			query: Query{
				App: "web",
				Filter: MachineFilter{
					State:  StateStarted,
					Labels: map[string]string{"team": "platform"},
					IDs:    []string{"m-1"},
				},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
