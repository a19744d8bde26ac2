package types

import "time"

// Machine represents one machine as reported by a single datacenter's
// control plane. IDs are only unique within one datacenter, so Datacenter
// must be set before a machine is handed to any consumer.
type Machine struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Datacenter string            `json:"datacenter"`
	State      string            `json:"state"`
	Image      string            `json:"image"`
	PrivateIP  string            `json:"private_ip,omitempty"`
	Labels     map[string]string `json:"labels,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// MachineFilter narrows a machine listing
type MachineFilter struct {
	State  string            `json:"state,omitempty"`
	Image  string            `json:"image,omitempty"`
	Labels map[string]string `json:"labels,omitempty"`
	IDs    []string          `json:"ids,omitempty"`
}

// IsRunning checks if the machine is in a running state
func (m *Machine) IsRunning() bool {
	return m.State == StateStarted
}

// Machine states as reported by the control plane
const (
	StateCreated   = "created"
	StateStarted   = "started"
	StateStopped   = "stopped"
	StateDestroyed = "destroyed"
)

// Matches checks if machine matches filter criteria
func (m *Machine) Matches(filter MachineFilter) bool {
	return m.matchesBasicFields(filter) && m.matchesIDs(filter) && m.matchesLabels(filter)
}

// matchesBasicFields checks state and image
func (m *Machine) matchesBasicFields(filter MachineFilter) bool {
	if filter.State != "" && m.State != filter.State {
		return false
	}
	if filter.Image != "" && m.Image != filter.Image {
		return false
	}
	return true
}

// matchesIDs checks if machine ID is in filter list
func (m *Machine) matchesIDs(filter MachineFilter) bool {
	if len(filter.IDs) == 0 {
		return true
	}
	for _, id := range filter.IDs {
		if m.ID == id {
			return true
		}
	}
	return false
}

// matchesLabels checks if all filter labels match machine labels
func (m *Machine) matchesLabels(filter MachineFilter) bool {
	for key, value := range filter.Labels {
		if m.Labels[key] != value {
			return false
		}
	}
	return true
}
