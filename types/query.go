package types

import (
	"fmt"
	"strings"
)

// Query is the logical request sent unchanged to every datacenter
type Query struct {
	App    string        `json:"app,omitempty"`
	Filter MachineFilter `json:"filter,omitempty"`
}

// Validate ensures the query is well-formed before any fan-out starts
func (q Query) Validate() error {
	if strings.ContainsAny(q.App, " \t\n") {
		return fmt.Errorf("app name %q contains whitespace", q.App)
	}
	for key := range q.Filter.Labels {
		if key == "" {
			return fmt.Errorf("empty label key in filter")
		}
	}
	for _, id := range q.Filter.IDs {
		if id == "" {
			return fmt.Errorf("empty machine ID in filter")
		}
	}
	return nil
}
