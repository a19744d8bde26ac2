package fanout

import (
	"sort"

	"github.com/skyfleet/skyctl/types"
)

// AggregateResult is the terminal consumer-facing value of one run. Every
// datacenter contributes exactly one outcome: its ID appears in Succeeded
// or one of its errors appears in Errors, never both, never neither.
type AggregateResult struct {
	Machines  []types.Machine
	Errors    []*DCError
	Succeeded []string
}

// Collect drains the event stream until Done, accumulating machines and
// failures in arrival order. Safe to call on a stream that is still being
// produced; it simply blocks on event arrival.
func Collect(events <-chan Event) AggregateResult {
	var result AggregateResult
	for event := range events {
		switch event.Kind {
		case EventBatch:
			result.Machines = append(result.Machines, event.Machines...)
			result.Succeeded = append(result.Succeeded, event.Datacenter)
		case EventFailure:
			result.Errors = append(result.Errors, event.Err)
		case EventDone:
			return result
		}
	}
	return result
}

// Err applies the collection policy: nil on full success, the single
// tagged error when one datacenter failed, a composite enumerating every
// constituent when two or more failed. Partial success is not an error
// at this level.
func (r AggregateResult) Err() error {
	switch len(r.Errors) {
	case 0:
		return nil
	case 1:
		return r.Errors[0]
	default:
		return &AggregateError{Errors: r.Errors}
	}
}

// AllFailed reports whether no datacenter delivered records
func (r AggregateResult) AllFailed() bool {
	return len(r.Succeeded) == 0 && len(r.Errors) > 0
}

// Sort orders machines by datacenter, then name, then ID, so repeated
// runs render identically regardless of arrival order. Errors are ordered
// by datacenter.
func (r *AggregateResult) Sort() {
	sort.SliceStable(r.Machines, func(i, j int) bool {
		a, b := r.Machines[i], r.Machines[j]
		if a.Datacenter != b.Datacenter {
			return a.Datacenter < b.Datacenter
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	sort.SliceStable(r.Errors, func(i, j int) bool {
		return r.Errors[i].Datacenter < r.Errors[j].Datacenter
	})
}
