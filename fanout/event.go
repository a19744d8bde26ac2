package fanout

import (
	"time"

	"github.com/skyfleet/skyctl/types"
)

// EventKind identifies the variant carried by an Event
type EventKind int

const (
	// EventBatch carries one datacenter's complete machine listing
	EventBatch EventKind = iota
	// EventFailure carries one datacenter's tagged failure
	EventFailure
	// EventDone terminates the stream, after every datacenter reported
	EventDone
)

// Event is one message on the aggregation stream. Exactly one Batch or
// Failure is produced per datacenter, then exactly one Done.
type Event struct {
	Kind       EventKind
	Datacenter string
	Machines   []types.Machine
	Err        *DCError
	Elapsed    time.Duration
}
