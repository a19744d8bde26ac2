package fanout

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/skyfleet/skyctl/client"
)

// ErrInvalidQuery rejects a malformed query before any fan-out starts
var ErrInvalidQuery = errors.New("invalid query")

// ErrUnknownDatacenter marks a datacenter with no configured client
var ErrUnknownDatacenter = errors.New("no client for datacenter")

// ErrorKind classifies a datacenter failure
type ErrorKind string

const (
	KindUnreachable       ErrorKind = "unreachable"
	KindTimeout           ErrorKind = "timeout"
	KindAuth              ErrorKind = "auth"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindInternal          ErrorKind = "internal"
)

// DCError is a failure tagged with the datacenter that produced it. The
// tag is a struct field so composites can be built and inspected without
// string parsing.
type DCError struct {
	Datacenter string
	Kind       ErrorKind
	Err        error
}

func (e *DCError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Datacenter, e.Kind, e.Err)
}

func (e *DCError) Unwrap() error {
	return e.Err
}

// newDCError tags and classifies a raw client failure
func newDCError(dc string, err error) *DCError {
	return &DCError{Datacenter: dc, Kind: classify(err), Err: err}
}

// classify maps a raw error to its failure kind
func classify(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, client.ErrMalformedResponse) {
		return KindMalformedResponse
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsAuth() {
			return KindAuth
		}
		return KindUnreachable
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindUnreachable
}

// AggregateError combines two or more datacenter failures while keeping
// each constituent inspectable with its tag and cause.
type AggregateError struct {
	Errors []*DCError
}

func (e *AggregateError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d datacenters failed:", len(e.Errors))
	for _, dcErr := range e.Errors {
		b.WriteString("\n  ")
		b.WriteString(dcErr.Error())
	}
	return b.String()
}

// Unwrap exposes constituents to errors.Is and errors.As
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, dcErr := range e.Errors {
		errs[i] = dcErr
	}
	return errs
}
