// Package sites is the uniform abstraction over every external telemetry
// provider: request/response ("Fetchable") and long-lived session
// ("Streamable") sources, resolved by name from a Registry built at config
// load time. Grounded on pkg/plugin/registry.go's factory-map pattern,
// adapted from "register a plugin type" to "register a source type".
package sites

import (
	"context"

	"github.com/fetiche/engine/internal/core"
)

// Fetchable is a request/response source: one call returns a batch of raw
// records (already decoded into a canonical type by the caller's codec of
// choice, per spec.md §4.3).
type Fetchable interface {
	// Fetch issues one request against the source (optionally bounded by a
	// filter expression, e.g. a time window) and returns raw record bytes.
	Fetch(ctx context.Context, filter string) ([][]byte, error)
}

// Streamable is a long-lived source: Stream blocks, pushing raw record
// bytes to out until ctx is cancelled or an unrecoverable error occurs.
// Implementations own their own reconnection (see reconnectLoop) and never
// close out on a transient error.
type Streamable interface {
	Stream(ctx context.Context, out chan<- []byte, stats *core.Stats) error
}

// Factory builds a Fetchable and/or Streamable adapter for a configured
// Site. A vendor that only supports one capability leaves the other nil.
type Factory func(site core.Site) (Fetchable, Streamable, error)
