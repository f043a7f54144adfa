// Package runtime provides the Runnable contract every task kind
// implements and the Worker that wires one task's input/output channels
// together with the Stats value the task fills in. Grounded on
// internal/pipeline/pipeline.go's capture/process goroutine-pair shape,
// generalized from "one fixed five-stage pipeline" to "N independently
// wired task workers" per spec.md §4.1.
package runtime

import (
	"context"

	"github.com/fetiche/engine/internal/core"
)

// defaultStreamingBuffer and defaultBoundedBuffer are the channel buffer
// sizes BufferSize returns for the channels Job.wire allocates (a task
// cannot declare its own), per
// spec.md §5's backpressure model: a deep buffer for long-lived streaming
// producers (so a slow consumer doesn't stall the network read loop) and a
// shallow one for request/response producers (a Fetch already returns a
// bounded batch; there's nothing to buffer ahead of).
const (
	defaultStreamingBuffer = 20
	defaultBoundedBuffer   = 1
)

// Runnable is what every task kind (Fetch, Read, Stream, Convert, Copy,
// Message, Tee, Nothing, Save, Store, Record, Stdout) implements. Execute
// reads from in (nil for a producer), writes to out (nil for a terminal
// consumer), and returns when ctx is cancelled or the task's work is done.
type Runnable interface {
	Capability() core.Capability
	Execute(ctx context.Context, in <-chan string, out chan<- string, stats *core.Stats) error
}

// BufferSize returns the channel buffer size a worker should allocate
// ahead of a task with the given capability and streaming-ness.
func BufferSize(capability core.Capability, streaming bool) int {
	if capability == core.Producer && streaming {
		return defaultStreamingBuffer
	}
	return defaultBoundedBuffer
}
