// Package core holds the canonical data model shared by the task runtime,
// the job engine, the source subsystem and the actor layer: capabilities,
// job/task shapes, sites, auth, stats and the two canonical record formats.
package core

// Capability describes what a task does with its input and output channel.
type Capability string

const (
	// Producer tasks ignore their input channel and synthesize records.
	Producer Capability = "Producer"
	// Consumer tasks have no output channel.
	Consumer Capability = "Consumer"
	// Filter tasks read one record and write zero or one records.
	Filter Capability = "Filter"
	// Cache tasks behave like Filter but may coalesce several inputs.
	Cache Capability = "Cache"
)

func (c Capability) String() string {
	return string(c)
}

// Valid reports whether c is one of the four declared capabilities.
func (c Capability) Valid() bool {
	switch c {
	case Producer, Consumer, Filter, Cache:
		return true
	default:
		return false
	}
}
