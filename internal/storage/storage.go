// Package storage implements the three pluggable sink kinds a Store task
// can append to: a rotated local directory, a Redis-backed cache, and a
// date-partitioned hive tree. Grounded on spec.md §4.6 and, for the
// registry shape, pkg/plugin/registry.go's name→instance map pattern.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Area is one named storage sink a Store task writes records to.
type Area interface {
	// Write appends payload under tag, applying whatever rotation or
	// partitioning the concrete Area uses.
	Write(ctx context.Context, tag string, payload []byte) error
	// Close releases any resources (open files, connections) the Area holds.
	Close() error
}

// Registry holds one Area per configured storage name, loaded from
// engine.hcl's `storage "<name>" { ... }` blocks.
type Registry struct {
	mu    sync.RWMutex
	areas map[string]Area
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{areas: make(map[string]Area)}
}

// Register adds area under name, overwriting any prior registration under
// the same name.
func (r *Registry) Register(name string, area Area) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.areas[name] = area
}

// Get resolves a storage area by the name its Store task declares.
func (r *Registry) Get(name string) (Area, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.areas[name]
	if !ok {
		return nil, fmt.Errorf("storage area %q: not registered", name)
	}
	return a, nil
}

// Names returns a sorted list of every registered storage area name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.areas))
	for n := range r.areas {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CloseAll closes every registered area, collecting (not stopping on) the
// first error encountered so every area is attempted.
func (r *Registry) CloseAll() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var first error
	for name, a := range r.areas {
		if err := a.Close(); err != nil && first == nil {
			first = fmt.Errorf("storage area %q: %w", name, err)
		}
	}
	return first
}
