package sites

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fetiche/engine/internal/core"
	"github.com/fetiche/engine/internal/token"
)

// Registry holds one Factory per vendor type ("opensky", "avionix", ...),
// populated once at program start and read-only afterwards. Grounded on
// pkg/plugin/registry.go's global factory maps, collapsed into a single
// instantiable type instead of package-level globals so tests can build an
// isolated registry per case.
type Registry struct {
	mu       sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty Registry. Use Register to populate it, then
// RegisterBuiltins to add the seven vendor adapters this module ships.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds factory under name. Panics if name is already registered or
// if name/factory are empty — a duplicate or missing registration is a
// programming error caught at init time, not a runtime condition to handle.
func (r *Registry) Register(name string, factory Factory) {
	if name == "" {
		panic("sites: source type name cannot be empty")
	}
	if factory == nil {
		panic("sites: source factory cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("sites: source type %q already registered", name))
	}
	r.factories[name] = factory
}

// Build instantiates the Fetchable/Streamable pair for site, resolving its
// factory by site.Format. Returns core.ErrPluginNotFound if no factory is
// registered for that format.
func (r *Registry) Build(site core.Site) (Fetchable, Streamable, error) {
	r.mu.RLock()
	factory, ok := r.factories[string(site.Format)]
	r.mu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("source type %q: %w", site.Format, core.ErrPluginNotFound)
	}
	return factory(site)
}

// Types returns a sorted list of every registered source type name.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterBuiltins registers the seven vendor adapters this module ships.
// tokens is the shared token.Store backing every AuthToken site (currently
// only ASD); pass nil in tests that never configure a token-auth site.
func RegisterBuiltins(r *Registry, tokens *token.Store) {
	r.Register("opensky", newOpensky)
	r.Register("avionix", newAvionix)
	r.Register("senhive", newSenhive)
	r.Register("flightaware", newFlightaware)
	r.Register("asd", newASDFactory(tokens))
	r.Register("safesky", newSafesky)
	r.Register("aeroscope", newAeroscope)
}
