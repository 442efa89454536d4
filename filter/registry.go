package filter

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/s0up4200/rezstats/paladins"
)

// Registry holds named filters, typically compiled from configuration
type Registry struct {
	compiler Compiler
	filters  map[string]CompiledFilter
	mu       sync.RWMutex
}

// RegistryOption configures a filter registry
type RegistryOption func(*Registry)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) RegistryOption {
	return func(r *Registry) {
		r.compiler = compiler
	}
}

// NewRegistry creates a new filter registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		compiler: NewExprCompiler(WithCache(100)),
		filters:  make(map[string]CompiledFilter),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register compiles and registers a new filter or updates an existing one
func (r *Registry) Register(name, expression string) error {
	filter, err := r.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile filter '%s': %w", name, err)
	}

	r.mu.Lock()
	r.filters[name] = filter
	r.mu.Unlock()

	return nil
}

// RegisterAll compiles and registers multiple filters at once. Nothing is
// registered unless every expression compiles.
func (r *Registry) RegisterAll(filters map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(filters))

	for name, expression := range filters {
		filter, err := r.compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	r.mu.Lock()
	maps.Copy(r.filters, compiled)
	r.mu.Unlock()

	return nil
}

// Unregister removes a filter
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	delete(r.filters, name)
	r.mu.Unlock()
}

// Get returns a compiled filter by name
func (r *Registry) Get(name string) (CompiledFilter, bool) {
	r.mu.RLock()
	filter, exists := r.filters[name]
	r.mu.RUnlock()
	return filter, exists
}

// Names returns all registered filter names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name := range r.filters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ApplyNamed filters matches through a registered filter
func (r *Registry) ApplyNamed(name string, matches []paladins.HistoryMatch) ([]paladins.HistoryMatch, error) {
	filter, exists := r.Get(name)
	if !exists {
		return nil, fmt.Errorf("filter '%s' not found", name)
	}

	return Apply(filter, matches)
}
