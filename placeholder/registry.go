package placeholder

import (
	"errors"
	"sort"
)

// ErrUnknown is returned when a value names a placeholder kind that is not
// registered.
var ErrUnknown = errors.New("unknown placeholder")

// Factory constructs a placeholder kind from its parsed argument list.
// Each argument is a literal, a nested Placeholder, or Fragments.
type Factory func(args []any) (Placeholder, error)

// Registry maps placeholder names to factories. Every configuration
// instance owns its own registry; there is no process-wide one.
type Registry struct {
	kinds map[string]Factory
}

// NewRegistry creates a registry with the built-in kinds registered:
// ref, global, env, import and timestamp.
func NewRegistry() *Registry {
	reg := &Registry{kinds: map[string]Factory{}}

	reg.Register("ref", NewRef)
	reg.Register("global", NewGlobalRef)
	reg.Register("env", NewEnv)
	reg.Register("import", NewImport)
	reg.Register("timestamp", NewTimestamp)

	return reg
}

// Register adds or replaces a placeholder kind.
func (r *Registry) Register(name string, factory Factory) {
	r.kinds[name] = factory
}

// Lookup returns the factory for a placeholder name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	factory, ok := r.kinds[name]

	return factory, ok
}

// Names returns the registered placeholder names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
