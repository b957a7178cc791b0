package resolver

import (
	"sort"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/errors"
	"github.com/wippyai/script-runtime/loader"
)

// Registry resolves host-registered native modules by exact name. The
// registry name is the module's canonical identity; no filesystem search
// takes place, so a miss contributes no tried locations to the aggregate
// resolve error.
type Registry struct {
	entries map[string]loader.Setup
}

var _ scriptruntime.Resolver = (*Registry)(nil)

// NewRegistry creates an empty native-module registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]loader.Setup)}
}

// Register binds a name to a setup function. Registering an empty name,
// a nil setup or a duplicate name is an error.
func (r *Registry) Register(name string, setup loader.Setup) error {
	if name == "" {
		return errors.Registration(name, errors.InvalidInput(errors.PhaseRuntime, "empty module name"))
	}
	if setup == nil {
		return errors.Registration(name, errors.InvalidInput(errors.PhaseRuntime, "nil setup function"))
	}
	if _, exists := r.entries[name]; exists {
		return errors.Registration(name, errors.InvalidInput(errors.PhaseRuntime, "name already registered"))
	}
	r.entries[name] = setup
	return nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve implements scriptruntime.Resolver.
func (r *Registry) Resolve(req *scriptruntime.Request) (*scriptruntime.Module, error) {
	setup, ok := r.entries[req.Text()]
	if !ok {
		return nil, errors.NewResolveFailure(req.Text(), nil)
	}
	if m, ok := req.Context().Lookup(req.Text()); ok {
		return m, nil
	}
	return scriptruntime.NewModule(req.Text(), req.Dir(), loader.NewNative(req.Text(), setup)), nil
}
