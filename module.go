package scriptruntime

import (
	"fmt"

	"github.com/wippyai/script-runtime/manifest"
)

// State tracks a module through its lifecycle. Transitions are
// StateUnloaded -> StateLoading -> StateLoaded or StateFailed; a failed
// module never re-runs its body.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Module is the cached, stateful unit of resolution. Exactly one Module
// exists per canonical path for the lifetime of an engine, barring
// eviction after a failed load. Two modules are the same iff they are the
// same instance.
type Module struct {
	path     string
	name     string
	dir      string
	state    State
	err      error
	ns       *Namespace
	exports  any
	hasExp   bool
	loader   Loader
	requirer Requirer
	parent   *Module
	children []*Module
	pkg      *manifest.Manifest
	inited   bool
}

// NewModule mints a module for a canonical path. Resolvers are the only
// expected callers; they must consult Context.Lookup first so that a
// cached identity is never minted twice.
func NewModule(path, dir string, l Loader) *Module {
	return &Module{
		path:   path,
		name:   baseName(path),
		dir:    dir,
		loader: l,
		ns:     NewNamespace(),
	}
}

// Path returns the canonical identity: the resolved absolute path (or
// registry name for native modules) used as the cache key.
func (m *Module) Path() string { return m.path }

// Name returns the short display name.
func (m *Module) Name() string { return m.name }

// SetName overrides the display name, typically with the manifest name.
func (m *Module) SetName(name string) { m.name = name }

// Dir returns the containing directory, the origin for requests issued by
// this module's body.
func (m *Module) Dir() string { return m.dir }

// State returns the current load state.
func (m *Module) State() State { return m.state }

// SetState transitions the load state. Intended for the engine.
func (m *Module) SetState(s State) { m.state = s }

// Err returns the sticky load error of a failed module.
func (m *Module) Err() error { return m.err }

// SetErr records the sticky load error. Intended for the engine.
func (m *Module) SetErr(err error) { m.err = err }

// Namespace returns the module's mutable global scope.
func (m *Module) Namespace() *Namespace { return m.ns }

// Exports returns the explicitly designated export value and whether one
// was set. An unset exports value is distinct from exports explicitly set
// to nil.
func (m *Module) Exports() (any, bool) { return m.exports, m.hasExp }

// SetExports designates the module's explicit export value.
func (m *Module) SetExports(v any) {
	m.exports = v
	m.hasExp = true
}

// Loader returns the loader that resolution matched to this module.
func (m *Module) Loader() Loader { return m.loader }

// Requirer returns the per-module require facade.
func (m *Module) Requirer() Requirer { return m.requirer }

// SetRequirer attaches the require facade. Intended for the engine at
// registration time.
func (m *Module) SetRequirer(r Requirer) { m.requirer = r }

// Parent returns the module that was loading when this one was first
// registered, or nil for roots.
func (m *Module) Parent() *Module { return m.parent }

// Children returns the modules first registered while this one was
// loading.
func (m *Module) Children() []*Module {
	out := make([]*Module, len(m.children))
	copy(out, m.children)
	return out
}

// SetParent records the parent/child linkage. Intended for the engine.
func (m *Module) SetParent(p *Module) {
	m.parent = p
	if p != nil {
		p.children = append(p.children, m)
	}
}

// Package returns the manifest of the package this module was resolved
// through, if any.
func (m *Module) Package() *manifest.Manifest { return m.pkg }

// SetPackage attaches the package manifest. Intended for resolvers.
func (m *Module) SetPackage(p *manifest.Manifest) {
	m.pkg = p
	if p != nil && p.Name != "" {
		m.name = p.Name
	}
}

// Init seeds the namespace with the standard reflective bindings. It runs
// at most once, immediately before the first load.
func (m *Module) Init() {
	if m.inited {
		return
	}
	m.inited = true
	m.ns.Set("__filename", m.path)
	m.ns.Set("__dirname", m.dir)
	m.ns.Set("__name", m.name)
}

func (m *Module) String() string {
	return fmt.Sprintf("Module(%s, %s)", m.name, m.state)
}

func baseName(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			base = path[i+1:]
			break
		}
	}
	for i := len(base) - 1; i > 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}
