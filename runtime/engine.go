package runtime

import (
	"context"
	stderrors "errors"
	"os"

	"go.uber.org/zap"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/engine"
	"github.com/wippyai/script-runtime/errors"
	"github.com/wippyai/script-runtime/loader"
	"github.com/wippyai/script-runtime/resolver"
)

// Engine orchestrates the resolve -> cache -> load pipeline. It owns the
// resolver chain, the module cache keyed by canonical identity and the
// load stack of modules currently executing their bodies.
//
// Engine is not safe for concurrent use; see the package documentation.
type Engine struct {
	opts        Options
	resolvers   []scriptruntime.Resolver
	loaders     []scriptruntime.Loader
	modules     map[string]*scriptruntime.Module
	stack       []*scriptruntime.Module
	main        *scriptruntime.Module
	globalPaths []string
	registry    *resolver.Registry
	js          *engine.Engine
	wasm        *loader.Wasm
	root        *Require
}

var _ scriptruntime.Context = (*Engine)(nil)

// New creates an engine with the default resolver chain (native registry,
// then filesystem lookup) and the default loaders (JavaScript source,
// JSON, wasm). A nil opts uses DefaultOptions.
func New(ctx context.Context, opts *Options) (*Engine, error) {
	o := DefaultOptions()
	if opts != nil {
		o = opts
	}

	dir := o.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(errors.PhaseRuntime, errors.KindIO, err, "determine working directory")
		}
		dir = wd
	}

	e := &Engine{
		opts:    *o,
		modules: make(map[string]*scriptruntime.Module),
	}

	e.js = engine.New()
	e.js.SetBreakpoint(e.Breakpoint)
	e.wasm = loader.NewWasm(ctx, o.EnableWASI)
	e.loaders = []scriptruntime.Loader{
		loader.NewSource(e.js),
		loader.NewJSON(),
		e.wasm,
	}

	e.registry = resolver.NewRegistry()
	e.resolvers = []scriptruntime.Resolver{
		e.registry,
		resolver.NewStandard(),
	}

	e.globalPaths = append(e.globalPaths, o.SearchPaths...)
	if o.UserModules {
		e.globalPaths = append(e.globalPaths, UserModulesDir())
	}

	e.root = NewRequire(e, dir)
	if err := registerStd(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Close releases engine resources, including the wasm runtime and every
// instance it owns.
func (e *Engine) Close(ctx context.Context) error {
	return e.wasm.Close(ctx)
}

// Root returns the engine's root require facade, rooted at the directory
// the engine was constructed for.
func (e *Engine) Root() *Require { return e.root }

// JS returns the JavaScript execution engine.
func (e *Engine) JS() *engine.Engine { return e.js }

// Lookup implements scriptruntime.Context.
func (e *Engine) Lookup(path string) (*scriptruntime.Module, bool) {
	m, ok := e.modules[path]
	return m, ok
}

// Loaders implements scriptruntime.Context.
func (e *Engine) Loaders() []scriptruntime.Loader {
	return e.loaders
}

// GlobalPaths implements scriptruntime.Context.
func (e *Engine) GlobalPaths() []string {
	paths := make([]string, len(e.globalPaths))
	copy(paths, e.globalPaths)
	return paths
}

// AddResolver appends a strategy to the resolver chain.
func (e *Engine) AddResolver(r scriptruntime.Resolver) {
	e.resolvers = append(e.resolvers, r)
}

// AddLoader appends a loader. Its suffixes immediately take part in
// filesystem candidate expansion.
func (e *Engine) AddLoader(l scriptruntime.Loader) {
	e.loaders = append(e.loaders, l)
}

// RegisterNative registers a host Go module under an exact name.
func (e *Engine) RegisterNative(name string, setup loader.Setup) error {
	return e.registry.Register(name, setup)
}

// NativeNames returns the registered native module names, sorted.
func (e *Engine) NativeNames() []string {
	return e.registry.Names()
}

// Resolve walks the resolver chain in registration order. The first
// success short-circuits; on a full miss the returned ResolveError
// concatenates, in chain order, every location each strategy probed.
// The resolved module is registered in the cache under its canonical
// identity, first writer wins: a strategy returning a second instance for
// a cached identity is a defect and yields a ConsistencyError.
func (e *Engine) Resolve(req *scriptruntime.Request) (*scriptruntime.Module, error) {
	if req == nil {
		return nil, errors.InvalidInput(errors.PhaseResolve, "nil request")
	}

	var tried []string
	for _, r := range e.resolvers {
		m, err := r.Resolve(req)
		if err != nil {
			var miss *errors.ResolveFailure
			if stderrors.As(err, &miss) {
				tried = append(tried, miss.Tried...)
				continue
			}
			// Anything but a documented miss is a defect of the strategy.
			return nil, err
		}
		if m == nil {
			return nil, errors.Consistency("resolver %T returned neither module nor error for %q", r, req.Text())
		}
		if cached, ok := e.modules[m.Path()]; ok {
			if cached != m {
				return nil, errors.Consistency("resolver %T minted a second module for cached identity %s", r, m.Path())
			}
			return cached, nil
		}
		e.register(m)
		return m, nil
	}

	err := errors.NewResolveError(req.Text(), req.Dir(), tried)
	Logger().Debug("resolution miss",
		zap.String("request", req.Text()),
		zap.String("dir", req.Dir()),
		zap.Int("tried", len(tried)))
	return nil, err
}

// ResolveText builds a fresh request and resolves it. An empty dir
// defaults to the process working directory.
func (e *Engine) ResolveText(text, dir string, searchPaths []string) (*scriptruntime.Module, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(errors.PhaseResolve, errors.KindIO, err, "determine working directory")
		}
		dir = wd
	}
	return e.Resolve(scriptruntime.NewRequest(text, dir, searchPaths, e))
}

// register records a freshly minted module: cache entry, parent/child
// linkage to the currently loading module, and its own require facade.
func (e *Engine) register(m *scriptruntime.Module) {
	e.modules[m.Path()] = m
	m.SetParent(e.Current())
	if m.Requirer() == nil {
		m.SetRequirer(NewRequire(e, m.Dir()))
	}
	Logger().Debug("module registered",
		zap.String("module", m.Path()),
		zap.String("name", m.Name()))
}

// Load runs a module body at most once. A loaded module is a no-op; a
// failed module re-raises its sticky error without re-running the body; a
// module already loading (a cyclic require) returns immediately so the
// caller observes its partially populated namespace.
//
// On body failure the error is recorded on the module, the module is
// evicted from the cache so a later resolution can retry from scratch,
// and the error is returned.
func (e *Engine) Load(ctx context.Context, m *scriptruntime.Module) error {
	return e.load(ctx, m, true)
}

// LoadPrepared is Load without the namespace init hook, for callers that
// seeded the module namespace themselves before loading.
func (e *Engine) LoadPrepared(ctx context.Context, m *scriptruntime.Module) error {
	return e.load(ctx, m, false)
}

func (e *Engine) load(ctx context.Context, m *scriptruntime.Module, runInit bool) error {
	if m == nil {
		return errors.InvalidInput(errors.PhaseRuntime, "nil module")
	}
	if err := m.Err(); err != nil {
		return err
	}
	switch m.State() {
	case scriptruntime.StateLoaded:
		return nil
	case scriptruntime.StateLoading:
		// Cyclic require: the in-progress namespace is the result.
		return nil
	}
	if cached, ok := e.modules[m.Path()]; !ok || cached != m {
		return errors.Consistency("module %s can not be loaded when not in the module cache", m.Path())
	}
	if m.Loader() == nil {
		return errors.Consistency("module %s has no loader", m.Path())
	}

	if runInit {
		m.Init()
	}

	e.stack = append(e.stack, m)
	m.SetState(scriptruntime.StateLoading)
	Logger().Debug("load begin",
		zap.String("module", m.Path()),
		zap.Int("depth", len(e.stack)))

	err := m.Loader().Load(ctx, m)

	top := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	if top != m {
		panic(errors.Consistency("load stack corrupted: popped %s, expected %s", top.Path(), m.Path()))
	}

	if err != nil {
		lerr := errors.NewLoadError(m.Path(), err)
		// Error storage and eviction stay adjacent so a multi-threaded
		// adaptation can wrap them in one critical section.
		m.SetState(scriptruntime.StateFailed)
		m.SetErr(lerr)
		delete(e.modules, m.Path())
		Logger().Warn("load failed, module evicted",
			zap.String("module", m.Path()),
			zap.Error(err))
		return lerr
	}

	m.SetState(scriptruntime.StateLoaded)
	Logger().Debug("load complete", zap.String("module", m.Path()))
	return nil
}

// Require resolves and loads in one step, returning the module's exports
// if explicitly set, else its namespace.
func (e *Engine) Require(ctx context.Context, req *scriptruntime.Request) (any, error) {
	m, err := e.RequireModule(ctx, req)
	if err != nil {
		return nil, err
	}
	return unwrap(m), nil
}

// RequireModule resolves and loads, returning the module itself for
// callers that need metadata rather than values.
func (e *Engine) RequireModule(ctx context.Context, req *scriptruntime.Request) (*scriptruntime.Module, error) {
	m, err := e.Resolve(req)
	if err != nil {
		return nil, err
	}
	if err := e.Load(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Current returns the module on top of the load stack, or nil when
// nothing is loading. Nested resolution uses it to pick the right origin.
func (e *Engine) Current() *scriptruntime.Module {
	if len(e.stack) == 0 {
		return nil
	}
	return e.stack[len(e.stack)-1]
}

// Stack returns a snapshot of the load stack, bottom first.
func (e *Engine) Stack() []*scriptruntime.Module {
	out := make([]*scriptruntime.Module, len(e.stack))
	copy(out, e.stack)
	return out
}

// Main returns the entry-point module, if one was set.
func (e *Engine) Main() *scriptruntime.Module { return e.main }

// SetMain designates the entry-point module.
func (e *Engine) SetMain(m *scriptruntime.Module) { e.main = m }

// WithMain runs fn with the main module temporarily shadowed by m. The
// previous value is restored however the scope is left, a panic included.
func (e *Engine) WithMain(m *scriptruntime.Module, fn func() error) error {
	prev := e.main
	e.main = m
	defer func() { e.main = prev }()
	return fn()
}

// LoadMain resolves text against the engine's root directory, designates
// the result as the main module and loads it.
func (e *Engine) LoadMain(ctx context.Context, text string) (*scriptruntime.Module, error) {
	m, err := e.Resolve(scriptruntime.NewRequest(text, e.root.Dir(), nil, e))
	if err != nil {
		return nil, err
	}
	e.main = m
	if err := e.Load(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func unwrap(m *scriptruntime.Module) any {
	if v, ok := m.Exports(); ok {
		return v
	}
	return m.Namespace()
}
