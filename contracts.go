package scriptruntime

import "context"

// Resolver maps a Request to a Module. Implementations either return a
// module (newly minted, or the cached instance obtained through
// Context.Lookup) or fail with *errors.ResolveFailure carrying every
// location they probed. Any other error is treated as a defect of the
// strategy and aborts the resolver chain immediately.
type Resolver interface {
	Resolve(req *Request) (*Module, error)
}

// Loader executes a resolved module's body and populates its namespace
// and exports.
type Loader interface {
	// CanLoad reports whether this loader handles the given canonical path.
	CanLoad(path string) bool

	// Suffixes returns the file suffixes this loader claims, used by
	// filesystem resolvers for candidate expansion. May be empty.
	Suffixes() []string

	// Load runs the module body. The module is in StateLoading for the
	// duration of the call.
	Load(ctx context.Context, m *Module) error
}

// Context is the engine as seen by resolver strategies: cache lookups,
// the registered loaders and the global search paths. The concrete
// implementation is runtime.Engine.
type Context interface {
	// Lookup returns the cached module for a canonical path, if any.
	Lookup(path string) (*Module, bool)

	// Loaders returns the registered loaders in registration order.
	Loaders() []Loader

	// GlobalPaths returns the engine-wide search directories consulted
	// after request-local ones.
	GlobalPaths() []string
}

// Requirer is the per-directory require facade attached to every module.
// Nested requests issued by a module body go through its own Requirer so
// relative paths resolve against the module's directory. The concrete
// implementation is runtime.Require.
type Requirer interface {
	// Dir returns the directory requests are resolved against.
	Dir() string

	// Require resolves and loads a request, returning the module's
	// exports if set, else its namespace.
	Require(ctx context.Context, text string) (any, error)

	// Module resolves and loads a request, returning the Module itself
	// for callers that need metadata rather than values.
	Module(ctx context.Context, text string) (*Module, error)

	// New derives a sibling facade rooted at a different directory,
	// sharing the same engine, module cache and load stack.
	New(dir string) Requirer
}
