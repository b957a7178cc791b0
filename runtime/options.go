package runtime

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Options configures engine construction.
type Options struct {
	// Dir is the root directory of the engine's require facade. Defaults
	// to the process working directory.
	Dir string

	// SearchPaths are global directories consulted after origin-relative
	// lookup and request-local paths, in order.
	SearchPaths []string

	// UserModules appends the per-user module directory (under the XDG
	// data home) to the global search paths.
	UserModules bool

	// EnableWASI instantiates the WASI preview1 host module before the
	// first wasm module loads.
	EnableWASI bool

	// Debug selects the breakpoint behavior. The zero value logs the
	// load stack through the package logger.
	Debug DebugConfig
}

// DefaultOptions returns the options used when New receives nil.
func DefaultOptions() *Options {
	return &Options{
		UserModules: true,
	}
}

// UserModulesDir returns the per-user module directory appended to the
// global search paths when Options.UserModules is set.
func UserModulesDir() string {
	return filepath.Join(xdg.DataHome, "script-runtime", "modules")
}
