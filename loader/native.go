package loader

import (
	"context"

	scriptruntime "github.com/wippyai/script-runtime"
)

// Setup populates a native module's namespace and exports. It runs at
// most once, when the module first loads.
type Setup func(ctx context.Context, m *scriptruntime.Module) error

// Native loads a host-registered Go module. The canonical identity of a
// native module is its registry name (for example "std:log") rather than
// a filesystem path, so each Native instance answers for exactly one
// name.
type Native struct {
	name  string
	setup Setup
}

var _ scriptruntime.Loader = (*Native)(nil)

// NewNative creates a loader for one registered name.
func NewNative(name string, setup Setup) *Native {
	return &Native{name: name, setup: setup}
}

// CanLoad reports whether path is this loader's registry name.
func (n *Native) CanLoad(path string) bool {
	return path == n.name
}

// Suffixes returns nil: native modules take no part in filesystem
// candidate expansion.
func (n *Native) Suffixes() []string { return nil }

// Load runs the registered setup function.
func (n *Native) Load(ctx context.Context, m *scriptruntime.Module) error {
	return n.setup(ctx, m)
}
