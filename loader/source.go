package loader

import (
	"context"
	"strings"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/engine"
)

// Source loads JavaScript source modules by delegating body execution to
// the goja engine.
type Source struct {
	eng *engine.Engine
}

var _ scriptruntime.Loader = (*Source)(nil)

// NewSource creates a source loader backed by the given engine.
func NewSource(eng *engine.Engine) *Source {
	return &Source{eng: eng}
}

// CanLoad reports whether path names a JavaScript source file.
func (s *Source) CanLoad(path string) bool {
	return strings.HasSuffix(path, ".js")
}

// Suffixes returns the file suffixes claimed by this loader.
func (s *Source) Suffixes() []string {
	return []string{".js"}
}

// Load executes the module body.
func (s *Source) Load(ctx context.Context, m *scriptruntime.Module) error {
	return s.eng.Execute(ctx, m)
}
