package loader

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/errors"
)

// JSON loads .json files as data modules: the decoded value becomes the
// module's explicit exports, and for object documents every top-level
// field is additionally bound in the namespace.
type JSON struct{}

var _ scriptruntime.Loader = (*JSON)(nil)

// NewJSON creates a JSON data-module loader.
func NewJSON() *JSON { return &JSON{} }

// CanLoad reports whether path names a JSON document.
func (j *JSON) CanLoad(path string) bool {
	return strings.HasSuffix(path, ".json")
}

// Suffixes returns the file suffixes claimed by this loader.
func (j *JSON) Suffixes() []string {
	return []string{".json"}
}

// Load decodes the document and populates the module.
func (j *JSON) Load(ctx context.Context, m *scriptruntime.Module) error {
	data, err := os.ReadFile(m.Path())
	if err != nil {
		return errors.ReadFailed(errors.PhaseLoad, m.Path(), err)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return errors.ParseFailed(errors.PhaseLoad, m.Path(), err)
	}

	if obj, ok := value.(map[string]any); ok {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Namespace().Set(k, obj[k])
		}
	}
	m.SetExports(value)
	return nil
}
