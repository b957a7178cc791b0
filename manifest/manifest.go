package manifest

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/wippyai/script-runtime/errors"
)

// FileName is the manifest file looked up inside a package directory.
const FileName = "module.json"

// Manifest describes a package directory. Only the fields resolution
// cares about are modeled; unknown fields are ignored.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`

	// Main is the request resolved when the package directory itself is
	// requested. Defaults to "index" when empty.
	Main string `json:"main,omitempty"`

	// Root, when set, is the subdirectory Main is resolved under.
	Root string `json:"root,omitempty"`

	Private bool `json:"private,omitempty"`

	// Dir is the directory the manifest was loaded from. Not serialized.
	Dir string `json:"-"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, errors.ReadFailed(errors.PhaseManifest, path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.ParseFailed(errors.PhaseManifest, path, err)
	}
	m.Dir = filepath.Dir(path)
	return &m, nil
}

// FromDir loads the manifest of a package directory. It returns
// (nil, nil) when the directory carries no manifest; a malformed manifest
// is an error.
func FromDir(dir string) (*Manifest, error) {
	m, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// MainRequest returns the entry-point path of the package relative to its
// directory: Main under the optional Root, defaulting to "index".
func (m *Manifest) MainRequest() string {
	main := m.Main
	if main == "" {
		main = "index"
	}
	if m.Root != "" {
		return filepath.Join(m.Root, main)
	}
	return main
}

func isNotExist(err error) bool {
	return os.IsNotExist(err) || err == fs.ErrNotExist
}
