package loader

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/errors"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestJSON_CanLoad(t *testing.T) {
	j := NewJSON()
	if !j.CanLoad("/x/data.json") {
		t.Error("rejected .json")
	}
	if j.CanLoad("/x/data.js") {
		t.Error("accepted .js")
	}
	if got := j.Suffixes(); len(got) != 1 || got[0] != ".json" {
		t.Errorf("Suffixes() = %v", got)
	}
}

func TestJSON_ObjectDocument(t *testing.T) {
	path := writeTemp(t, "cfg.json", `{"b": 2, "a": 1, "nested": {"x": true}}`)
	m := scriptruntime.NewModule(path, filepath.Dir(path), NewJSON())

	if err := NewJSON().Load(context.Background(), m); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Top-level fields are bound in sorted order.
	keys := m.Namespace().Keys()
	want := []string{"a", "b", "nested"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], k)
		}
	}

	exports, ok := m.Exports()
	if !ok {
		t.Fatal("exports not set")
	}
	obj := exports.(map[string]any)
	if obj["a"] != float64(1) {
		t.Errorf("exports a = %v", obj["a"])
	}
}

func TestJSON_ArrayDocument(t *testing.T) {
	path := writeTemp(t, "list.json", `[1, 2, 3]`)
	m := scriptruntime.NewModule(path, filepath.Dir(path), NewJSON())

	if err := NewJSON().Load(context.Background(), m); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Namespace().Len() != 0 {
		t.Error("array document should not populate the namespace")
	}
	exports, ok := m.Exports()
	if !ok {
		t.Fatal("exports not set")
	}
	if arr := exports.([]any); len(arr) != 3 {
		t.Errorf("exports = %v", exports)
	}
}

func TestJSON_Malformed(t *testing.T) {
	path := writeTemp(t, "bad.json", `{nope`)
	m := scriptruntime.NewModule(path, filepath.Dir(path), NewJSON())

	err := NewJSON().Load(context.Background(), m)
	var pe *errors.Error
	if !stderrors.As(err, &pe) || pe.Kind != errors.KindInvalidData {
		t.Fatalf("expected invalid_data, got %T: %v", err, err)
	}
}

func TestJSON_MissingFile(t *testing.T) {
	m := scriptruntime.NewModule("/no/such/file.json", "/no/such", NewJSON())
	err := NewJSON().Load(context.Background(), m)
	var ioe *errors.Error
	if !stderrors.As(err, &ioe) || ioe.Kind != errors.KindIO {
		t.Fatalf("expected io error, got %T: %v", err, err)
	}
}
