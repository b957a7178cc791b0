package engine

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/errors"
)

// fakeRequirer resolves requests from a fixed table of values.
type fakeRequirer struct {
	dir    string
	values map[string]any
}

func (f *fakeRequirer) Dir() string { return f.dir }

func (f *fakeRequirer) Require(ctx context.Context, text string) (any, error) {
	if v, ok := f.values[text]; ok {
		return v, nil
	}
	return nil, errors.NewResolveError(text, f.dir, nil)
}

func (f *fakeRequirer) Module(ctx context.Context, text string) (*scriptruntime.Module, error) {
	return nil, errors.NewResolveError(text, f.dir, nil)
}

func (f *fakeRequirer) New(dir string) scriptruntime.Requirer {
	return &fakeRequirer{dir: dir, values: f.values}
}

func writeModule(t *testing.T, dir, name, src string) *scriptruntime.Module {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	m := scriptruntime.NewModule(path, dir, nil)
	m.SetRequirer(&fakeRequirer{dir: dir, values: map[string]any{}})
	m.Init()
	return m
}

func TestExecute_NamespaceBindings(t *testing.T) {
	eng := New()
	m := writeModule(t, t.TempDir(), "lib.js", `
exports.answer = 42;
exports.greet = function (who) { return "hello " + who; };
`)

	if err := eng.Execute(context.Background(), m); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	v, ok := m.Namespace().Get("answer")
	if !ok || v != int64(42) {
		t.Errorf("answer = %v (%T)", v, v)
	}
	if _, ok := m.Namespace().Get("greet"); !ok {
		t.Error("greet not bound")
	}
	if _, set := m.Exports(); set {
		t.Error("no explicit exports expected")
	}
}

func TestExecute_ExplicitExports(t *testing.T) {
	eng := New()
	m := writeModule(t, t.TempDir(), "value.js", `module.exports = 7;`)

	if err := eng.Execute(context.Background(), m); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	exports, set := m.Exports()
	if !set || exports != int64(7) {
		t.Errorf("exports = %v, set = %v", exports, set)
	}
}

func TestExecute_ContextBindings(t *testing.T) {
	eng := New()
	dir := t.TempDir()
	m := writeModule(t, dir, "who.js", `
exports.file = __filename;
exports.dir = __dirname;
exports.name = module.name;
`)

	if err := eng.Execute(context.Background(), m); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if v, _ := m.Namespace().Get("file"); v != m.Path() {
		t.Errorf("__filename = %v", v)
	}
	if v, _ := m.Namespace().Get("dir"); v != dir {
		t.Errorf("__dirname = %v", v)
	}
	if v, _ := m.Namespace().Get("name"); v != m.Name() {
		t.Errorf("module.name = %v", v)
	}
}

func TestExecute_RequireDelegatesToFacade(t *testing.T) {
	eng := New()
	m := writeModule(t, t.TempDir(), "app.js", `
var cfg = require("config");
exports.port = cfg.port;
`)
	m.SetRequirer(&fakeRequirer{
		dir:    m.Dir(),
		values: map[string]any{"config": map[string]any{"port": int64(8080)}},
	})

	if err := eng.Execute(context.Background(), m); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if v, _ := m.Namespace().Get("port"); v != int64(8080) {
		t.Errorf("port = %v (%T)", v, v)
	}
}

func TestExecute_RequireMissSurfacesError(t *testing.T) {
	eng := New()
	m := writeModule(t, t.TempDir(), "app.js", `require("nope");`)

	err := eng.Execute(context.Background(), m)
	if err == nil {
		t.Fatal("expected error")
	}
	var re *errors.ResolveError
	if !stderrors.As(err, &re) {
		t.Fatalf("error = %T: %v", err, err)
	}
	if re.Text != "nope" {
		t.Errorf("Text = %q", re.Text)
	}
}

func TestExecute_SyntaxError(t *testing.T) {
	eng := New()
	m := writeModule(t, t.TempDir(), "bad.js", `function (`)

	err := eng.Execute(context.Background(), m)
	var pe *errors.Error
	if !stderrors.As(err, &pe) || pe.Kind != errors.KindInvalidData {
		t.Fatalf("expected invalid_data, got %T: %v", err, err)
	}
}

func TestExecute_MissingFile(t *testing.T) {
	eng := New()
	m := scriptruntime.NewModule("/no/such/mod.js", "/no/such", nil)

	err := eng.Execute(context.Background(), m)
	var ioe *errors.Error
	if !stderrors.As(err, &ioe) || ioe.Kind != errors.KindIO {
		t.Fatalf("expected io error, got %T: %v", err, err)
	}
}

func TestExecute_Breakpoint(t *testing.T) {
	eng := New()
	var hits int
	eng.SetBreakpoint(func(context.Context) error {
		hits++
		return nil
	})
	m := writeModule(t, t.TempDir(), "debug.js", `require.breakpoint();`)

	if err := eng.Execute(context.Background(), m); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if hits != 1 {
		t.Errorf("breakpoint hits = %d", hits)
	}
}
