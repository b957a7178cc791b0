package resolver

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/errors"
)

type suffixLoader struct {
	suffix string
}

func (l *suffixLoader) CanLoad(path string) bool { return strings.HasSuffix(path, l.suffix) }
func (l *suffixLoader) Suffixes() []string       { return []string{l.suffix} }
func (l *suffixLoader) Load(ctx context.Context, m *scriptruntime.Module) error {
	return nil
}

type fakeContext struct {
	modules map[string]*scriptruntime.Module
	loaders []scriptruntime.Loader
	global  []string
}

func (c *fakeContext) Lookup(path string) (*scriptruntime.Module, bool) {
	m, ok := c.modules[path]
	return m, ok
}
func (c *fakeContext) Loaders() []scriptruntime.Loader { return c.loaders }
func (c *fakeContext) GlobalPaths() []string           { return c.global }

func newFakeContext() *fakeContext {
	return &fakeContext{
		modules: make(map[string]*scriptruntime.Module),
		loaders: []scriptruntime.Loader{
			&suffixLoader{suffix: ".js"},
			&suffixLoader{suffix: ".json"},
		},
	}
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func canon(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return resolved
}

func request(text, dir string, extra []string, ctx scriptruntime.Context) *scriptruntime.Request {
	return scriptruntime.NewRequest(text, dir, extra, ctx)
}

func TestStandard_RelativeExactFile(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "a.js", "")
	s := NewStandard()

	m, err := s.Resolve(request("./a.js", dir, nil, newFakeContext()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Path() != canon(t, path) {
		t.Errorf("path = %q, want %q", m.Path(), canon(t, path))
	}
	if m.Dir() != filepath.Dir(canon(t, path)) {
		t.Errorf("dir = %q", m.Dir())
	}
}

func TestStandard_SuffixExpansion(t *testing.T) {
	dir := t.TempDir()
	jsonPath := write(t, dir, "data.json", "{}")
	s := NewStandard()

	// No .js candidate exists, so expansion falls through to .json in
	// loader registration order.
	m, err := s.Resolve(request("./data", dir, nil, newFakeContext()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Path() != canon(t, jsonPath) {
		t.Errorf("path = %q, want %q", m.Path(), canon(t, jsonPath))
	}

	// When both exist, the earlier loader's suffix wins.
	jsPath := write(t, dir, "data.js", "")
	m2, err := s.Resolve(request("./data", dir, nil, newFakeContext()))
	if err != nil {
		t.Fatalf("Resolve both: %v", err)
	}
	if m2.Path() != canon(t, jsPath) {
		t.Errorf("path = %q, want the .js candidate", m2.Path())
	}
}

func TestStandard_ModulesDirWalksAncestors(t *testing.T) {
	root := t.TempDir()
	path := write(t, root, ".script_modules/foo.js", "")
	deep := filepath.Join(root, "sub", "deeper")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	s := NewStandard()

	m, err := s.Resolve(request("foo", deep, nil, newFakeContext()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Path() != canon(t, path) {
		t.Errorf("path = %q, want ancestor modules dir hit %q", m.Path(), canon(t, path))
	}
}

func TestStandard_ExtraPathsBeforeGlobal(t *testing.T) {
	origin := t.TempDir()
	extra := t.TempDir()
	global := t.TempDir()
	extraHit := write(t, extra, "pkg.js", "")
	write(t, global, "pkg.js", "")

	ctx := newFakeContext()
	ctx.global = []string{global}
	s := NewStandard()

	m, err := s.Resolve(request("pkg", origin, []string{extra}, ctx))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Path() != canon(t, extraHit) {
		t.Errorf("path = %q, want extra-path hit before global", m.Path())
	}
}

func TestStandard_PackageManifestMain(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "mypkg/module.json", `{"name": "mypkg", "version": "1.0.0", "main": "lib/entry"}`)
	entry := write(t, dir, "mypkg/lib/entry.js", "")
	s := NewStandard()

	m, err := s.Resolve(request("./mypkg", dir, nil, newFakeContext()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Path() != canon(t, entry) {
		t.Errorf("path = %q, want manifest main %q", m.Path(), canon(t, entry))
	}
	if m.Package() == nil || m.Package().Name != "mypkg" {
		t.Error("manifest not attached to the resolved module")
	}
	if m.Name() != "mypkg" {
		t.Errorf("name = %q, want manifest name", m.Name())
	}
}

func TestStandard_PackageManifestRoot(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "p/module.json", `{"name": "p", "main": "entry", "root": "src"}`)
	entry := write(t, dir, "p/src/entry.js", "")
	s := NewStandard()

	m, err := s.Resolve(request("./p", dir, nil, newFakeContext()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Path() != canon(t, entry) {
		t.Errorf("path = %q, want main under root %q", m.Path(), canon(t, entry))
	}
}

func TestStandard_DirectoryIndexFallback(t *testing.T) {
	dir := t.TempDir()
	index := write(t, dir, "plain/index.js", "")
	s := NewStandard()

	m, err := s.Resolve(request("./plain", dir, nil, newFakeContext()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Path() != canon(t, index) {
		t.Errorf("path = %q, want index fallback %q", m.Path(), canon(t, index))
	}
}

func TestStandard_LinkFileRedirect(t *testing.T) {
	dir := t.TempDir()
	target := t.TempDir()
	entry := write(t, target, "index.js", "")
	write(t, dir, "linked/.script-link", target+"\n")
	s := NewStandard()

	m, err := s.Resolve(request("./linked", dir, nil, newFakeContext()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Path() != canon(t, entry) {
		t.Errorf("path = %q, want link target index %q", m.Path(), canon(t, entry))
	}
}

func TestStandard_CachedIdentityReturned(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "a.js", "")
	ctx := newFakeContext()
	cached := scriptruntime.NewModule(canon(t, path), filepath.Dir(canon(t, path)), ctx.loaders[0])
	ctx.modules[cached.Path()] = cached
	s := NewStandard()

	m, err := s.Resolve(request("./a", dir, nil, ctx))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m != cached {
		t.Error("resolver minted a second instance for a cached identity")
	}
}

func TestStandard_MissRecordsProbesInOrder(t *testing.T) {
	dir := t.TempDir()
	s := NewStandard()

	_, err := s.Resolve(request("./missing", dir, nil, newFakeContext()))
	var miss *errors.ResolveFailure
	if !stderrors.As(err, &miss) {
		t.Fatalf("expected ResolveFailure, got %T: %v", err, err)
	}
	want := []string{
		filepath.Join(dir, "missing"),
		filepath.Join(dir, "missing.js"),
		filepath.Join(dir, "missing.json"),
	}
	if len(miss.Tried) != len(want) {
		t.Fatalf("tried = %v, want %v", miss.Tried, want)
	}
	for i, p := range want {
		if miss.Tried[i] != p {
			t.Errorf("tried[%d] = %q, want %q", i, miss.Tried[i], p)
		}
	}
}

func TestStandard_BareNameMissRecordsEveryLocation(t *testing.T) {
	origin := t.TempDir()
	extra := t.TempDir()
	ctx := newFakeContext()
	s := NewStandard()

	_, err := s.Resolve(request("ghost", origin, []string{extra}, ctx))
	var miss *errors.ResolveFailure
	if !stderrors.As(err, &miss) {
		t.Fatalf("expected ResolveFailure, got %T: %v", err, err)
	}
	// Ancestor modules dirs first, then the extra path.
	first := filepath.Join(origin, ".script_modules", "ghost")
	if miss.Tried[0] != first {
		t.Errorf("tried[0] = %q, want %q", miss.Tried[0], first)
	}
	sawExtra := false
	for _, p := range miss.Tried {
		if strings.HasPrefix(p, filepath.Join(extra, "ghost")) {
			sawExtra = true
		}
	}
	if !sawExtra {
		t.Errorf("extra search path never probed: %v", miss.Tried)
	}
}

func TestStandard_EmptyRequestIsInvalidInput(t *testing.T) {
	s := NewStandard()
	_, err := s.Resolve(request("", t.TempDir(), nil, newFakeContext()))
	var ie *errors.Error
	if !stderrors.As(err, &ie) || ie.Kind != errors.KindInvalidInput {
		t.Fatalf("expected invalid_input, got %T: %v", err, err)
	}
}

func TestStandard_MalformedManifestPropagates(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "broken/module.json", `{not json`)
	s := NewStandard()

	_, err := s.Resolve(request("./broken", dir, nil, newFakeContext()))
	if err == nil {
		t.Fatal("expected manifest error")
	}
	var miss *errors.ResolveFailure
	if stderrors.As(err, &miss) {
		t.Fatal("malformed manifest must not be reported as a plain miss")
	}
}
