package resolver

import (
	"context"
	stderrors "errors"
	"testing"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/errors"
	"github.com/wippyai/script-runtime/loader"
)

func noopSetup(ctx context.Context, m *scriptruntime.Module) error { return nil }

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("std:test", noopSetup); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("std:test", noopSetup); err == nil {
		t.Error("duplicate registration accepted")
	}
	if err := r.Register("", noopSetup); err == nil {
		t.Error("empty name accepted")
	}
	if err := r.Register("std:nil", nil); err == nil {
		t.Error("nil setup accepted")
	}

	names := r.Names()
	if len(names) != 1 || names[0] != "std:test" {
		t.Errorf("Names() = %v", names)
	}
}

func TestRegistry_ResolveHit(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("std:test", func(ctx context.Context, m *scriptruntime.Module) error {
		m.Namespace().Set("ok", true)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	ctx := newFakeContext()

	m, err := r.Resolve(request("std:test", "/origin", nil, ctx))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if m.Path() != "std:test" {
		t.Errorf("canonical identity = %q, want the registry name", m.Path())
	}
	if _, ok := m.Loader().(*loader.Native); !ok {
		t.Errorf("loader = %T, want *loader.Native", m.Loader())
	}
	if !m.Loader().CanLoad("std:test") {
		t.Error("native loader rejects its own name")
	}
	if err := m.Loader().Load(context.Background(), m); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok, _ := m.Namespace().Get("ok"); ok != true {
		t.Error("setup did not populate the namespace")
	}
}

func TestRegistry_ResolveCached(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("std:test", noopSetup); err != nil {
		t.Fatal(err)
	}
	ctx := newFakeContext()

	m1, err := r.Resolve(request("std:test", "/origin", nil, ctx))
	if err != nil {
		t.Fatal(err)
	}
	ctx.modules[m1.Path()] = m1

	m2, err := r.Resolve(request("std:test", "/elsewhere", nil, ctx))
	if err != nil {
		t.Fatal(err)
	}
	if m1 != m2 {
		t.Error("registry minted a second instance for a cached identity")
	}
}

func TestRegistry_MissHasNoTriedPaths(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve(request("std:absent", "/origin", nil, newFakeContext()))
	var miss *errors.ResolveFailure
	if !stderrors.As(err, &miss) {
		t.Fatalf("expected ResolveFailure, got %T: %v", err, err)
	}
	if len(miss.Tried) != 0 {
		t.Errorf("registry miss reported tried paths: %v", miss.Tried)
	}
}
