package runtime

import (
	"context"
	stderrors "errors"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/errors"
)

// Require is the per-directory require facade handed to module bodies.
// It memoizes resolution by request string, a second-level cache in front
// of the engine's identity cache: repeated identical request strings from
// the same origin skip re-walking the resolver chain. An entry whose
// module carries a stored load error is invalidated, so a failed module
// gets a fresh resolution attempt on the next request of the same string.
type Require struct {
	engine *Engine
	dir    string
	cache  map[string]*scriptruntime.Module
}

var _ scriptruntime.Requirer = (*Require)(nil)

// NewRequire creates a facade rooted at dir.
func NewRequire(e *Engine, dir string) *Require {
	return &Require{
		engine: e,
		dir:    dir,
		cache:  make(map[string]*scriptruntime.Module),
	}
}

// Dir implements scriptruntime.Requirer.
func (r *Require) Dir() string { return r.dir }

// Engine returns the shared engine.
func (r *Require) Engine() *Engine { return r.engine }

// Resolve maps a request string to a module, consulting the facade cache
// first. Successful entries are permanent for the facade's lifetime.
func (r *Require) Resolve(text string) (*scriptruntime.Module, error) {
	if m, ok := r.cache[text]; ok && m.Err() == nil {
		return m, nil
	}
	m, err := r.engine.Resolve(scriptruntime.NewRequest(text, r.dir, nil, r.engine))
	if err != nil {
		return nil, err
	}
	r.cache[text] = m
	return m, nil
}

// Require implements scriptruntime.Requirer: resolve, load, and unwrap
// the exports if set, else the namespace.
func (r *Require) Require(ctx context.Context, text string) (any, error) {
	m, err := r.Module(ctx, text)
	if err != nil {
		return nil, err
	}
	return unwrap(m), nil
}

// Module implements scriptruntime.Requirer: resolve and load, returning
// the module itself.
func (r *Require) Module(ctx context.Context, text string) (*scriptruntime.Module, error) {
	m, err := r.Resolve(text)
	if err != nil {
		return nil, err
	}
	if err := r.engine.Load(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// TryEach requires the first request that resolves. A not-found for the
// attempted request moves on to the next candidate; any other error
// propagates immediately, as does a not-found naming a different request
// than the one just attempted (a lower layer substituted the request,
// which is a defect). When every candidate misses, the last miss is
// returned. Calling with no requests is a usage error.
func (r *Require) TryEach(ctx context.Context, texts ...string) (any, error) {
	if len(texts) == 0 {
		return nil, errors.InvalidInput(errors.PhaseRequire, "TryEach: no requests specified")
	}
	var last *errors.ResolveError
	for _, text := range texts {
		val, err := r.Require(ctx, text)
		if err == nil {
			return val, nil
		}
		var miss *errors.ResolveError
		if stderrors.As(err, &miss) {
			if miss.Text != text {
				return nil, err
			}
			last = miss
			continue
		}
		return nil, err
	}
	return nil, last
}

// ImportAll returns a module's public values as a map the caller merges
// into its own scope explicitly: the exports value when it is map-shaped,
// else every namespace binding not starting with an underscore.
func (r *Require) ImportAll(ctx context.Context, text string) (map[string]any, error) {
	m, err := r.Module(ctx, text)
	if err != nil {
		return nil, err
	}
	if v, ok := m.Exports(); ok {
		if mapped, ok := v.(map[string]any); ok {
			out := make(map[string]any, len(mapped))
			for k, val := range mapped {
				out[k] = val
			}
			return out, nil
		}
	}
	return m.Namespace().Exported(), nil
}

// New implements scriptruntime.Requirer: a sibling facade rooted at a
// different directory, sharing the engine and both caches below it.
func (r *Require) New(dir string) scriptruntime.Requirer {
	return NewRequire(r.engine, dir)
}

// Main returns the engine's entry-point module.
func (r *Require) Main() *scriptruntime.Module { return r.engine.Main() }

// Current returns the module currently loading.
func (r *Require) Current() *scriptruntime.Module { return r.engine.Current() }
