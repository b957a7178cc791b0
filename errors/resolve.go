package errors

import (
	"fmt"
	"strings"
)

// ResolveFailure is returned by a single resolver strategy that could not
// find a match. It carries every location the strategy probed, in probe
// order. The engine never surfaces a ResolveFailure directly; it
// concatenates the tried lists of all strategies into one ResolveError.
type ResolveFailure struct {
	Text  string
	Tried []string
}

// NewResolveFailure creates a strategy-level miss for a request string.
func NewResolveFailure(text string, tried []string) *ResolveFailure {
	return &ResolveFailure{Text: text, Tried: tried}
}

func (e *ResolveFailure) Error() string {
	return fmt.Sprintf("cannot resolve %q (%d locations tried)", e.Text, len(e.Tried))
}

// Is reports whether target matches this error type
func (e *ResolveFailure) Is(target error) bool {
	_, ok := target.(*ResolveFailure)
	return ok
}

// ResolveError is returned when no strategy in the resolver chain
// succeeded. Tried is the concatenation, in resolver-chain order, of every
// location each strategy attempted, so the operator can see every place
// actually searched.
type ResolveError struct {
	Text  string
	Dir   string
	Tried []string
}

// NewResolveError creates the aggregate not-found error for a request.
func NewResolveError(text, dir string, tried []string) *ResolveError {
	return &ResolveError{Text: text, Dir: dir, Tried: tried}
}

func (e *ResolveError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot resolve %q", e.Text)
	if e.Dir != "" {
		fmt.Fprintf(&b, " from %q", e.Dir)
	}
	if len(e.Tried) == 0 {
		b.WriteString(" (no locations searched)")
		return b.String()
	}
	fmt.Fprintf(&b, ", searched %d location(s):", len(e.Tried))
	for _, p := range e.Tried {
		b.WriteString("\n  - ")
		b.WriteString(p)
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *ResolveError) Is(target error) bool {
	_, ok := target.(*ResolveError)
	return ok
}

// LoadError wraps whatever a module body raised during load. It is stored
// on the module as sticky state and re-raised verbatim on every subsequent
// load attempt of the same instance.
type LoadError struct {
	Path  string
	Cause error
}

// NewLoadError creates a load error for the module at path.
func NewLoadError(path string, cause error) *LoadError {
	return &LoadError{Path: path, Cause: cause}
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Cause)
}

// Unwrap returns the body-execution error
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type
func (e *LoadError) Is(target error) bool {
	_, ok := target.(*LoadError)
	return ok
}

// ConsistencyError signals a violated engine invariant: an identity
// collision with a non-identical module instance, load-stack corruption or
// loading a module that was never registered. It marks a defect, never an
// environmental failure, and must not be retried.
type ConsistencyError struct {
	Detail string
}

// Consistency creates an internal-consistency error.
func Consistency(format string, args ...any) *ConsistencyError {
	return &ConsistencyError{Detail: fmt.Sprintf(format, args...)}
}

func (e *ConsistencyError) Error() string {
	return "internal consistency: " + e.Detail
}

// Is reports whether target matches this error type
func (e *ConsistencyError) Is(target error) bool {
	_, ok := target.(*ConsistencyError)
	return ok
}
