package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the pipeline the error occurred
type Phase string

const (
	PhaseResolve  Phase = "resolve"  // resolver chain
	PhaseLoad     Phase = "load"     // module body execution
	PhaseRequire  Phase = "require"  // require facade
	PhaseManifest Phase = "manifest" // package manifest parsing
	PhaseRuntime  Phase = "runtime"  // engine operations
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindInvalidInput Kind = "invalid_input"
	KindInvalidData  Kind = "invalid_data"
	KindUnsupported  Kind = "unsupported"
	KindRegistration Kind = "registration"
	KindIO           Kind = "io"
)

// Error is the structured error type used throughout the library for
// everything outside the dedicated resolution/load/consistency taxonomy.
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Module string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Module != "" {
		b.WriteString(" in ")
		b.WriteString(e.Module)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Module sets the module identity the error relates to
func (b *Builder) Module(path string) *Builder {
	b.err.Module = path
	return b
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Registration creates a registration error
func Registration(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %q", name),
		Cause:  cause,
	}
}

// ReadFailed creates an I/O error for a module source read
func ReadFailed(phase Phase, path string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Module: path,
		Detail: "read source",
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(phase Phase, what string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
