// Package errors provides the structured error types shared by every
// package in the script runtime.
//
// # Taxonomy
//
// Four dedicated types cover the resolution and loading pipeline:
//
//	ResolveFailure    one strategy missed; carries its probed locations
//	ResolveError      the whole chain missed; carries all probed locations
//	LoadError         a module body raised; sticky on the module instance
//	ConsistencyError  a violated engine invariant; a defect, never retried
//
// Resolution errors are recoverable and inspectable so orchestration logic
// can try alternate candidates. Load errors replay exactly on every
// subsequent load of the same module instance. Consistency errors abort.
//
// Everything else uses the generic Error with a Phase and Kind, built
// either through the Builder or the convenience constructors. All types
// work with errors.Is and errors.As from the standard library.
package errors
