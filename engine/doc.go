// Package engine runs JavaScript module bodies with goja.
//
// The engine is the body-execution collaborator of the runtime: given a
// resolved module, it compiles the source into a CommonJS-style wrapper
// and invokes it with an explicit execution context (module, exports,
// require, __filename, __dirname). The exports object is a dynamic proxy
// over the module's namespace, which keeps partially populated state
// observable during cyclic requires.
//
// # Concurrency
//
// A single goja runtime backs all modules of one engine and is not safe
// for concurrent use. The runtime's single-threaded call model makes this
// safe without locking.
package engine
