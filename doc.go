// Package scriptruntime provides a Node-style module resolution and
// lazy-loading engine for embedded script workloads.
//
// Given a textual request ("./foo", "some-package", "pkg/sub"), an origin
// directory and an ordered list of extra search paths, the engine locates a
// concrete module identity, instantiates it at most once, executes its body
// exactly once, caches it by canonical identity and tracks which module is
// currently executing so that nested requests resolve relative to the right
// location.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	scriptruntime/       Root package with the core contracts: Request,
//	                     Module, Namespace, Resolver, Loader, Context
//	├── runtime/         Engine (resolver chain, module cache, load stack)
//	│                    and the per-directory Require facade
//	├── resolver/        Resolution strategies: filesystem lookup with
//	                     package manifests, and the native-module registry
//	├── loader/          Loaders: JavaScript source, JSON data modules,
//	                     WebAssembly core modules, native Go modules
//	├── engine/          goja execution wrapper that runs a module body
//	│                    against its namespace with require injected
//	├── manifest/        Package manifest (module.json) and link files
//	├── errors/          Structured errors shared across all packages
//	└── cmd/require/     CLI for resolving and requiring modules
//
// # Main Types
//
// A Request describes a single resolution attempt and is never mutated; a
// fresh Request is built for every attempt. A Module is the cached, stateful
// unit of resolution: canonical path, load state, namespace and exports. The
// Resolver and Loader interfaces are the two extension points: resolvers map
// requests to modules, loaders execute a resolved module's body.
//
// # Concurrency
//
// The engine is single-threaded by design. Resolution and loading run to
// completion on the calling goroutine; the load stack mirrors the call
// stack. Callers that share an engine across goroutines must serialize all
// access themselves.
package scriptruntime
