// Package runtime provides the module resolution and lazy-loading engine.
//
// # Quick Start
//
//	ctx := context.Background()
//	eng, err := runtime.New(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	// Require a module; exports if set, else its namespace.
//	val, err := eng.Root().Require(ctx, "./lib/util")
//
// # Pipeline
//
// Resolve walks the resolver chain in registration order; the first
// success short-circuits and a full miss reports every location every
// strategy probed. The resolved module is cached by canonical identity,
// so two requests that name the same file share one Module instance.
// Load runs the body at most once: a loaded module is a no-op, a module
// already loading returns its partially populated namespace (the cyclic
// require guard), and a failed module replays its sticky error until a
// fresh resolution mints a new attempt.
//
// # Require Facade
//
// Require is a per-directory view of the engine handed to every module
// body. It memoizes by request string in front of the engine's identity
// cache, offers TryEach over candidate requests, ImportAll for explicit
// scope merging, and New to derive a sibling facade for another
// directory.
//
// # Concurrency
//
// The engine is single-threaded: resolution and loading run to
// completion on the calling goroutine and the load stack mirrors the
// call stack. No locking is provided. Callers that share an engine
// across goroutines must serialize resolve, load and cache access
// themselves.
package runtime
