// Package loader provides the built-in module loaders.
//
// A loader turns a resolved canonical path into a populated module:
//
//	Source   .js files, executed by the goja engine
//	JSON     .json files, decoded as data modules
//	Wasm     .wasm core modules, instantiated through wazero
//	Native   host-registered Go modules by registry name
//
// Loaders report the file suffixes they claim; filesystem resolvers use
// those suffixes for candidate expansion, so registering a loader also
// teaches resolution about its extension.
package loader
