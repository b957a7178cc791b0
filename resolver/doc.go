// Package resolver provides the built-in resolution strategies.
//
// Standard performs the filesystem lookup: origin-relative paths, the
// .script_modules directory of every ancestor, extra request paths and
// the engine's global paths, with suffix expansion driven by the
// registered loaders and package entry points driven by module.json
// manifests and .script-link redirects.
//
// Registry resolves host-registered native Go modules by exact name.
//
// The engine consults strategies in registration order and aggregates the
// locations each one probed, so a failed resolution reports every place
// actually searched.
package resolver
