// Package manifest parses package manifests (module.json) and
// develop-install link files (.script-link).
//
// A manifest names the package and selects its entry point; a link file
// redirects resolution of a package directory to another directory, the
// mechanism behind in-place development installs.
package manifest
