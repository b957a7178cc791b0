package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/term"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/engine"
	"github.com/wippyai/script-runtime/loader"
	"github.com/wippyai/script-runtime/resolver"
	"github.com/wippyai/script-runtime/runtime"
)

func main() {
	var (
		dir         = flag.String("dir", "", "Origin directory for resolution (default: working directory)")
		paths       = flag.String("path", "", "Extra global search paths (list separated like $PATH)")
		resolveOnly = flag.Bool("resolve", false, "Resolve only, do not load")
		jsonOut     = flag.Bool("json", false, "Machine-readable output")
		wasi        = flag.Bool("wasi", false, "Enable WASI preview1 for wasm modules")
		verbose     = flag.Bool("v", false, "Verbose logging to stderr")
		interactive = flag.Bool("i", false, "Interactive explorer")
	)
	flag.Parse()

	if *verbose {
		setVerboseLogging()
	}

	opts := runtime.DefaultOptions()
	opts.Dir = *dir
	opts.EnableWASI = *wasi
	if *paths != "" {
		opts.SearchPaths = filepath.SplitList(*paths)
	}
	opts.Debug = debugConfig()

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	requests := flag.Args()
	if len(requests) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: require [flags] <request> [fallback-request ...]")
		fmt.Fprintln(os.Stderr, "       require -resolve <request>")
		fmt.Fprintln(os.Stderr, "       require -i  (interactive explorer)")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(opts, requests, *resolveOnly, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// debugConfig maps the SCRIPT_BREAKPOINT environment variable onto the
// engine's debugger enum: unset/empty selects the default, "0" disables,
// anything else names the debugger module to require.
func debugConfig() runtime.DebugConfig {
	switch v := os.Getenv("SCRIPT_BREAKPOINT"); v {
	case "":
		return runtime.DebugConfig{Mode: runtime.DebugDefault}
	case "0":
		return runtime.DebugConfig{Mode: runtime.DebugDisabled}
	default:
		return runtime.DebugConfig{Mode: runtime.DebugNamed, Module: v}
	}
}

func setVerboseLogging() {
	log, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	runtime.SetLogger(log)
	resolver.SetLogger(log)
	loader.SetLogger(log)
	engine.SetLogger(log)
}

func run(opts *runtime.Options, requests []string, resolveOnly, jsonOut bool) error {
	ctx := context.Background()

	eng, err := runtime.New(ctx, opts)
	if err != nil {
		return err
	}
	defer eng.Close(ctx)

	if resolveOnly {
		for _, text := range requests {
			m, err := eng.ResolveText(text, opts.Dir, nil)
			if err != nil {
				return err
			}
			printModule(text, m, jsonOut)
		}
		return nil
	}

	facade := eng.Root()
	var m *scriptruntime.Module
	if len(requests) == 1 {
		m, err = facade.Module(ctx, requests[0])
	} else {
		// Candidate fallbacks: take the first request that resolves.
		if _, err = facade.TryEach(ctx, requests...); err == nil {
			for _, text := range requests {
				if m, err = facade.Module(ctx, text); err == nil {
					break
				}
			}
		}
	}
	if err != nil {
		return err
	}

	printModule(m.Path(), m, jsonOut)
	if !jsonOut {
		fmt.Println()
		printValue(m)
	}
	return nil
}

func printModule(request string, m *scriptruntime.Module, jsonOut bool) {
	if jsonOut {
		_, hasExports := m.Exports()
		out := map[string]any{
			"request":   request,
			"path":      m.Path(),
			"name":      m.Name(),
			"state":     m.State().String(),
			"exports":   hasExports,
			"namespace": m.Namespace().Keys(),
		}
		if pkg := m.Package(); pkg != nil {
			out["package"] = pkg.Name
			out["version"] = pkg.Version
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	fmt.Printf("Module:  %s\n", m.Path())
	fmt.Printf("Name:    %s\n", m.Name())
	fmt.Printf("State:   %s\n", m.State())
	if pkg := m.Package(); pkg != nil {
		fmt.Printf("Package: %s@%s\n", pkg.Name, pkg.Version)
	}
}

func printValue(m *scriptruntime.Module) {
	if v, ok := m.Exports(); ok {
		fmt.Printf("Exports: %v\n", v)
		return
	}
	keys := m.Namespace().Keys()
	sort.Strings(keys)
	fmt.Printf("Namespace (%d bindings):\n", len(keys))
	for _, k := range keys {
		v, _ := m.Namespace().Get(k)
		fmt.Printf("  %-20s %v\n", k, v)
	}
}
