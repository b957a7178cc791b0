package loader

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/errors"
)

// Wasm loads WebAssembly core modules through wazero. Each .wasm file is
// compiled and instantiated once under its canonical path; the exported
// functions are surfaced in the module namespace as *Func handles.
type Wasm struct {
	runtime    wazero.Runtime
	enableWASI bool
	wasiOnce   sync.Once
	wasiErr    error
}

var _ scriptruntime.Loader = (*Wasm)(nil)

// NewWasm creates a wasm loader with its own wazero runtime. When
// enableWASI is set, the WASI preview1 host module is instantiated lazily
// before the first wasm module loads.
func NewWasm(ctx context.Context, enableWASI bool) *Wasm {
	return &Wasm{
		runtime:    wazero.NewRuntime(ctx),
		enableWASI: enableWASI,
	}
}

// CanLoad reports whether path names a wasm binary.
func (w *Wasm) CanLoad(path string) bool {
	return strings.HasSuffix(path, ".wasm")
}

// Suffixes returns the file suffixes claimed by this loader.
func (w *Wasm) Suffixes() []string {
	return []string{".wasm"}
}

// Load compiles and instantiates the wasm binary and binds its exported
// functions into the module namespace.
func (w *Wasm) Load(ctx context.Context, m *scriptruntime.Module) error {
	data, err := os.ReadFile(m.Path())
	if err != nil {
		return errors.ReadFailed(errors.PhaseLoad, m.Path(), err)
	}

	if w.enableWASI {
		w.wasiOnce.Do(func() {
			_, w.wasiErr = wasi_snapshot_preview1.Instantiate(ctx, w.runtime)
		})
		if w.wasiErr != nil {
			return errors.Wrap(errors.PhaseLoad, errors.KindRegistration, w.wasiErr, "instantiate WASI preview1")
		}
	}

	compiled, err := w.runtime.CompileModule(ctx, data)
	if err != nil {
		return errors.ParseFailed(errors.PhaseLoad, m.Path(), err)
	}

	inst, err := w.runtime.InstantiateModule(ctx, compiled,
		wazero.NewModuleConfig().WithName(m.Path()))
	if err != nil {
		return errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "instantiate "+m.Path())
	}

	names := make([]string, 0, len(compiled.ExportedFunctions()))
	for name := range compiled.ExportedFunctions() {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fn := inst.ExportedFunction(name)
		if fn == nil {
			continue
		}
		m.Namespace().Set(name, &Func{name: name, fn: fn})
	}

	Logger().Debug("wasm module instantiated",
		zap.String("module", m.Path()),
		zap.Int("functions", len(names)))
	return nil
}

// Close releases the wazero runtime and every instance it owns.
func (w *Wasm) Close(ctx context.Context) error {
	return w.runtime.Close(ctx)
}

// Func is a callable handle over an exported wasm function, bound into
// the module namespace under its export name.
type Func struct {
	name string
	fn   api.Function
}

// Name returns the export name.
func (f *Func) Name() string { return f.name }

// Call invokes the function with raw stack parameters.
func (f *Func) Call(ctx context.Context, params ...uint64) ([]uint64, error) {
	return f.fn.Call(ctx, params...)
}

// ParamTypes returns the wasm value types of the parameters.
func (f *Func) ParamTypes() []api.ValueType {
	return f.fn.Definition().ParamTypes()
}

// ResultTypes returns the wasm value types of the results.
func (f *Func) ResultTypes() []api.ValueType {
	return f.fn.Definition().ResultTypes()
}
