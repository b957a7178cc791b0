package engine

import (
	"context"
	"os"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/errors"
)

// Engine executes JavaScript module bodies on a single shared goja
// runtime. Each body is compiled into a wrapper function
//
//	(function (module, exports, require, __filename, __dirname) { ... })
//
// and invoked with an explicit execution context: the exports object is a
// live proxy over the module's Go namespace, and require is the module's
// own per-directory facade. Nothing is injected through ambient scope.
//
// Engine is not safe for concurrent use, matching the single-threaded
// call model of the runtime.
type Engine struct {
	vm         *goja.Runtime
	breakpoint func(context.Context) error
}

// New creates an engine with a fresh goja runtime.
func New() *Engine {
	return &Engine{vm: goja.New()}
}

// SetBreakpoint installs the host's breakpoint hook, exposed to scripts
// as require.breakpoint().
func (e *Engine) SetBreakpoint(fn func(context.Context) error) {
	e.breakpoint = fn
}

// Runtime returns the underlying goja runtime.
func (e *Engine) Runtime() *goja.Runtime { return e.vm }

// Execute compiles and runs the module body at m.Path(). Bindings the
// body creates on the exports object land directly in m's namespace, so a
// cyclic require observes them as they appear. An explicit
// `module.exports = value` assignment is detected after the body returns
// and stored as the module's distinguished export value.
func (e *Engine) Execute(ctx context.Context, m *scriptruntime.Module) error {
	src, err := os.ReadFile(m.Path())
	if err != nil {
		return errors.ReadFailed(errors.PhaseLoad, m.Path(), err)
	}

	prg, err := goja.Compile(m.Path(), wrapSource(src), false)
	if err != nil {
		return errors.ParseFailed(errors.PhaseLoad, m.Path(), err)
	}

	fnVal, err := e.vm.RunProgram(prg)
	if err != nil {
		return err
	}
	call, ok := goja.AssertFunction(fnVal)
	if !ok {
		return errors.Consistency("module wrapper for %s did not compile to a function", m.Path())
	}

	exportsObj := e.vm.NewDynamicObject(&namespaceObject{eng: e, ns: m.Namespace()})
	moduleObj := e.vm.NewObject()
	_ = moduleObj.Set("exports", exportsObj)
	_ = moduleObj.Set("filename", m.Path())
	_ = moduleObj.Set("directory", m.Dir())
	_ = moduleObj.Set("name", m.Name())

	Logger().Debug("execute module body",
		zap.String("module", m.Path()),
		zap.Int("source_bytes", len(src)))

	_, err = call(goja.Undefined(),
		moduleObj,
		exportsObj,
		e.requireValue(ctx, m),
		e.vm.ToValue(m.Path()),
		e.vm.ToValue(m.Dir()),
	)
	if err != nil {
		return err
	}

	if final := moduleObj.Get("exports"); final != nil && !final.SameAs(exportsObj) {
		m.SetExports(final.Export())
	}
	return nil
}

// requireValue builds the require binding for a module: a function value
// backed by the module's own facade, with breakpoint attached as a
// property when the host installed a hook.
func (e *Engine) requireValue(ctx context.Context, m *scriptruntime.Module) goja.Value {
	facade := m.Requirer()
	fn := func(call goja.FunctionCall) goja.Value {
		text := call.Argument(0).String()
		if facade == nil {
			panic(e.vm.NewGoError(errors.Consistency("module %s has no require facade", m.Path())))
		}
		val, err := facade.Require(ctx, text)
		if err != nil {
			panic(e.vm.NewGoError(err))
		}
		return e.toValue(val)
	}

	v := e.vm.ToValue(fn)
	obj, ok := v.(*goja.Object)
	if !ok {
		return v
	}
	if e.breakpoint != nil {
		bp := e.breakpoint
		_ = obj.Set("breakpoint", func() {
			if err := bp(ctx); err != nil {
				panic(e.vm.NewGoError(err))
			}
		})
	}
	return v
}

// toValue converts a require result for the VM. Namespaces become live
// dynamic proxies so in-progress modules stay observable during cycles.
func (e *Engine) toValue(v any) goja.Value {
	if ns, ok := v.(*scriptruntime.Namespace); ok {
		return e.vm.NewDynamicObject(&namespaceObject{eng: e, ns: ns})
	}
	return e.vm.ToValue(v)
}

func wrapSource(src []byte) string {
	return "(function (module, exports, require, __filename, __dirname) {\n" +
		string(src) +
		"\n})"
}
