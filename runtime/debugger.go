package runtime

import (
	"context"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/wippyai/script-runtime/errors"
)

// DebugMode selects the breakpoint behavior, resolved once at engine
// construction. Environment-variable plumbing belongs to the hosting
// process; the core only sees the enum.
type DebugMode int

const (
	// DebugDefault logs the load stack through the package logger.
	DebugDefault DebugMode = iota

	// DebugNamed requires the configured module and invokes its
	// "breakpoint" namespace entry.
	DebugNamed

	// DebugDisabled makes Breakpoint a no-op.
	DebugDisabled
)

// DebugConfig selects the debugger dispatch.
type DebugConfig struct {
	Mode DebugMode

	// Module is the request string required in DebugNamed mode.
	Module string
}

// Breakpoint dispatches per the engine's debug configuration. Scripts
// reach it through require.breakpoint().
func (e *Engine) Breakpoint(ctx context.Context) error {
	switch e.opts.Debug.Mode {
	case DebugDisabled:
		return nil

	case DebugNamed:
		m, err := e.root.Module(ctx, e.opts.Debug.Module)
		if err != nil {
			return errors.Wrap(errors.PhaseRuntime, errors.KindNotFound, err, "load debugger module")
		}
		entry, ok := m.Namespace().Get("breakpoint")
		if !ok {
			return errors.NotFound(errors.PhaseRuntime, "breakpoint entry in debugger module", m.Path())
		}
		switch fn := entry.(type) {
		case func(context.Context) error:
			return fn(ctx)
		case func() error:
			return fn()
		case func():
			fn()
			return nil
		case func(goja.FunctionCall) goja.Value:
			fn(goja.FunctionCall{This: goja.Undefined()})
			return nil
		default:
			return errors.InvalidInput(errors.PhaseRuntime, "breakpoint entry is not callable")
		}

	default:
		paths := make([]string, len(e.stack))
		for i, m := range e.stack {
			paths[i] = m.Path()
		}
		fields := []zap.Field{zap.Strings("load_stack", paths)}
		if cur := e.Current(); cur != nil {
			fields = append(fields, zap.String("current", cur.Path()))
		}
		if e.main != nil {
			fields = append(fields, zap.String("main", e.main.Path()))
		}
		Logger().Info("breakpoint", fields...)
		return nil
	}
}
