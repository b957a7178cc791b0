package runtime

import (
	"context"
	"path/filepath"

	scriptruntime "github.com/wippyai/script-runtime"
)

// registerStd installs the default native modules every engine carries:
// std:log for structured script logging and std:path for path helpers.
func registerStd(e *Engine) error {
	if err := e.registry.Register("std:log", setupStdLog); err != nil {
		return err
	}
	return e.registry.Register("std:path", setupStdPath)
}

func setupStdLog(ctx context.Context, m *scriptruntime.Module) error {
	log := Logger().Named("script").Sugar()
	ns := m.Namespace()
	ns.Set("debug", func(msg string) { log.Debug(msg) })
	ns.Set("info", func(msg string) { log.Info(msg) })
	ns.Set("warn", func(msg string) { log.Warn(msg) })
	ns.Set("error", func(msg string) { log.Error(msg) })
	return nil
}

func setupStdPath(ctx context.Context, m *scriptruntime.Module) error {
	ns := m.Namespace()
	ns.Set("join", func(parts ...string) string { return filepath.Join(parts...) })
	ns.Set("base", filepath.Base)
	ns.Set("dir", filepath.Dir)
	ns.Set("ext", filepath.Ext)
	ns.Set("clean", filepath.Clean)
	ns.Set("isAbs", filepath.IsAbs)
	ns.Set("sep", string(filepath.Separator))
	return nil
}
