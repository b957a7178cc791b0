package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/errors"
	"github.com/wippyai/script-runtime/manifest"
)

// DefaultModulesDir is the per-tree package directory searched in every
// ancestor of the request origin.
const DefaultModulesDir = ".script_modules"

// Standard is the filesystem resolution strategy.
//
// Relative ("./x", "../x") and absolute requests resolve against the
// request origin only. Bare and scoped names ("pkg", "pkg/sub") are
// searched through each ancestor directory's modules dir, then the
// request's extra search paths, then the engine's global paths.
//
// At every location the candidates are, in order: the exact file, the
// file extended with each registered loader suffix, and for a directory
// the package entry point (link-file redirect, manifest main, then
// "index" with suffix expansion). Every candidate actually probed is
// recorded so an aggregate ResolveError can name it.
type Standard struct {
	// ModulesDir overrides the per-tree package directory name.
	ModulesDir string
}

var _ scriptruntime.Resolver = (*Standard)(nil)

// NewStandard creates the default filesystem strategy.
func NewStandard() *Standard {
	return &Standard{ModulesDir: DefaultModulesDir}
}

// Resolve implements scriptruntime.Resolver.
func (s *Standard) Resolve(req *scriptruntime.Request) (*scriptruntime.Module, error) {
	text := req.Text()
	if text == "" {
		return nil, errors.InvalidInput(errors.PhaseResolve, "empty request string")
	}

	var tried []string

	if isPathRequest(text) {
		base := text
		if !filepath.IsAbs(base) {
			base = filepath.Join(req.Dir(), base)
		}
		m, err := s.tryLocation(req, base, &tried)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
		return nil, errors.NewResolveFailure(text, tried)
	}

	for _, dir := range s.searchDirs(req) {
		m, err := s.tryLocation(req, filepath.Join(dir, text), &tried)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
	}
	return nil, errors.NewResolveFailure(text, tried)
}

// searchDirs returns the ordered locations a bare name is looked up in:
// the modules dir of every ancestor of the origin, the request's extra
// paths, then the engine's global paths.
func (s *Standard) searchDirs(req *scriptruntime.Request) []string {
	modulesDir := s.ModulesDir
	if modulesDir == "" {
		modulesDir = DefaultModulesDir
	}

	var dirs []string
	dir := filepath.Clean(req.Dir())
	for {
		dirs = append(dirs, filepath.Join(dir, modulesDir))
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	dirs = append(dirs, req.SearchPaths()...)
	if ctx := req.Context(); ctx != nil {
		dirs = append(dirs, ctx.GlobalPaths()...)
	}
	return dirs
}

// tryLocation probes one base path: the exact file, suffix expansions,
// and the package entry point when base is a directory. It returns nil
// without error on a miss.
func (s *Standard) tryLocation(req *scriptruntime.Request, base string, tried *[]string) (*scriptruntime.Module, error) {
	if m, err := s.tryFile(req, base, nil, tried); m != nil || err != nil {
		return m, err
	}
	for _, suffix := range loaderSuffixes(req) {
		if m, err := s.tryFile(req, base+suffix, nil, tried); m != nil || err != nil {
			return m, err
		}
	}

	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		return nil, nil
	}
	return s.tryPackageDir(req, base, tried)
}

// tryPackageDir resolves a directory request to its entry point.
func (s *Standard) tryPackageDir(req *scriptruntime.Request, dir string, tried *[]string) (*scriptruntime.Module, error) {
	if target, ok, err := manifest.ReadLink(dir); err != nil {
		return nil, err
	} else if ok {
		*tried = append(*tried, filepath.Join(dir, manifest.LinkFileName))
		Logger().Debug("package link redirect",
			zap.String("from", dir),
			zap.String("to", target))
		dir = target
	}

	pkg, err := manifest.FromDir(dir)
	if err != nil {
		return nil, err
	}

	if pkg != nil {
		mainBase := filepath.Join(dir, pkg.MainRequest())
		if m, err := s.tryFile(req, mainBase, pkg, tried); m != nil || err != nil {
			return m, err
		}
		for _, suffix := range loaderSuffixes(req) {
			if m, err := s.tryFile(req, mainBase+suffix, pkg, tried); m != nil || err != nil {
				return m, err
			}
		}
	}

	indexBase := filepath.Join(dir, "index")
	for _, suffix := range loaderSuffixes(req) {
		if m, err := s.tryFile(req, indexBase+suffix, pkg, tried); m != nil || err != nil {
			return m, err
		}
	}
	return nil, nil
}

// tryFile records the probe and, when path is a loadable regular file,
// returns the cached module for its canonical identity or mints a new
// one.
func (s *Standard) tryFile(req *scriptruntime.Request, path string, pkg *manifest.Manifest, tried *[]string) (*scriptruntime.Module, error) {
	*tried = append(*tried, path)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, nil
	}

	canonical := path
	if !filepath.IsAbs(canonical) {
		canonical, err = filepath.Abs(canonical)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseResolve, errors.KindIO, err, "absolutize "+path)
		}
	}
	canonical = filepath.Clean(canonical)
	if resolved, err := filepath.EvalSymlinks(canonical); err == nil {
		canonical = resolved
	}

	ld := matchLoader(req, canonical)
	if ld == nil {
		return nil, nil
	}

	if m, ok := req.Context().Lookup(canonical); ok {
		return m, nil
	}

	m := scriptruntime.NewModule(canonical, filepath.Dir(canonical), ld)
	if pkg != nil {
		m.SetPackage(pkg)
	}
	Logger().Debug("resolved module",
		zap.String("request", req.Text()),
		zap.String("path", canonical))
	return m, nil
}

func loaderSuffixes(req *scriptruntime.Request) []string {
	var suffixes []string
	for _, ld := range req.Context().Loaders() {
		suffixes = append(suffixes, ld.Suffixes()...)
	}
	return suffixes
}

func matchLoader(req *scriptruntime.Request, path string) scriptruntime.Loader {
	for _, ld := range req.Context().Loaders() {
		if ld.CanLoad(path) {
			return ld
		}
	}
	return nil
}

func isPathRequest(text string) bool {
	if filepath.IsAbs(text) {
		return true
	}
	return text == "." || text == ".." ||
		strings.HasPrefix(text, "./") || strings.HasPrefix(text, "../")
}
