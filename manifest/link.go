package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/wippyai/script-runtime/errors"
)

// LinkFileName is the develop-install redirect file. A package directory
// containing one resolves as if it were the directory named on the file's
// first line.
const LinkFileName = ".script-link"

// ReadLink reads a link file inside dir and returns the redirect target.
// The target on the first line may be relative to dir. ok is false when
// dir carries no link file.
func ReadLink(dir string) (target string, ok bool, err error) {
	path := filepath.Join(dir, LinkFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.ReadFailed(errors.PhaseManifest, path, err)
	}
	line, _, _ := strings.Cut(string(data), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false, errors.ParseFailed(errors.PhaseManifest, path,
			errors.InvalidInput(errors.PhaseManifest, "empty link target"))
	}
	if !filepath.IsAbs(line) {
		line = filepath.Join(dir, line)
	}
	return filepath.Clean(line), true, nil
}
