package workspace

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/oakmund/deskagent/internal/sandbox"
)

// Read returns the full decoded contents of a file addressed by a relative
// path. Directories and missing paths are ERR_NOT_FOUND; unreadable files are
// ERR_PERMISSION; non-UTF-8 content is ERR_INVALID_CONTENT (binary files are
// out of scope).
func (w *Workspace) Read(relPath string) (string, error) {
	absPath, err := w.guard.Resolve(relPath)
	if err != nil {
		return "", err
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", sandbox.Errf(sandbox.CodeNotFound, "no file at %q", relPath)
		}
		if os.IsPermission(err) {
			return "", sandbox.Errf(sandbox.CodePermission, "cannot stat %q", relPath)
		}
		return "", fmt.Errorf("stat %q: %w", relPath, err)
	}
	if fi.IsDir() {
		return "", sandbox.Errf(sandbox.CodeNotFound, "%q is a directory, not a file", relPath)
	}

	b, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsPermission(err) {
			return "", sandbox.Errf(sandbox.CodePermission, "cannot open %q for reading", relPath)
		}
		return "", fmt.Errorf("read %q: %w", relPath, err)
	}
	if !utf8.Valid(b) {
		return "", sandbox.Errf(sandbox.CodeInvalidContent, "%q is not valid UTF-8 text", relPath)
	}
	return string(b), nil
}
