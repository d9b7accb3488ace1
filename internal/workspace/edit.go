package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/oakmund/deskagent/internal/sandbox"
)

// EditRequest asks for every literal occurrence of OldStr to be replaced with
// NewStr in the file at Path. An empty OldStr against a missing file means
// "create the file with NewStr as content".
type EditRequest struct {
	Path   string
	OldStr string
	NewStr string
}

// EditResult reports what an edit did. BytesChanged is the signed size delta
// of the file; on creation it equals the length of the new content.
type EditResult struct {
	BytesChanged int  `json:"bytes_changed"`
	Replacements int  `json:"replacements"`
	Created      bool `json:"created"`
}

// Edit performs exact, case-sensitive substring replacement of every
// non-overlapping occurrence of OldStr. No-op requests (OldStr == NewStr) are
// rejected so likely caller mistakes surface instead of silently succeeding.
// Writes are atomic relative to partial-write failure: content goes to a temp
// file in the target directory which is then renamed over the original.
func (w *Workspace) Edit(req EditRequest) (EditResult, error) {
	if req.Path == "" {
		return EditResult{}, sandbox.Errf(sandbox.CodeInvalidArgument, "path must not be empty")
	}
	if req.OldStr == req.NewStr {
		return EditResult{}, sandbox.Errf(sandbox.CodeInvalidArgument, "old_str and new_str must be different")
	}

	absPath, err := w.guard.ResolveForWrite(req.Path)
	if err != nil {
		return EditResult{}, err
	}

	fi, statErr := os.Stat(absPath)
	switch {
	case os.IsNotExist(statErr):
		if req.OldStr != "" {
			return EditResult{}, sandbox.Errf(sandbox.CodeNotFound, "no file at %q to replace text in", req.Path)
		}
		return w.create(absPath, req.NewStr)
	case statErr != nil:
		if os.IsPermission(statErr) {
			return EditResult{}, sandbox.Errf(sandbox.CodePermission, "cannot stat %q", req.Path)
		}
		return EditResult{}, fmt.Errorf("stat %q: %w", req.Path, statErr)
	case fi.IsDir():
		return EditResult{}, sandbox.Errf(sandbox.CodeNotFound, "%q is a directory, not a file", req.Path)
	}

	b, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsPermission(err) {
			return EditResult{}, sandbox.Errf(sandbox.CodePermission, "cannot open %q for editing", req.Path)
		}
		return EditResult{}, fmt.Errorf("read %q: %w", req.Path, err)
	}
	if !utf8.Valid(b) {
		return EditResult{}, sandbox.Errf(sandbox.CodeInvalidContent, "%q is not valid UTF-8 text", req.Path)
	}
	content := string(b)

	// Empty old_str against an existing file is ambiguous; require the caller
	// to say what to replace.
	if req.OldStr == "" {
		return EditResult{}, sandbox.Errf(sandbox.CodeInvalidArgument, "old_str must be provided when editing an existing file")
	}

	count := strings.Count(content, req.OldStr)
	if count == 0 {
		return EditResult{}, sandbox.Errf(sandbox.CodeNoMatch, "old_str not found in %q", req.Path)
	}
	updated := strings.ReplaceAll(content, req.OldStr, req.NewStr)

	if err := writeFileAtomic(absPath, []byte(updated), fi.Mode().Perm()); err != nil {
		if os.IsPermission(err) {
			return EditResult{}, sandbox.Errf(sandbox.CodePermission, "cannot write %q", req.Path)
		}
		return EditResult{}, fmt.Errorf("write %q: %w", req.Path, err)
	}
	return EditResult{
		BytesChanged: len(updated) - len(content),
		Replacements: count,
	}, nil
}

// create writes a brand-new file, making any missing parent directories.
func (w *Workspace) create(absPath, content string) (EditResult, error) {
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		if os.IsPermission(err) {
			return EditResult{}, sandbox.Errf(sandbox.CodePermission, "cannot create parent directories for %q", absPath)
		}
		return EditResult{}, fmt.Errorf("mkdir: %w", err)
	}
	if err := writeFileAtomic(absPath, []byte(content), 0o644); err != nil {
		if os.IsPermission(err) {
			return EditResult{}, sandbox.Errf(sandbox.CodePermission, "cannot create file")
		}
		return EditResult{}, fmt.Errorf("create: %w", err)
	}
	return EditResult{BytesChanged: len(content), Created: true}, nil
}

// writeFileAtomic writes via a temp file in the same directory plus rename,
// so a crash mid-write never leaves a truncated file behind.
func writeFileAtomic(absPath string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(absPath)
	tmp, err := os.CreateTemp(dir, ".deskagent-edit-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// No-ops once the rename succeeded.
		tmp.Close()
		os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, absPath)
}
