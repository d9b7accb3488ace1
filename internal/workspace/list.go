package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/oakmund/deskagent/internal/sandbox"
)

// Entry is one directory listing row. Name is relative to the listed
// directory (slash-separated in recursive mode).
type Entry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"is_directory"`
}

// List returns the entries of a relative directory path, ordered
// lexicographically by name so repeated calls are reproducible. An empty
// relDir means the project root. In recursive mode every descended entry is
// routed back through the guard; entries that resolve outside the root
// (outward symlinks) or into denied directories are skipped per entry rather
// than failing the whole listing.
func (w *Workspace) List(relDir string, recursive bool) ([]Entry, error) {
	if relDir == "" {
		relDir = "."
	}
	absDir, err := w.guard.Resolve(relDir)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(absDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, sandbox.Errf(sandbox.CodeNotFound, "no directory at %q", relDir)
		}
		if os.IsPermission(err) {
			return nil, sandbox.Errf(sandbox.CodePermission, "cannot stat %q", relDir)
		}
		return nil, fmt.Errorf("stat %q: %w", relDir, err)
	}
	if !fi.IsDir() {
		return nil, sandbox.Errf(sandbox.CodeNotFound, "%q is a file, not a directory", relDir)
	}

	if recursive {
		return w.listRecursive(relDir, absDir)
	}
	return w.listFlat(relDir, absDir)
}

func (w *Workspace) listFlat(relDir, absDir string) ([]Entry, error) {
	dirents, err := os.ReadDir(absDir)
	if err != nil {
		if os.IsPermission(err) {
			return nil, sandbox.Errf(sandbox.CodePermission, "cannot list %q", relDir)
		}
		return nil, fmt.Errorf("list %q: %w", relDir, err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		// Re-check each child so denied subtrees and outward symlinks never
		// appear in listings, regardless of entry point.
		if _, err := w.guard.Resolve(path.Join(relDir, d.Name())); err != nil {
			continue
		}
		entries = append(entries, Entry{Name: d.Name(), IsDir: d.IsDir()})
	}
	sortEntries(entries)
	return entries, nil
}

func (w *Workspace) listRecursive(relDir, absDir string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(absDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // unreadable subtree: skip, keep the rest of the listing
		}
		if p == absDir {
			return nil
		}
		sub, err := filepath.Rel(absDir, p)
		if err != nil {
			return nil
		}
		name := filepath.ToSlash(sub)
		// Containment check per descended entry.
		if _, err := w.guard.Resolve(path.Join(relDir, name)); err != nil {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		entries = append(entries, Entry{Name: name, IsDir: d.IsDir()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", relDir, err)
	}
	sortEntries(entries)
	return entries, nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
}
