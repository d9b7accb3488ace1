// Package sandbox confines every file operation to a single project root.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StateDir is the agent's own state directory inside the project root.
// It is denied to both reads and writes so the editor cannot corrupt
// conversation or telemetry state it is running on top of.
const StateDir = ".deskagent"

// Guard owns the canonical project root and validates every relative path
// against it. It is the single chokepoint for the containment invariant:
// nothing else in the repository joins caller-supplied paths to the root.
type Guard struct {
	root string
	deny []string // slash-separated relative prefixes, e.g. "secrets"
}

// New canonicalizes root (absolute + symlink-resolved) and returns a Guard.
// An empty root defaults to the current working directory.
func New(root string) (*Guard, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		root = cwd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("abs(root): %w", err)
	}
	// Resolve symlinks so later boundary checks compare canonical forms.
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", abs)
	}
	return &Guard{root: abs, deny: []string{".git", StateDir}}, nil
}

// Root returns the canonical project root.
func (g *Guard) Root() string { return g.root }

// Deny adds extra relative prefixes (slash form) to the denylist. Used by the
// project config to fence off directories like "secrets/" without moving them.
func (g *Guard) Deny(prefixes ...string) {
	for _, p := range prefixes {
		p = strings.Trim(strings.TrimSpace(filepath.ToSlash(p)), "/")
		if p != "" && p != "." {
			g.deny = append(g.deny, p)
		}
	}
}

// Resolve validates relPath for reading and returns the canonical absolute
// path inside the root. It rejects empty and absolute inputs, parent
// traversal, and symlink escapes; resolution happens on the symlink-resolved
// form, so in-tree links pointing outside the root are rejected too.
func (g *Guard) Resolve(relPath string) (string, error) {
	abs, rel, err := g.resolve(relPath)
	if err != nil {
		return "", err
	}
	if g.denied(rel) {
		return "", OpError{Code: CodeDeniedRead, Message: fmt.Sprintf("reads under %s/ are not allowed", deniedPrefix(g.deny, rel))}
	}
	return abs, nil
}

// ResolveForWrite validates relPath for writing. Same containment rules as
// Resolve; additionally the root itself ("." or "") is not a writable target.
func (g *Guard) ResolveForWrite(relPath string) (string, error) {
	abs, rel, err := g.resolve(relPath)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", OpError{Code: CodeInvalidArgument, Message: "path must name a file, not the project root"}
	}
	if g.denied(rel) {
		return "", OpError{Code: CodeDeniedWrite, Message: fmt.Sprintf("writes under %s/ are not allowed", deniedPrefix(g.deny, rel))}
	}
	return abs, nil
}

// resolve is the shared containment computation. Pure path work plus stat-free
// symlink resolution; no file contents are touched.
func (g *Guard) resolve(relPath string) (abs string, rel string, err error) {
	if relPath == "" {
		return "", "", OpError{Code: CodeInvalidArgument, Message: "path must not be empty"}
	}
	if filepath.IsAbs(relPath) {
		return "", "", OpError{Code: CodePathEscape, Message: "absolute paths are not allowed"}
	}

	candidate := filepath.Join(g.root, filepath.Clean(relPath))

	// Best-effort symlink resolution.
	// 1) Resolve the whole candidate if it exists.
	// 2) Otherwise walk up to the deepest existing ancestor, resolve it, and
	//    rejoin the not-yet-existing remainder. Walking the full ancestor
	//    chain reveals escapes via a symlinked ancestor at any depth, not
	//    just the immediate parent.
	if resolved, rerr := filepath.EvalSymlinks(candidate); rerr == nil {
		candidate = resolved
	} else {
		ancestor := candidate
		remainder := ""
		for {
			parent := filepath.Dir(ancestor)
			if parent == ancestor {
				break
			}
			remainder = filepath.Join(filepath.Base(ancestor), remainder)
			ancestor = parent
			if resolved, aerr := filepath.EvalSymlinks(ancestor); aerr == nil {
				candidate = filepath.Join(resolved, remainder)
				break
			}
		}
	}

	// Boundary check using filepath.Rel (robust against partial prefix matches).
	rel, rerr := filepath.Rel(g.root, candidate)
	if rerr != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", "", OpError{Code: CodePathEscape, Message: "requested path resolves outside the sandbox root"}
	}
	return candidate, filepath.ToSlash(rel), nil
}

func (g *Guard) denied(rel string) bool {
	return deniedPrefix(g.deny, rel) != ""
}

// deniedPrefix returns the denylist entry covering rel, or "".
func deniedPrefix(deny []string, rel string) string {
	for _, p := range deny {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return p
		}
	}
	return ""
}
