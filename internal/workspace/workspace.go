// Package workspace implements the sandboxed file operations: read, list,
// and literal-replacement edit. Every path goes through the sandbox guard
// before any I/O happens; the LLM dispatcher and the UI both call in here.
package workspace

import (
	"github.com/oakmund/deskagent/internal/sandbox"
)

// Workspace binds the file operations to one sandbox guard. Construct it once
// in main and hand it to every caller; there is no ambient root.
type Workspace struct {
	guard *sandbox.Guard
}

func New(guard *sandbox.Guard) *Workspace {
	return &Workspace{guard: guard}
}

// Root returns the canonical project root the workspace is confined to.
func (w *Workspace) Root() string { return w.guard.Root() }
