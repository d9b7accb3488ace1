package tools_test

import (
	"path/filepath"
	"testing"

	"github.com/oakmund/deskagent/internal/sandbox"
	"github.com/oakmund/deskagent/internal/workspace"
)

// newTestWorkspace returns a workspace rooted in a fresh temp dir plus the
// canonical dir itself for direct filesystem assertions.
func newTestWorkspace(t *testing.T) (*workspace.Workspace, string) {
	t.Helper()
	dir := t.TempDir()
	if r, err := filepath.EvalSymlinks(dir); err == nil {
		dir = r
	}
	g, err := sandbox.New(dir)
	if err != nil {
		t.Fatalf("sandbox.New: %v", err)
	}
	return workspace.New(g), dir
}
