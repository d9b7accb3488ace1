package tools

import "github.com/oakmund/deskagent/internal/workspace"

// RegistryOptions carries per-sandbox tuning for the tool set.
type RegistryOptions struct {
	// ReadLimit overrides the default read_file page size when > 0.
	ReadLimit int
}

// NewRegistry returns all tool definitions bound to the given workspace with
// default options.
func NewRegistry(ws *workspace.Workspace) []ToolDefinition {
	return NewRegistryWith(ws, RegistryOptions{})
}

// NewRegistryWith is NewRegistry with explicit options.
func NewRegistryWith(ws *workspace.Workspace, opts RegistryOptions) []ToolDefinition {
	return []ToolDefinition{
		newReadFileTool(ws, opts.ReadLimit),
		NewListFilesTool(ws),
		NewEditFileTool(ws),
	}
}
