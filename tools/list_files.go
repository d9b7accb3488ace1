package tools

import (
	"encoding/json"

	"github.com/oakmund/deskagent/internal/sandbox"
	"github.com/oakmund/deskagent/internal/workspace"
)

type ListFilesInput struct {
	Path      string `json:"path,omitempty" jsonschema_description:"Optional relative path to list files from (defaults to the workspace root)."`
	Recursive bool   `json:"recursive,omitempty" jsonschema_description:"Descend into subdirectories. Defaults to false."`
	Page      int    `json:"page,omitempty" jsonschema_description:"1-based page number (default 1)."`
	PageSize  int    `json:"page_size,omitempty" jsonschema_description:"Page size (default 200)."`
}

// defaultListFilesPageSize is the fallback page size when page_size <= 0.
const defaultListFilesPageSize = 200

var ListFilesInputSchema = GenerateSchema[ListFilesInput]()

// NewListFilesTool binds list_files to a workspace. The workspace already
// returns entries in lexicographic order; this layer only applies simple
// paging so results stay deterministic across filesystems and repeated calls.
// Defaults:
//   - page: 1 when <= 0
//   - page_size: 200 when <= 0
//
// Contract: returns a JSON-encoded array of {name, is_directory} objects.
func NewListFilesTool(ws *workspace.Workspace) ToolDefinition {
	return ToolDefinition{
		Name:        "list_files",
		Description: "List entries of a directory within the workspace as {name, is_directory} objects. Non-recursive unless recursive=true.",
		InputSchema: ListFilesInputSchema,
		Function: func(input json.RawMessage) (string, error) {
			var in ListFilesInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", sandbox.Errf(sandbox.CodeInvalidArgument, "invalid list_files arguments: %v", err)
			}
			// Default benign inputs for LLM callers to keep behaviour predictable.
			page := in.Page
			if page <= 0 {
				page = 1
			}
			pageSize := in.PageSize
			if pageSize <= 0 {
				pageSize = defaultListFilesPageSize
			}

			entries, err := ws.List(in.Path, in.Recursive)
			if err != nil {
				return "", err
			}

			start := (page - 1) * pageSize
			// Out-of-range page returns an empty JSON array; keep the output contract.
			if start >= len(entries) {
				return "[]", nil
			}
			end := start + pageSize
			if end > len(entries) {
				end = len(entries)
			}

			b, err := json.Marshal(entries[start:end])
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}
