package tools

import (
	"encoding/json"

	"github.com/oakmund/deskagent/internal/sandbox"
	"github.com/oakmund/deskagent/internal/workspace"
)

type EditFileInput struct {
	Path   string `json:"path" jsonschema_description:"Target relative file path"`
	OldStr string `json:"old_str" jsonschema_description:"Exact text to replace; every occurrence is replaced. Empty creates a new file."`
	NewStr string `json:"new_str" jsonschema_description:"New text to write or replace old_str with"`
}

var EditFileInputSchema = GenerateSchema[EditFileInput]()

// NewEditFileTool binds edit_file to a workspace. Replacement is literal and
// case-sensitive, never regex. The result is a small JSON object so the model
// can see whether the file was created and how much it changed.
func NewEditFileTool(ws *workspace.Workspace) ToolDefinition {
	return ToolDefinition{
		Name: "edit_file",
		Description: `Create or modify a text file addressed by a relative path within the workspace.

When old_str is empty and the file doesn't exist, a new file is created with new_str as content (missing parent directories are created too).

When editing an existing file, all occurrences of old_str are replaced with new_str; old_str and new_str must be different.
`,
		InputSchema: EditFileInputSchema,
		Function: func(input json.RawMessage) (string, error) {
			var in EditFileInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", sandbox.Errf(sandbox.CodeInvalidArgument, "invalid edit_file arguments: %v", err)
			}

			res, err := ws.Edit(workspace.EditRequest{
				Path:   in.Path,
				OldStr: in.OldStr,
				NewStr: in.NewStr,
			})
			if err != nil {
				return "", err
			}
			b, err := json.Marshal(res)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}
