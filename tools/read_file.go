package tools

import (
	"encoding/json"
	"strings"

	"github.com/oakmund/deskagent/internal/sandbox"
	"github.com/oakmund/deskagent/internal/workspace"
)

type ReadFileInput struct {
	Path   string `json:"path" jsonschema_description:"Relative file path."`
	Offset int    `json:"offset,omitempty" jsonschema_description:"Line offset (0-based) to start reading from."`
	Limit  int    `json:"limit,omitempty" jsonschema_description:"Maximum lines to return from offset (default 200)."`
}

const defaultReadFileLimit = 200 // fallback page size when limit <= 0
const truncationSentinel = "-- truncated; use offset/limit to fetch more --\n"
const maxLineRunes = 2000     // per-line clamp
const overallRuneCap = 12_000 // overall cap after join

var ReadFileInputSchema = GenerateSchema[ReadFileInput]()

// Helper: clamp a string to at most n runes
func clampRunes(s string, n int) (string, bool) {
	if n <= 0 {
		return "", len([]rune(s)) > 0
	}
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	return string(r[:n]), true
}

// NewReadFileTool binds read_file to a workspace. The workspace returns full
// decoded contents; this layer applies small, deterministic caps for
// LLM-facing pagination:
//   - offset: 0-based starting line (negatives clamped to 0)
//   - limit: number of lines to return (<= defaults to 200)
//
// If not all lines are returned, it appends a trailing sentinel to signal
// pagination. Rationale: keep tool results predictably small for the
// conversation budget heuristics.
func NewReadFileTool(ws *workspace.Workspace) ToolDefinition {
	return newReadFileTool(ws, defaultReadFileLimit)
}

func newReadFileTool(ws *workspace.Workspace, defaultLimit int) ToolDefinition {
	if defaultLimit <= 0 {
		defaultLimit = defaultReadFileLimit
	}
	return ToolDefinition{
		Name:        "read_file",
		Description: "Read the contents of a file addressed by a relative file path within the workspace. Directory paths and unsafe paths are rejected.",
		InputSchema: ReadFileInputSchema,
		Function: func(input json.RawMessage) (string, error) {
			var in ReadFileInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", sandbox.Errf(sandbox.CodeInvalidArgument, "invalid read_file arguments: %v", err)
			}
			if in.Path == "" {
				return "", sandbox.Errf(sandbox.CodeInvalidArgument, "path is required")
			}

			content, err := ws.Read(in.Path)
			if err != nil {
				return "", err
			}
			limit := in.Limit
			if limit <= 0 {
				limit = defaultLimit
			}
			return paginate(content, in.Offset, limit), nil
		},
	}
}

func paginate(content string, offset, limit int) string {
	if limit <= 0 {
		limit = defaultReadFileLimit
	}
	if offset < 0 {
		offset = 0
	}

	// Split and select window
	lines := strings.Split(content, "\n")
	if offset > len(lines) {
		offset = len(lines)
	}
	end := offset + limit
	if end > len(lines) {
		end = len(lines)
	}

	// Clamp each line to maxLineRunes, tracking if any truncation occurred
	truncated := end < len(lines)
	for i := offset; i < end; i++ {
		if clamped, did := clampRunes(lines[i], maxLineRunes); did {
			lines[i] = clamped
			truncated = true
		}
	}

	out := strings.Join(lines[offset:end], "\n")

	// Apply overall cap after join
	if clamped, did := clampRunes(out, overallRuneCap); did {
		out = clamped
		truncated = true
	}

	// Ensure final newline and sentinel if any truncation took place
	if truncated {
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if !strings.HasSuffix(out, truncationSentinel) {
			out += truncationSentinel
		}
	}
	return out
}
