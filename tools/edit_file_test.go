package tools_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/oakmund/deskagent/internal/sandbox"
	"github.com/oakmund/deskagent/internal/workspace"
	"github.com/oakmund/deskagent/tools"
)

func editResult(t *testing.T, out string) workspace.EditResult {
	t.Helper()
	var res workspace.EditResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid edit result JSON: %v; raw=%q", err, out)
	}
	return res
}

func TestEditFile_CreateNew(t *testing.T) {
	ws, dir := newTestWorkspace(t)
	def := tools.NewEditFileTool(ws)

	in := tools.EditFileInput{Path: "new.txt", OldStr: "", NewStr: "hello"}
	b, _ := json.Marshal(in)
	out, err := def.Function(b)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	res := editResult(t, out)
	if !res.Created || res.BytesChanged != len("hello") {
		t.Fatalf("unexpected result: %+v", res)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "new.txt"))
	if string(data) != "hello" {
		t.Fatalf("unexpected file content: %q", string(data))
	}
}

func TestEditFile_CreateWithParents(t *testing.T) {
	ws, dir := newTestWorkspace(t)
	def := tools.NewEditFileTool(ws)

	in := tools.EditFileInput{Path: "a/b/c.txt", OldStr: "", NewStr: "x"}
	b, _ := json.Marshal(in)
	if _, err := def.Function(b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a", "b")); err != nil {
		t.Fatalf("parent directories not created: %v", err)
	}
}

func TestEditFile_ReplaceOK(t *testing.T) {
	ws, dir := newTestWorkspace(t)
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("abc abc"), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	def := tools.NewEditFileTool(ws)

	in := tools.EditFileInput{Path: "a.txt", OldStr: "abc", NewStr: "XYZ"}
	b, _ := json.Marshal(in)
	out, err := def.Function(b)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	res := editResult(t, out)
	if res.Created || res.Replacements != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "a.txt"))
	if string(data) != "XYZ XYZ" {
		t.Fatalf("unexpected file content: %q", string(data))
	}
}

func TestEditFile_OldNotFound_Error(t *testing.T) {
	ws, dir := newTestWorkspace(t)
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("abc"), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	def := tools.NewEditFileTool(ws)

	in := tools.EditFileInput{Path: "a.txt", OldStr: "nope", NewStr: "x"}
	b, _ := json.Marshal(in)
	_, err := def.Function(b)
	if !sandbox.IsCode(err, sandbox.CodeNoMatch) {
		t.Fatalf("expected ERR_NO_MATCH, got: %v", err)
	}
}

func TestEditFile_InvalidParams_Error(t *testing.T) {
	ws, _ := newTestWorkspace(t)
	def := tools.NewEditFileTool(ws)

	// Case 1: empty path
	{
		in := tools.EditFileInput{Path: "", OldStr: "a", NewStr: "b"}
		b, _ := json.Marshal(in)
		if _, err := def.Function(b); !sandbox.IsCode(err, sandbox.CodeInvalidArgument) {
			t.Fatalf("expected ERR_INVALID_ARGUMENT for empty path, got: %v", err)
		}
	}
	// Case 2: OldStr == NewStr
	{
		in := tools.EditFileInput{Path: "some.txt", OldStr: "x", NewStr: "x"}
		b, _ := json.Marshal(in)
		if _, err := def.Function(b); !sandbox.IsCode(err, sandbox.CodeInvalidArgument) {
			t.Fatalf("expected ERR_INVALID_ARGUMENT when OldStr == NewStr, got: %v", err)
		}
	}
}

func TestEditFile_DenyWriteGit(t *testing.T) {
	ws, dir := newTestWorkspace(t)
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	def := tools.NewEditFileTool(ws)

	in := tools.EditFileInput{Path: ".git/HEAD", OldStr: "", NewStr: "ref: refs/heads/main\n"}
	b, _ := json.Marshal(in)
	_, err := def.Function(b)
	if !sandbox.IsCode(err, sandbox.CodeDeniedWrite) {
		t.Fatalf("expected ERR_DENIED_WRITE, got: %v", err)
	}
}

func TestEditFile_DenyWriteStateDir(t *testing.T) {
	ws, dir := newTestWorkspace(t)
	if err := os.MkdirAll(filepath.Join(dir, sandbox.StateDir), 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	def := tools.NewEditFileTool(ws)

	in := tools.EditFileInput{Path: sandbox.StateDir + "/conversation.json", OldStr: "", NewStr: "{}"}
	b, _ := json.Marshal(in)
	_, err := def.Function(b)
	if !sandbox.IsCode(err, sandbox.CodeDeniedWrite) {
		t.Fatalf("expected ERR_DENIED_WRITE, got: %v", err)
	}
}
