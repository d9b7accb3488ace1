package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/oakmund/deskagent/internal/sandbox"
)

func TestUser_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DESKAGENT_HOME", dir)

	cfg := User{AnthropicAPIKey: "sk-test", Model: "claude-3-7-sonnet-latest"}
	if err := SaveUser(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadUser()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != cfg {
		t.Fatalf("round trip mismatch: got %+v want %+v", loaded, cfg)
	}

	path, err := UserPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != filepath.Join(dir, "config.json") {
		t.Fatalf("path mismatch: got %q", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected owner-only perms, got %v", info.Mode().Perm())
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("json: %v", err)
	}
	if raw["anthropic_api_key"] != cfg.AnthropicAPIKey {
		t.Fatal("json api key mismatch")
	}
}

func TestUser_LoadMissing_ReturnsZero(t *testing.T) {
	t.Setenv("DESKAGENT_HOME", t.TempDir())

	cfg, err := LoadUser()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg != (User{}) {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func writeProjectConfig(t *testing.T, root, body string) {
	t.Helper()
	dir := filepath.Join(root, sandbox.StateDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestProject_LoadFull(t *testing.T) {
	root := t.TempDir()
	writeProjectConfig(t, root, "model: claude-3-7-sonnet-latest\ndeny:\n  - secrets\n  - vendor\nread_limit: 50\n")

	cfg, err := LoadProject(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != "claude-3-7-sonnet-latest" {
		t.Errorf("model: got %q", cfg.Model)
	}
	if len(cfg.Deny) != 2 || cfg.Deny[0] != "secrets" || cfg.Deny[1] != "vendor" {
		t.Errorf("deny: got %v", cfg.Deny)
	}
	if cfg.ReadLimit != 50 {
		t.Errorf("read_limit: got %d", cfg.ReadLimit)
	}
}

func TestProject_LoadMissing_ReturnsZero(t *testing.T) {
	cfg, err := LoadProject(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Model != "" || cfg.Deny != nil || cfg.ReadLimit != 0 {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestProject_UnknownKeyRejected(t *testing.T) {
	root := t.TempDir()
	writeProjectConfig(t, root, "modle: oops\n")

	if _, err := LoadProject(root); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestProject_NegativeReadLimitRejected(t *testing.T) {
	root := t.TempDir()
	writeProjectConfig(t, root, "read_limit: -3\n")

	if _, err := LoadProject(root); err == nil {
		t.Fatal("expected error for negative read_limit")
	}
}
