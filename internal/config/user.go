package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// User holds per-user settings stored outside any sandbox root.
type User struct {
	AnthropicAPIKey string `json:"anthropic_api_key"`
	Model           string `json:"model,omitempty"`
}

// LoadUser reads the user config file. A missing file is not an error; the
// zero value is returned so callers can fall through to prompting.
func LoadUser() (User, error) {
	path, err := UserPath()
	if err != nil {
		return User{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return User{}, nil
		}
		return User{}, err
	}
	var cfg User
	if err := json.Unmarshal(b, &cfg); err != nil {
		return User{}, err
	}
	return cfg, nil
}

// SaveUser writes cfg with owner-only permissions since it carries a
// credential.
func SaveUser(cfg User) error {
	path, err := UserPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// UserPath returns the user config location. DESKAGENT_HOME overrides the
// default ~/.deskagent directory.
func UserPath() (string, error) {
	if v := strings.TrimSpace(os.Getenv("DESKAGENT_HOME")); v != "" {
		return filepath.Join(v, "config.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".deskagent", "config.json"), nil
}
