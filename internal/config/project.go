package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/oakmund/deskagent/internal/sandbox"
)

// Project holds per-sandbox settings read from <root>/.deskagent/config.yaml.
// All fields are optional; the zero value means "use defaults".
type Project struct {
	// Model overrides the default model for this sandbox root.
	Model string `yaml:"model,omitempty"`
	// Deny lists extra top-level path prefixes hidden from the file tools,
	// in addition to the built-in ones.
	Deny []string `yaml:"deny,omitempty"`
	// ReadLimit overrides the default number of lines returned per
	// read_file call before the model must paginate.
	ReadLimit int `yaml:"read_limit,omitempty"`
}

// ProjectPath returns the project config location under root's state dir.
func ProjectPath(root string) string {
	return filepath.Join(root, sandbox.StateDir, "config.yaml")
}

// LoadProject reads the project config for root. A missing file yields the
// zero value. Unknown keys are rejected so typos surface instead of being
// silently ignored.
func LoadProject(root string) (Project, error) {
	b, err := os.ReadFile(ProjectPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return Project{}, nil
		}
		return Project{}, err
	}
	var cfg Project
	if err := yaml.UnmarshalWithOptions(b, &cfg, yaml.Strict()); err != nil {
		return Project{}, fmt.Errorf("parse %s: %w", ProjectPath(root), err)
	}
	if cfg.ReadLimit < 0 {
		return Project{}, fmt.Errorf("%s: read_limit must be positive", ProjectPath(root))
	}
	return cfg, nil
}
