package memory

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/oakmund/deskagent/internal/sandbox"
)

// Message is a minimal persisted view of a chat turn.
// Only text survives a restart. Tool blocks are transient.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text,omitempty"`
}

// DefaultPath returns the conversation file location under the sandbox
// root's state directory.
func DefaultPath(root string) string {
	return filepath.Join(root, sandbox.StateDir, "conversation.json")
}

func LoadConversation(path string) ([]Message, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SaveConversation writes msgs to path, creating the parent directory as
// needed so a fresh sandbox root works without setup.
func SaveConversation(path string, msgs []Message) error {
	b, err := json.MarshalIndent(msgs, "", " ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
