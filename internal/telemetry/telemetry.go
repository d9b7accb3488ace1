// Package telemetry emits optional JSONL events describing agent activity.
// Emission is off unless DESKAGENT_OBSERVE_JSON=1; events land in
// .deskagent/events.jsonl under the sandbox root (see SetRoot), defaulting
// to the process working directory.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oakmund/deskagent/internal/sandbox"
)

// isObserveEnabled checks if JSONL emission is enabled.
func isObserveEnabled() bool {
	return os.Getenv("DESKAGENT_OBSERVE_JSON") == "1"
}

// eventsDir is where events.jsonl lands. Defaults to the state dir under the
// process working directory; SetRoot repoints it at the sandbox root.
var eventsDir = sandbox.StateDir

// SetRoot anchors telemetry under root's state directory, keeping events
// next to the rest of the agent's state when the root is not the cwd.
// Call it during startup, before the first Emit.
func SetRoot(root string) {
	eventsDir = filepath.Join(root, sandbox.StateDir)
}

// Emit writes a single JSON line to the events log when observation is on.
// It augments fields with RFC3339Nano time and the event name.
func Emit(name string, fields map[string]any) {
	if !isObserveEnabled() {
		return
	}

	// Make a shallow copy so callers' maps aren't mutated.
	m := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		m[k] = v
	}
	m["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["event"] = name

	b, err := json.Marshal(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: marshal: %v\n", err)
		return
	}

	dir := eventsDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", dir, err)
		return
	}

	path := filepath.Join(dir, "events.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: open %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", path, err)
		return
	}
}
