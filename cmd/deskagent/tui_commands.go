package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/oakmund/deskagent/internal/workspace"
)

// command is a parsed ":" line.
type command struct {
	name string
	args []string
}

func parseCommand(line string) (command, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		return command{}, false
	}
	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return command{}, false
	}
	return command{name: strings.ToLower(fields[0]), args: fields[1:]}, true
}

// runCommand executes a ":" command against the workspace directly. File
// contents and listings shown here never enter the model conversation.
func runCommand(m *tuiModel, line string) {
	cmd, ok := parseCommand(line)
	if !ok {
		m.appendError("empty command; try :help")
		return
	}
	switch cmd.name {
	case "open":
		if len(cmd.args) != 1 {
			m.appendError("usage: :open <path>")
			return
		}
		content, err := m.app.ws.Read(cmd.args[0])
		if err != nil {
			m.appendError(err.Error())
			return
		}
		m.appendAction("OPEN: " + cmd.args[0])
		m.appendAssistant(fencedForDisplay(cmd.args[0], content))
	case "ls":
		path := "."
		recursive := false
		for _, a := range cmd.args {
			if a == "-r" {
				recursive = true
				continue
			}
			path = a
		}
		entries, err := m.app.ws.List(path, recursive)
		if err != nil {
			m.appendError(err.Error())
			return
		}
		m.appendAction("LS: " + path)
		m.appendAssistant(formatListing(entries))
	case "new":
		m.conv = nil
		m.persisted = nil
		if err := os.Remove(m.app.persistPath); err != nil && !os.IsNotExist(err) {
			m.appendError("clear conversation: " + err.Error())
			return
		}
		m.history = nil
		m.appendAction("NEW: conversation cleared")
	case "help":
		for _, line := range helpLines() {
			m.appendAction(line)
		}
	default:
		m.appendError("unknown command :" + cmd.name + "; try :help")
	}
}

func helpLines() []string {
	return []string{
		":open <path>   show a file without asking the model",
		":ls [path] [-r]   list files, -r for recursive",
		":new   clear the conversation and its saved transcript",
		":help   this list",
	}
}

// fencedForDisplay wraps file content in a code fence so the markdown
// renderer shows it verbatim.
func fencedForDisplay(path, content string) string {
	fence := "```"
	for strings.Contains(content, fence) {
		fence += "`"
	}
	return fence + "\n" + content + "\n" + fence + "\n" + path
}

func formatListing(entries []workspace.Entry) string {
	if len(entries) == 0 {
		return "(empty)"
	}
	var b strings.Builder
	for _, e := range entries {
		if e.IsDir {
			fmt.Fprintf(&b, "%s/\n", e.Name)
		} else {
			fmt.Fprintf(&b, "%s\n", e.Name)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
