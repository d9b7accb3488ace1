package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/oakmund/deskagent/memory"
)

const (
	colorPrimary   = "252"
	colorSecondary = "244"
	colorError     = "203"
)

// turnMsg carries the outcome of one full assistant turn back into Update.
type turnMsg struct {
	text      string
	conv      []anthropic.MessageParam
	persisted []memory.Message
	err       error
}

type historyEntry struct {
	text string
	kind string // "user", "assistant", "action", "error"
}

type tuiModel struct {
	app        *app
	input      textinput.Model
	viewport   viewport.Model
	history    []historyEntry
	conv       []anthropic.MessageParam
	persisted  []memory.Message
	running    bool
	status     string
	lastPrompt string
	width      int
	height     int
	mdRenderer *glamour.TermRenderer
	mdWidth    int
}

func runTUI(a *app) {
	m := newTUIModel(a)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("TUI error:", err)
	}
}

func newTUIModel(a *app) tuiModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about the files here, or :help"
	ti.Focus()
	ti.CharLimit = 1000
	ti.Width = 80
	vp := viewport.New(80, 10)

	m := tuiModel{
		app:      a,
		input:    ti,
		viewport: vp,
		status:   "Ready",
	}

	persisted, err := memory.LoadConversation(a.persistPath)
	if err != nil {
		m.appendError("load conversation: " + err.Error())
	}
	m.persisted = persisted
	for _, pm := range persisted {
		if pm.Role == "user" {
			m.conv = append(m.conv, anthropic.NewUserMessage(anthropic.NewTextBlock(pm.Text)))
			m.appendUser(pm.Text)
		} else {
			m.conv = append(m.conv, anthropic.NewAssistantMessage(anthropic.NewTextBlock(pm.Text)))
			m.appendAssistant(pm.Text)
		}
	}

	m.updateMarkdownRenderer()
	m.refreshViewport()
	return m
}

func (m tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = clamp(m.width-4, 40, 120)
		m.viewport.Width = m.width
		m.viewport.Height = clamp(m.height-6, 6, 40)
		m.updateMarkdownRenderer()
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if !m.running && m.lastPrompt != "" {
				m.input.SetValue(m.lastPrompt)
				m.input.CursorEnd()
			}
			return m, nil
		case tea.KeyEnter:
			if m.running {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.SetValue("")
			return m.submit(line)
		}

	case turnMsg:
		m.running = false
		m.status = "Ready"
		if msg.conv != nil {
			m.conv = msg.conv
			m.persisted = msg.persisted
		}
		m.appendAssistant(msg.text)
		if msg.err != nil {
			m.appendError(msg.err.Error())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.viewport, _ = m.viewport.Update(msg)
	return m, cmd
}

// submit routes a line: ":" commands hit the workspace directly, everything
// else becomes a chat prompt for the model.
func (m tuiModel) submit(line string) (tea.Model, tea.Cmd) {
	if strings.HasPrefix(line, ":") {
		runCommand(&m, line)
		return m, nil
	}

	m.appendUser(line)
	m.lastPrompt = line
	m.running = true
	m.status = "Thinking..."
	m.conv = append(m.conv, anthropic.NewUserMessage(anthropic.NewTextBlock(line)))
	return m, startTurn(m.app, line, m.conv, m.persisted)
}

// startTurn runs one full assistant turn off the UI goroutine and persists
// the text transcript before reporting back.
func startTurn(a *app, prompt string, conv []anthropic.MessageParam, persisted []memory.Message) tea.Cmd {
	return func() tea.Msg {
		text, newConv, err := runTurn(context.Background(), a, conv)
		if err != nil {
			return turnMsg{err: err}
		}
		persisted = append(persisted, memory.Message{Role: "user", Text: prompt})
		if strings.TrimSpace(text) != "" {
			persisted = append(persisted, memory.Message{Role: "assistant", Text: text})
		}
		if err := memory.SaveConversation(a.persistPath, persisted); err != nil {
			return turnMsg{text: text, conv: newConv, persisted: persisted,
				err: fmt.Errorf("save conversation: %w", err)}
		}
		return turnMsg{text: text, conv: newConv, persisted: persisted}
	}
}

func (m *tuiModel) appendUser(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	m.history = append(m.history, historyEntry{text: text, kind: "user"})
	m.refreshViewport()
}

func (m *tuiModel) appendAssistant(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	m.history = append(m.history, historyEntry{text: text, kind: "assistant"})
	m.refreshViewport()
}

func (m *tuiModel) appendAction(text string) {
	m.history = append(m.history, historyEntry{text: text, kind: "action"})
	m.refreshViewport()
}

func (m *tuiModel) appendError(text string) {
	m.history = append(m.history, historyEntry{text: text, kind: "error"})
	m.refreshViewport()
}

func (m *tuiModel) updateMarkdownRenderer() {
	contentWidth := int(float64(m.viewport.Width) * 0.8)
	if contentWidth < 20 {
		contentWidth = m.viewport.Width
	}
	if contentWidth <= 0 {
		contentWidth = 80
	}
	if m.mdRenderer != nil && m.mdWidth == contentWidth {
		return
	}
	m.mdWidth = contentWidth
	m.mdRenderer = newMarkdownRenderer(contentWidth)
}

func newMarkdownRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("ascii"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
