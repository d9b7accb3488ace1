package main

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

func (m tuiModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("deskagent · " + m.app.root)
	statusBar := renderStatusBar(m)
	inputBox := lipgloss.NewStyle().Width(m.width).Render(m.input.View())

	var b strings.Builder
	b.WriteString(header + "\n\n")
	b.WriteString(m.viewport.View() + "\n\n")
	b.WriteString(renderDivider(m.width) + "\n")
	b.WriteString(inputBox + "\n\n")
	b.WriteString(statusBar)
	return b.String()
}

func renderStatusBar(m tuiModel) string {
	activity := m.status
	if strings.TrimSpace(activity) == "" {
		activity = "Ready"
	}
	full := activity + " | " + string(m.app.model) + " | Ctrl-C to quit"
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(colorSecondary))
	if activity != "Ready" {
		style = style.Bold(true)
	}
	return style.Render(full)
}

func (m *tuiModel) refreshViewport() {
	var b strings.Builder
	first := true
	for _, h := range m.history {
		if !first {
			b.WriteString("\n\n")
		}
		first = false
		b.WriteString(renderHistoryLine(h, m.viewport.Width, m.mdRenderer))
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func renderHistoryLine(h historyEntry, viewportWidth int, md *glamour.TermRenderer) string {
	w := viewportWidth
	if w <= 0 {
		w = 80
	}
	contentWidth := int(float64(w) * 0.8)
	if contentWidth < 20 {
		contentWidth = w
	}
	bubble := lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Left)
	line := lipgloss.NewStyle().Width(w).Align(lipgloss.Left)

	switch h.kind {
	case "user":
		secondary := lipgloss.NewStyle().Foreground(lipgloss.Color(colorSecondary))
		return line.Render(secondary.Render(bubble.Render("> " + h.text)))
	case "action":
		secondary := lipgloss.NewStyle().Foreground(lipgloss.Color(colorSecondary))
		return line.Render(secondary.Render(bubble.Render(h.text)))
	case "error":
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorError)).Bold(true)
		return line.Render(errStyle.Render(bubble.Render("Error: " + h.text)))
	default:
		return line.Render(bubble.Render(renderMarkdown(h.text, md)))
	}
}

func renderMarkdown(text string, r *glamour.TermRenderer) string {
	if strings.TrimSpace(text) == "" || r == nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func renderDivider(width int) string {
	if width <= 0 {
		width = 80
	}
	return strings.Repeat("─", width)
}
