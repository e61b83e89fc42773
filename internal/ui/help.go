// internal/ui/help.go
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	helpTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(Cyan).MarginBottom(1)
	helpSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(Yellow).MarginTop(1)
	helpKeyStyle     = lipgloss.NewStyle().Foreground(Green).Bold(true)
	helpCmdStyle     = lipgloss.NewStyle().Foreground(Magenta)
	helpDescStyle    = lipgloss.NewStyle().Foreground(White)
	helpDimStyle     = lipgloss.NewStyle().Foreground(Dim)
)

// HelpContent returns the formatted help overlay content
func HelpContent(width, height int) string {
	var content strings.Builder

	content.WriteString(helpTitleStyle.Render("DEBATECORE HELP") + "\n\n")
	content.WriteString(helpSectionStyle.Render("KEYBINDINGS") + "\n\n")

	keybindings := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send the question to the debate"},
		{"PgUp / PgDn", "Scroll the transcript"},
		{"F1", "Toggle this help overlay"},
		{"F2", "Browse debates from this session"},
		{"Esc", "Close help / dismiss notice"},
		{"Ctrl+C / Ctrl+Q", "Quit"},
	}

	for _, kb := range keybindings {
		key := helpKeyStyle.Width(16).Render(kb.key)
		desc := helpDescStyle.Render(kb.desc)
		content.WriteString("  " + key + "  " + desc + "\n")
	}

	// Slash commands section
	content.WriteString("\n")
	content.WriteString(helpSectionStyle.Render("SLASH COMMANDS"))
	content.WriteString("\n\n")

	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help", "Show this help overlay"},
		{"/upload <path>", "Add a document to the knowledge base"},
		{"/refresh", "Fetch backend status now"},
		{"/clear", "Clear the transcript"},
		{"/export", "Show the transcript as markdown"},
		{"/history", "Browse debates from this session"},
		{"/quit", "Exit"},
	}

	for _, cmd := range commands {
		cmdStr := helpCmdStyle.Width(18).Render(cmd.cmd)
		desc := helpDescStyle.Render(cmd.desc)
		content.WriteString("  " + cmdStr + "  " + desc + "\n")
	}

	// Agent legend
	content.WriteString("\n")
	content.WriteString(helpSectionStyle.Render("AGENTS"))
	content.WriteString("\n\n")

	agents := []struct {
		name  string
		style lipgloss.Style
		desc  string
	}{
		{"Pro", lipgloss.NewStyle().Foreground(ProColor).Bold(true), "Argues for, citing the documents"},
		{"Contra", lipgloss.NewStyle().Foreground(ContraColor).Bold(true), "Argues against, citing the documents"},
		{"Judge", lipgloss.NewStyle().Foreground(JudgeColor).Bold(true), "Scores the exchange out of 10"},
		{"Synthesizer", lipgloss.NewStyle().Foreground(SynthesizerColor).Bold(true), "Writes the final verdict"},
	}

	for _, a := range agents {
		name := a.style.Width(14).Render(a.name)
		desc := helpDescStyle.Render(a.desc)
		content.WriteString("  " + name + "  " + desc + "\n")
	}

	content.WriteString("\n")
	content.WriteString("  " + helpDimStyle.Render("A debate reruns until the judge scores it 6 or higher.") + "\n")

	// Footer
	content.WriteString("\n")
	footer := helpDimStyle.Render("Press F1 or Esc to close this help")
	content.WriteString(lipgloss.PlaceHorizontal(max(width-8, 0), lipgloss.Center, footer))

	// Build the overlay box
	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(1, 3).
		MaxWidth(max(width-10, 20)).
		MaxHeight(max(height-4, 10))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlayStyle.Render(content.String()),
	)
}

// renderHelp renders the help overlay (called from view.go)
func (m Model) renderHelp() string {
	return HelpContent(m.width, m.height)
}
