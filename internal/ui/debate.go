// internal/ui/debate.go
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"debatecore/internal/models"
	"debatecore/internal/transcript"
)

// RenderTranscript renders a presentation model for the transcript pane
func RenderTranscript(m transcript.PresentationModel, width int) string {
	if width < 20 {
		width = 20
	}
	var sb strings.Builder

	if q := strings.TrimSpace(m.Query); q != "" {
		sb.WriteString(UserStyle.Render("You:"))
		sb.WriteString("\n")
		sb.WriteString(indent(wrap(q, width-2)))
		sb.WriteString("\n\n")
	}

	for _, r := range m.RoundViews {
		if r.IsVerdict {
			sb.WriteString(renderVerdict(r, width))
			sb.WriteString("\n\n")
			continue
		}

		header := AgentStyle(r.Agent).Render(r.AgentLabel + ":")
		if r.Agent == models.AgentJudge {
			if s := transcript.ParseScore(r.BodyText); s.Found {
				header += " " + scoreBadge(s)
			}
		}
		sb.WriteString(header)
		sb.WriteString("\n")
		sb.WriteString(indent(wrap(r.BodyText, width-2)))
		sb.WriteString("\n\n")
	}

	if len(m.EvidenceList) > 0 {
		sb.WriteString(TitleStyle.Render("Evidence"))
		sb.WriteString("\n")
		for _, src := range m.EvidenceList {
			sb.WriteString("  • ")
			sb.WriteString(src)
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderVerdict(r transcript.RoundView, width int) string {
	header := AgentStyle(r.Agent).Render("★ " + r.AgentLabel)
	body := wrap(strings.TrimSpace(r.BodyText), width-6)
	return VerdictBox.Width(width - 2).Render(header + "\n" + body)
}

func scoreBadge(s transcript.JudgeScore) string {
	style := StatusCrit
	if s.Passing() {
		style = StatusOK
	}
	return style.Render(fmt.Sprintf("[%s]", s))
}

// wrap word-wraps text to width
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
