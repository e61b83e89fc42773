// internal/export/markdown.go
package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"debatecore/internal/transcript"
)

// NoTTYStyle renders markdown without colors
const NoTTYStyle = "notty"

// Markdown generates a formatted markdown document from a transcript
func Markdown(m transcript.PresentationModel) string {
	var sb strings.Builder

	// Title header
	title := strings.TrimSpace(m.Query)
	if title == "" {
		title = "Debate"
	}
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")

	if m.Score.Found {
		sb.WriteString(fmt.Sprintf("**Judge score:** %s\n\n", m.Score))
	}

	if m.Verdict.Structured || m.Verdict.DirectAnswer != "" {
		sb.WriteString("## Answer\n\n")
		sb.WriteString(m.Verdict.DirectAnswer)
		sb.WriteString("\n\n")
		if m.Verdict.Breakdown != "" {
			sb.WriteString(m.Verdict.Breakdown)
			sb.WriteString("\n\n")
		}
		if m.Verdict.Context != "" {
			sb.WriteString("*")
			sb.WriteString(strings.ReplaceAll(m.Verdict.Context, "\n", " "))
			sb.WriteString("*\n\n")
		}
	}

	sb.WriteString("---\n\n")

	// Transcript section
	sb.WriteString("## Transcript\n\n")
	for i, r := range m.RoundViews {
		if r.IsVerdict {
			sb.WriteString(fmt.Sprintf("### %s (verdict)\n\n", r.AgentLabel))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", r.AgentLabel))
		}

		content := strings.TrimSpace(r.BodyText)
		if containsCodeBlock(content) {
			// Content already has code blocks, render as-is
			sb.WriteString(content)
			sb.WriteString("\n")
		} else {
			for _, line := range strings.Split(content, "\n") {
				sb.WriteString("> ")
				sb.WriteString(line)
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")

		if i < len(m.RoundViews)-1 {
			sb.WriteString("---\n\n")
		}
	}

	if len(m.EvidenceList) > 0 {
		sb.WriteString("## Evidence\n\n")
		for _, src := range m.EvidenceList {
			sb.WriteString(fmt.Sprintf("- `%s`\n", src))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// PlainText renders a transcript without markup, for pipes and logs
func PlainText(m transcript.PresentationModel) string {
	var sb strings.Builder

	if q := strings.TrimSpace(m.Query); q != "" {
		sb.WriteString("Q: ")
		sb.WriteString(q)
		sb.WriteString("\n\n")
	}

	for _, r := range m.RoundViews {
		label := r.AgentLabel
		if r.IsVerdict {
			label += " [verdict]"
		}
		sb.WriteString(fmt.Sprintf("[%s]\n", label))
		sb.WriteString(strings.TrimSpace(r.BodyText))
		sb.WriteString("\n\n")
	}

	if m.Score.Found {
		sb.WriteString(fmt.Sprintf("Judge score: %s\n", m.Score))
	}
	if len(m.EvidenceList) > 0 {
		sb.WriteString("Evidence: ")
		sb.WriteString(strings.Join(m.EvidenceList, ", "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// Render styles markdown for a terminal. An empty style picks one from
// the terminal background.
func Render(markdown string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// containsCodeBlock checks if content already has markdown code blocks
func containsCodeBlock(content string) bool {
	return strings.Contains(content, "```")
}
