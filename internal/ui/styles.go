// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"debatecore/internal/models"
)

var (
	// Colors
	Cyan     = lipgloss.Color("#00FFFF")
	Green    = lipgloss.Color("#00FF00")
	Yellow   = lipgloss.Color("#FFD700")
	Orange   = lipgloss.Color("#FFA500")
	Red      = lipgloss.Color("#FF6B6B")
	Magenta  = lipgloss.Color("#FF00FF")
	SkyBlue  = lipgloss.Color("#87CEEB")
	Dim      = lipgloss.Color("#555555")
	White    = lipgloss.Color("#FFFFFF")
	DarkGray = lipgloss.Color("#333333")

	// Agent colors
	ProColor         = Green
	ContraColor      = Red
	JudgeColor       = Yellow
	SynthesizerColor = Cyan
	UserColor        = SkyBlue

	// Box styles
	ActiveBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Cyan)

	InactiveBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Dim)

	ErrorBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Foreground(Red).
			Padding(0, 1)

	VerdictBox = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(SynthesizerColor).
			Padding(0, 1)

	// Text styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan)

	UserStyle = lipgloss.NewStyle().
			Foreground(SkyBlue).
			Bold(true)

	SystemStyle = lipgloss.NewStyle().
			Foreground(Yellow)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(Dim)

	// Status indicators
	StatusOK   = lipgloss.NewStyle().Foreground(Green).Bold(true)
	StatusWarn = lipgloss.NewStyle().Foreground(Orange).Bold(true)
	StatusCrit = lipgloss.NewStyle().Foreground(Red).Bold(true)
)

// AgentStyle returns the header style for a debate role
func AgentStyle(kind models.AgentKind) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(AgentColor(kind)).Bold(true)
}

// AgentColor returns the color for a debate role
func AgentColor(kind models.AgentKind) lipgloss.Color {
	switch kind {
	case models.AgentPro:
		return ProColor
	case models.AgentContra:
		return ContraColor
	case models.AgentJudge:
		return JudgeColor
	case models.AgentSynthesizer:
		return SynthesizerColor
	default:
		return White
	}
}
