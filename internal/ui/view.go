// internal/ui/view.go
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"debatecore/internal/lifecycle"
)

// Fixed rows around the transcript viewport
const (
	headerHeight   = 2
	inputHeight    = 3
	footerHeight   = 2
	errorBoxHeight = 3
)

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.mode == ViewHistory {
		return m.history.Render(m.width, m.height)
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.viewport.View())
	if box := m.renderQueryState(); box != "" {
		sections = append(sections, box)
	}
	sections = append(sections, m.renderInput())
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render("DEBATECORE")
	if m.baseURL != "" {
		title += " " + DimStyle.Render(m.baseURL)
	}

	var status string
	switch {
	case !m.haveStatus:
		status = DimStyle.Render("○ connecting to backend…")
	case m.status.IndexReady:
		status = StatusOK.Render("● index ready") +
			DimStyle.Render(fmt.Sprintf(" · %d chunks · %d files", m.status.ChunkCount, len(m.status.FilesIndexed)))
		if files := fileList(m.status.FilesIndexed, m.width-40); files != "" {
			status += DimStyle.Render(" · " + files)
		}
	default:
		status = StatusWarn.Render("○ index not ready") + DimStyle.Render(" · upload a document to begin")
	}

	return title + "\n" + status
}

// renderQueryState shows the prominent box for an in-flight or failed query
func (m Model) renderQueryState() string {
	width := max(m.width-2, 10)
	switch m.query.Phase {
	case lifecycle.InFlight:
		return InactiveBox.Width(width).Render(m.spinner.View() + " Agents are debating…")
	case lifecycle.Failed:
		return ErrorBox.Width(width).Render("✗ " + m.query.Message)
	}
	return ""
}

func (m Model) renderInput() string {
	box := ActiveBox
	if m.query.Phase == lifecycle.InFlight {
		box = InactiveBox
	}
	return box.Width(max(m.width-2, 10)).Render(m.input.View())
}

func (m Model) renderFooter() string {
	var upload string
	switch m.upload.Phase {
	case lifecycle.InFlight:
		upload = m.spinner.View() + " uploading " + m.uploadPending + "…"
	case lifecycle.Succeeded:
		msg := m.upload.Payload.Message
		if msg == "" {
			msg = "uploaded"
		}
		upload = StatusOK.Render("✓ "+m.uploadName) + DimStyle.Render(" "+msg)
	case lifecycle.Failed:
		upload = StatusCrit.Render("✗ upload failed") + DimStyle.Render(" "+m.upload.Message)
	}

	line := upload
	if m.notice != "" {
		if line != "" {
			line += DimStyle.Render("  │  ")
		}
		line += SystemStyle.Render(m.notice)
	}

	hints := DimStyle.Render("enter send · /upload <path> · /export · F1 help · ctrl+c quit")
	return line + "\n" + hints
}

// fileList joins indexed file names, truncated to width
func fileList(files []string, width int) string {
	if len(files) == 0 || width < 10 {
		return ""
	}
	return ansi.Truncate(strings.Join(files, ", "), width, "…")
}
