// internal/ui/history.go
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"debatecore/internal/transcript"
)

// ViewMode represents the current view state
type ViewMode int

const (
	ViewNormal ViewMode = iota
	ViewHistory
)

// HistoryEntry is one finished debate from this session
type HistoryEntry struct {
	Presentation transcript.PresentationModel
	At           time.Time
}

// HistoryState holds the debates answered since the view opened, newest first
type HistoryState struct {
	entries   []HistoryEntry
	cursor    int
	scrollTop int
	maxHeight int
}

// NewHistoryState creates a new history state
func NewHistoryState() *HistoryState {
	return &HistoryState{maxHeight: 20}
}

// Add records a finished debate and moves the cursor to it
func (h *HistoryState) Add(p transcript.PresentationModel, at time.Time) {
	h.entries = append([]HistoryEntry{{Presentation: p, At: at}}, h.entries...)
	h.cursor = 0
	h.scrollTop = 0
}

func (h *HistoryState) Len() int {
	return len(h.entries)
}

// Up moves the cursor up
func (h *HistoryState) Up() {
	if h.cursor > 0 {
		h.cursor--
		if h.cursor < h.scrollTop {
			h.scrollTop = h.cursor
		}
	}
}

// Down moves the cursor down
func (h *HistoryState) Down() {
	if h.cursor < len(h.entries)-1 {
		h.cursor++
		if h.cursor >= h.scrollTop+h.maxHeight {
			h.scrollTop = h.cursor - h.maxHeight + 1
		}
	}
}

// Selected returns the entry under the cursor, or nil if there is none
func (h *HistoryState) Selected() *HistoryEntry {
	if h.cursor >= 0 && h.cursor < len(h.entries) {
		return &h.entries[h.cursor]
	}
	return nil
}

// SetMaxHeight updates the max visible height
func (h *HistoryState) SetMaxHeight(height int) {
	h.maxHeight = max(height-10, 5)
}

// Render renders the history browser overlay
func (h *HistoryState) Render(width, height int) string {
	var content strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Render("DEBATE HISTORY")
	content.WriteString(title)
	content.WriteString("\n")
	content.WriteString(DimStyle.Render("Debates answered in this session"))
	content.WriteString("\n\n")

	if len(h.entries) == 0 {
		content.WriteString(DimStyle.Render("No debates yet."))
		content.WriteString("\n\n")
		content.WriteString(DimStyle.Render("Ask a question and it will appear here."))
	} else {
		visibleEnd := min(h.scrollTop+h.maxHeight, len(h.entries))

		header := fmt.Sprintf("  %-5s  %-40s  %-6s  %s", "Time", "Question", "Score", "Sources")
		content.WriteString(DimStyle.Render(header))
		content.WriteString("\n")
		content.WriteString(DimStyle.Render(strings.Repeat("-", 66)))
		content.WriteString("\n")

		for i := h.scrollTop; i < visibleEnd; i++ {
			e := h.entries[i]

			question := strings.Join(strings.Fields(e.Presentation.Query), " ")
			if r := []rune(question); len(r) > 38 {
				question = string(r[:38]) + ".."
			}

			score := "-"
			scoreStyle := DimStyle
			if e.Presentation.Score.Found {
				score = e.Presentation.Score.String()
				scoreStyle = StatusWarn
				if e.Presentation.Score.Passing() {
					scoreStyle = StatusOK
				}
			}

			cursor := "  "
			lineStyle := DimStyle
			if i == h.cursor {
				cursor = "> "
				lineStyle = lipgloss.NewStyle().Foreground(Cyan)
			}

			line := fmt.Sprintf("%-5s  %-40s  ", e.At.Format("15:04"), question)
			content.WriteString(cursor)
			content.WriteString(lineStyle.Render(line))
			content.WriteString(scoreStyle.Width(6).Render(score))
			content.WriteString(lineStyle.Render(fmt.Sprintf("  %d", len(e.Presentation.EvidenceList))))
			content.WriteString("\n")
		}

		if len(h.entries) > h.maxHeight {
			scrollInfo := fmt.Sprintf("Showing %d-%d of %d",
				h.scrollTop+1, visibleEnd, len(h.entries))
			content.WriteString("\n")
			content.WriteString(DimStyle.Render(scrollInfo))
		}
	}

	content.WriteString("\n\n")
	content.WriteString(DimStyle.Render("Up/Down: Navigate | Enter: Show | Esc: Cancel"))

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(1, 2).
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
