package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/crm-planner/internal/theme"
)

// Layout manages the terminal frame dimensions: a one-line header, the
// content area, and a one-line status bar.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content
// area, after the header and status bar lines.
func (l Layout) ContentHeight() int {
	return l.Height - 2
}

// RenderHeader renders the header line: application title and active
// view on the left, reload status on the right.
func (l Layout) RenderHeader(title, view, status string) string {
	left := theme.HeaderStyle.Render(title + " · " + view)
	right := theme.HeaderStyle.Align(lipgloss.Right).Render(status)
	return l.spread(left, right, theme.HeaderStyle)
}

// RenderStatusBar renders the bottom line: keyboard hints on the left,
// a task counter on the right.
func (l Layout) RenderStatusBar(hints, counter string) string {
	left := theme.StatusBarStyle.Render(hints)
	right := theme.StatusBarStyle.Align(lipgloss.Right).Render(counter)
	return l.spread(left, right, theme.StatusBarStyle)
}

// Frame joins header, content, and status bar into the full view.
func (l Layout) Frame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// spread joins two rendered segments with a filler carrying the bar's
// background so the line spans the full width.
func (l Layout) spread(left, right string, bar lipgloss.Style) string {
	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	filler := bar.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(bar.GetBackground()).
			Render(""),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}
