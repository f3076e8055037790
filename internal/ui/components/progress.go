package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmath/internal/ui/theme"
)

// ProgressBar displays "Question N of M" with a horizontal bar.
type ProgressBar struct {
	Current int
	Total   int
	Width   int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(current, total, width int) ProgressBar {
	return ProgressBar{Current: current, Total: total, Width: width}
}

// Label returns the text shown beside the bar.
func (p ProgressBar) Label() string {
	return fmt.Sprintf("Question %d of %d", p.Current, p.Total)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label()) + "  "

	barWidth := p.Width - lipgloss.Width(label)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := 0
	if p.Total > 0 {
		filled = barWidth * p.Current / p.Total
	}
	filled = max(0, min(filled, barWidth))

	return label +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
}
