package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmath/internal/ui/theme"
)

var (
	buttonActive = lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(theme.Text).
			Bold(true).
			Padding(0, 2)

	buttonInactive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 2)
)

// Button renders a labelled button, highlighted when focused.
func Button(label string, focused bool) string {
	if focused {
		return buttonActive.Render("▸ " + label)
	}
	return buttonInactive.Render(label)
}
