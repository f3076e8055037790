package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmath/internal/ui/theme"
)

// ConfirmDialog renders a yes/no question in a bordered box.
func ConfirmDialog(message string, width int) string {
	w := min(width-8, 64)
	body := lipgloss.NewStyle().Width(w).Foreground(theme.Text).Render(message)
	keys := lipgloss.NewStyle().Foreground(theme.TextDim).Render("[Y] Yes    [N] No")
	return theme.Dialog.Render(lipgloss.JoinVertical(lipgloss.Center, body, "", keys))
}

// AlertLine renders an inline validation notice.
func AlertLine(message string) string {
	if message == "" {
		return ""
	}
	return theme.Alert.Render("! " + message)
}
