// Package layout renders the frame around every screen and the terminal
// size checks.
package layout

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmath/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20

	CompactWidthThreshold  = 90
	CompactHeightThreshold = 28
)

const appName = "FlashMath"

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Hints converts enabled key bindings to footer hints.
func Hints(bindings ...key.Binding) []KeyHint {
	hints := make([]KeyHint, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		hints = append(hints, KeyHint{Key: h.Key, Description: h.Desc})
	}
	return hints
}

// IsCompactWidth reports whether the footer should drop hint descriptions.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsCompactHeight reports whether decorative rows should be skipped.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the learner to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("The window is too small for %s.\n\nMake it at least %d × %d.\nIt is %d × %d now.",
		appName, MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// RenderHeader shows the app name on the left, the screen title in the
// middle and status, such as the question counter, on the right.
func RenderHeader(title, status string, width int) string {
	inner := max(width-4, 0)
	third := inner / 3

	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
		Width(third).Align(lipgloss.Left).Render(" " + appName)
	mid := lipgloss.NewStyle().Foreground(theme.Text).
		Width(inner - 2*third).Align(lipgloss.Center).Render(title)
	right := lipgloss.NewStyle().Foreground(theme.Accent).
		Width(third).Align(lipgloss.Right).Render(status + " ")

	return bar.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, name, mid, right))
}

// RenderFooter lists key hints. Narrow terminals get the keys only.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	compact := IsCompactWidth(width)

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		if compact {
			parts = append(parts, keyStyle.Render(h.Key))
			continue
		}
		parts = append(parts, keyStyle.Render(h.Key)+" "+descStyle.Render(h.Description))
	}

	sep := "   "
	if compact {
		sep = " · "
	}
	return bar.Width(width).Render(" " + strings.Join(parts, sep))
}

// RenderFrame stacks header, content and footer, sizing the content to
// the rows left between them.
func RenderFrame(header, content, footer string, width, height int) string {
	rows := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rows).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Centered places s in the middle of a width-wide line.
func Centered(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
