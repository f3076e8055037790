package components

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/common-nighthawk/go-figure"

	"github.com/abhisek/flashmath/internal/ui/theme"
)

// CelebrationText is the phrase shown after a correct, self-confirmed answer.
const CelebrationText = "Great job!"

// Celebration renders CelebrationText as ASCII art sized for width. When
// the figure is wider than the space available a plain banner is used.
func Celebration(width int) string {
	art := strings.TrimRight(figure.NewFigure(CelebrationText, "", true).String(), "\n")
	if widest(art) > width {
		return theme.Celebration.Render("★ " + CelebrationText + " ★")
	}
	return theme.Celebration.Render(art)
}

// Banner renders text as large ASCII art, or plain text when it won't fit.
func Banner(text string, width int) string {
	art := strings.TrimRight(figure.NewFigure(text, "", true).String(), "\n")
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if widest(art) > width {
		return style.Render(strings.Join(strings.Split(strings.ToUpper(text), ""), " "))
	}
	return style.Render(art)
}

func widest(s string) int {
	w := 0
	for _, line := range strings.Split(s, "\n") {
		w = max(w, lipgloss.Width(line))
	}
	return w
}
