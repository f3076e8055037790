package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmath/internal/ui/theme"
)

// ChoiceList renders the four answer choices of a card. Cursor is the
// highlighted row; Selected is the committed choice, if any. Once Revealed,
// the correct choice turns green and a wrong selection red.
type ChoiceList struct {
	Choices  []int
	Correct  int
	Cursor   int
	Selected int
	Chosen   bool
	Revealed bool
}

// View renders the choices.
func (c ChoiceList) View() string {
	var b strings.Builder
	for i, v := range c.Choices {
		marker := "  "
		if i == c.Cursor && !c.Revealed {
			marker = "▸ "
		}
		check := "( )"
		if c.Chosen && v == c.Selected {
			check = "(•)"
		}
		line := fmt.Sprintf("%s%d. %s %d", marker, i+1, check, v)

		style := theme.Unselected
		switch {
		case c.Revealed && v == c.Correct:
			style = theme.Correct
		case c.Revealed && c.Chosen && v == c.Selected:
			style = theme.Incorrect
		case c.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == c.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		if i < len(c.Choices)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
