package components

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/ui/theme"
)

// Flashcard renders one side of a question card. The front shows the
// prompt; the back shows the worked answer and whether the chosen value
// matched it.
func Flashcard(q problemgen.Question, selected int, flipped bool, width int) string {
	w := min(max(width-8, 24), 44)

	if !flipped {
		return theme.CardFront.Width(w).Render(theme.Prompt.Render(q.Prompt()))
	}

	solved := strings.TrimSuffix(q.Prompt(), "?") + strconv.Itoa(q.CorrectAnswer)
	verdict := theme.Correct.Render(fmt.Sprintf("✓ You chose %d", selected))
	if selected != q.CorrectAnswer {
		verdict = theme.Incorrect.Render(fmt.Sprintf("✗ You chose %d", selected))
	}
	return theme.CardBack.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center,
		theme.Prompt.Render(solved), "", verdict))
}
