package summary

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/router"
	"github.com/abhisek/flashmath/internal/screen"
	"github.com/abhisek/flashmath/internal/session"
	"github.com/abhisek/flashmath/internal/ui/components"
	"github.com/abhisek/flashmath/internal/ui/layout"
	"github.com/abhisek/flashmath/internal/ui/theme"
)

// SummaryScreen displays the results of a finished session.
type SummaryScreen struct {
	summary *session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if key.Matches(kmsg, components.Keys.Choose, components.Keys.Back) {
			return s, router.Pop
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(layout.Centered(width, theme.Title.Render("Session Complete!")))
	b.WriteString("\n\n")

	ops := make([]string, len(sum.Operations))
	for i, op := range sum.Operations {
		ops[i] = op.Symbol()
	}
	b.WriteString(layout.Centered(width, theme.Subtitle.Render(
		fmt.Sprintf("Ages %s   %s", sum.Level, strings.Join(ops, " ")))))
	b.WriteString("\n\n")

	st := sum.Stats
	statsLine := theme.Correct.Render(fmt.Sprintf("Correct: %d", st.Correct)) + "      " +
		theme.Incorrect.Render(fmt.Sprintf("Incorrect: %d", st.Incorrect)) + "      " +
		theme.Body.Render(fmt.Sprintf("Accuracy: %d%%", st.Accuracy))
	b.WriteString(layout.Centered(width, statsLine))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 48)))
	b.WriteString(layout.Centered(width, divider))
	b.WriteString("\n")

	var rows []string
	for i, r := range sum.Results {
		rows = append(rows, resultLine(i, r))
	}
	b.WriteString(layout.Centered(width, strings.Join(rows, "\n")))

	return b.String()
}

func resultLine(i int, r session.QuestionResult) string {
	q := r.Question
	solved := strings.TrimSuffix(q.Prompt(), "?") + fmt.Sprint(q.CorrectAnswer)
	line := fmt.Sprintf("%2d. %-22s", i+1, solved)

	switch {
	case r.Answer == nil:
		return theme.Hint.Render(line + "  not answered")
	case r.Answer.IsCorrect:
		return theme.Correct.Render(line + "  ✓")
	default:
		return theme.Incorrect.Render(fmt.Sprintf("%s  ✗ you chose %d", line, r.Answer.SelectedAnswer))
	}
}

// Missed returns the questions answered wrongly, in session order.
func (s *SummaryScreen) Missed() []problemgen.Question {
	var out []problemgen.Question
	for _, r := range s.summary.Results {
		if r.Answer != nil && !r.Answer.IsCorrect {
			out = append(out, r.Question)
		}
	}
	return out
}
