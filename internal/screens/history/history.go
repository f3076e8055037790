// Package history is the statistics screen: the last session, totals over
// every stored session, and the session list.
package history

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmath/internal/router"
	"github.com/abhisek/flashmath/internal/screen"
	"github.com/abhisek/flashmath/internal/stats"
	"github.com/abhisek/flashmath/internal/ui/components"
	"github.com/abhisek/flashmath/internal/ui/layout"
	"github.com/abhisek/flashmath/internal/ui/theme"
)

// maxListed caps the history rows shown at once.
const maxListed = 10

type historyLoadedMsg struct {
	records []stats.Record
	err     error
}

// HistoryScreen displays session statistics.
type HistoryScreen struct {
	svc      *screen.Services
	records  []stats.Record
	overall  stats.Overall
	offset   int
	loaded   bool
	clearing bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(svc *screen.Services) *HistoryScreen {
	return &HistoryScreen{svc: svc}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load
}

func (s *HistoryScreen) load() tea.Msg {
	records, err := s.svc.History.All(context.Background())
	return historyLoadedMsg{records: records, err: err}
}

func (s *HistoryScreen) Title() string {
	return "Statistics"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.clearing {
		return layout.Hints(components.Keys.Yes, components.Keys.No)
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "C", Description: "Clear history"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		s.errMsg = ""
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.records = msg.records
		s.overall = stats.CalculateOverall(msg.records)
		s.offset = 0
		return s, nil

	case tea.KeyPressMsg:
		if s.clearing {
			switch {
			case key.Matches(msg, components.Keys.Yes):
				s.clearing = false
				if err := s.svc.History.Clear(context.Background()); err != nil {
					s.errMsg = err.Error()
					return s, nil
				}
				return s, s.load
			case key.Matches(msg, components.Keys.No):
				s.clearing = false
			}
			return s, nil
		}

		switch {
		case key.Matches(msg, components.Keys.Back):
			return s, router.Pop
		case key.Matches(msg, components.Keys.Clear):
			if len(s.records) > 0 {
				s.clearing = true
			}
		case key.Matches(msg, components.Keys.Up):
			if s.offset > 0 {
				s.offset--
			}
		case key.Matches(msg, components.Keys.Down):
			if s.offset < len(s.records)-maxListed {
				s.offset++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(content string) string {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
	}

	if s.errMsg != "" {
		return center(theme.Incorrect.Render("Error: " + s.errMsg))
	}
	if !s.loaded {
		return center(theme.Hint.Render("Loading statistics..."))
	}
	if s.clearing {
		return center(components.ConfirmDialog("Clear all session history?", width))
	}
	if len(s.records) == 0 {
		return center(lipgloss.JoinVertical(lipgloss.Center,
			theme.Title.Render("No Sessions Yet"),
			"",
			theme.Hint.Render("Finish a practice session to see your statistics here.")))
	}

	last := s.records[len(s.records)-1]
	o := s.overall

	var b strings.Builder
	b.WriteString(theme.Section.Render("Last Session"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s   %d/%d correct   %d%% accuracy\n\n",
		last.Time().Format("Jan 02, 2006 15:04"), last.Correct, last.Attempted, last.Accuracy)

	b.WriteString(theme.Section.Render("Overall Statistics"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Total sessions:     %d\n", o.TotalSessions)
	fmt.Fprintf(&b, "  Questions answered: %d\n", o.TotalAttempted)
	fmt.Fprintf(&b, "  Correct:            %d\n", o.TotalCorrect)
	fmt.Fprintf(&b, "  Incorrect:          %d\n", o.TotalIncorrect)
	fmt.Fprintf(&b, "  Overall accuracy:   %d%%\n", o.OverallAccuracy)
	fmt.Fprintf(&b, "  Average accuracy:   %d%%\n\n", o.AverageAccuracy)

	b.WriteString(theme.Section.Render("Session History"))
	b.WriteString("\n")
	// Newest first.
	end := len(s.records) - s.offset
	start := max(0, end-maxListed)
	for i := end - 1; i >= start; i-- {
		r := s.records[i]
		style := theme.Body
		if r.Accuracy < 50 {
			style = lipgloss.NewStyle().Foreground(theme.Warning)
		}
		b.WriteString(style.Render(fmt.Sprintf("  %s   %2d/%-2d   %3d%%",
			r.Time().Format("Jan 02 15:04"), r.Correct, r.Attempted, r.Accuracy)))
		b.WriteString("\n")
	}

	return center(strings.TrimRight(b.String(), "\n"))
}
