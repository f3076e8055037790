package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmath/internal/router"
	"github.com/abhisek/flashmath/internal/screen"
	"github.com/abhisek/flashmath/internal/screens/history"
	"github.com/abhisek/flashmath/internal/screens/review"
	sessionscreen "github.com/abhisek/flashmath/internal/screens/session"
	"github.com/abhisek/flashmath/internal/screens/setup"
	"github.com/abhisek/flashmath/internal/screens/summary"
	"github.com/abhisek/flashmath/internal/session"
	"github.com/abhisek/flashmath/internal/ui/components"
	"github.com/abhisek/flashmath/internal/ui/layout"
	"github.com/abhisek/flashmath/internal/ui/theme"
)

// Menu rows.
const (
	itemStart = iota
	itemReview
	itemStats
	itemExit
)

type loadedMsg struct {
	wrongCount int
	err        error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	svc        *screen.Services
	menu       components.Menu
	wrongCount int
	errMsg     string

	// autoResume pushes the card screen once when an unfinished session
	// was restored at startup.
	autoResume bool
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a HomeScreen. With autoResume set, an in-progress session
// opens straight away.
func New(svc *screen.Services, autoResume bool) *HomeScreen {
	h := &HomeScreen{svc: svc, autoResume: autoResume}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) items() []components.MenuItem {
	start := "Start Session"
	if h.svc.Machine.Phase() == session.PhaseInSession {
		cur, total := h.svc.Machine.Progress()
		start = fmt.Sprintf("Resume Session (%d of %d)", cur, total)
	}
	reviewLabel := "Review Wrong Questions"
	if h.wrongCount > 0 {
		reviewLabel = fmt.Sprintf("Review Wrong Questions (%d)", h.wrongCount)
	}

	items := make([]components.MenuItem, 4)
	items[itemStart] = components.MenuItem{Label: start, Action: h.startAction}
	items[itemReview] = components.MenuItem{Label: reviewLabel, Action: func() tea.Cmd {
		return router.Push(review.New(h.svc))
	}}
	items[itemStats] = components.MenuItem{Label: "Statistics", Action: func() tea.Cmd {
		return router.Push(history.New(h.svc))
	}}
	items[itemExit] = components.MenuItem{Label: "Exit", Action: func() tea.Cmd {
		return tea.Quit
	}}
	return items
}

// startAction continues whatever the machine holds: an unfinished session,
// an unread summary, or a fresh setup.
func (h *HomeScreen) startAction() tea.Cmd {
	m := h.svc.Machine
	switch m.Phase() {
	case session.PhaseInSession:
		return router.Push(sessionscreen.New(h.svc))
	case session.PhaseComplete:
		sum, err := m.Summary(context.Background())
		if err == nil {
			return router.Push(summary.New(sum))
		}
		h.svc.Logger().WithError(err).Warn("load finished session")
	}
	return router.Push(setup.New(h.svc))
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load
}

// Resume refreshes the menu after returning from another screen.
func (h *HomeScreen) Resume() tea.Cmd {
	h.autoResume = false
	return h.load
}

func (h *HomeScreen) load() tea.Msg {
	n, err := h.svc.Ledger.Count(context.Background())
	return loadedMsg{wrongCount: n, err: err}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		h.errMsg = ""
		if msg.err != nil {
			h.errMsg = msg.err.Error()
		}
		h.wrongCount = msg.wrongCount
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.items())
		h.menu.Selected = selected

		if h.autoResume && h.svc.Machine.Phase() == session.PhaseInSession {
			h.autoResume = false
			return h, router.Push(sessionscreen.New(h.svc))
		}
		h.autoResume = false
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	if !layout.IsCompactHeight(height + 6) {
		sections = append(sections, components.Banner("FlashMath", width-4), "")
	}

	status := "No wrong questions to review"
	if h.wrongCount == 1 {
		status = "1 wrong question to review"
	} else if h.wrongCount > 1 {
		status = fmt.Sprintf("%d wrong questions to review", h.wrongCount)
	}
	sections = append(sections, theme.Hint.Render(status), "")

	menu := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2).
		Render(strings.TrimRight(h.menu.View(), "\n"))
	sections = append(sections, menu)

	if h.errMsg != "" {
		sections = append(sections, "", components.AlertLine(h.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// WrongCount returns the ledger size shown in the menu.
func (h *HomeScreen) WrongCount() int {
	return h.wrongCount
}
