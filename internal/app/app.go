// Package app hosts the root Bubble Tea model: the screen stack inside a
// header and footer frame.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmath/internal/router"
	"github.com/abhisek/flashmath/internal/screen"
	"github.com/abhisek/flashmath/internal/screens/home"
	"github.com/abhisek/flashmath/internal/screens/review"
	"github.com/abhisek/flashmath/internal/screens/welcome"
	"github.com/abhisek/flashmath/internal/session"
	"github.com/abhisek/flashmath/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Services *screen.Services

	// StartReview opens the review screen above the home menu and skips
	// the welcome splash.
	StartReview bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	svc    *screen.Services
	width  int
	height int
}

// newAppModel builds the initial screen stack for opts.
func newAppModel(opts Options) AppModel {
	svc := opts.Services
	if opts.StartReview {
		r := router.New(home.New(svc, false))
		r.Push(review.New(svc))
		return AppModel{router: r, svc: svc}
	}

	splash := welcome.New(func() screen.Screen { return home.New(svc, true) })
	return AppModel{router: router.New(splash), svc: svc}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// status summarizes the machine for the header.
func (m AppModel) status() string {
	if m.svc == nil || m.svc.Machine == nil {
		return ""
	}
	if m.svc.Machine.Phase() != session.PhaseInSession {
		return ""
	}
	cur, total := m.svc.Machine.Progress()
	return fmt.Sprintf("Question %d of %d", cur, total)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	} else {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
