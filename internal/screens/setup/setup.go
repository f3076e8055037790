// Package setup is the screen where the learner picks an age band and the
// operations to practise before a session starts.
package setup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/router"
	"github.com/abhisek/flashmath/internal/screen"
	sessionscreen "github.com/abhisek/flashmath/internal/screens/session"
	"github.com/abhisek/flashmath/internal/session"
	"github.com/abhisek/flashmath/internal/ui/components"
	"github.com/abhisek/flashmath/internal/ui/layout"
	"github.com/abhisek/flashmath/internal/ui/theme"
)

// Rows: one per level, one per operation, then the start button.
var (
	levelRows = len(problemgen.AllLevels)
	opRows    = len(problemgen.AllOperations)
	startRow  = levelRows + opRows
)

// SetupScreen collects the session options.
type SetupScreen struct {
	svc    *screen.Services
	cursor int
	level  problemgen.Level
	ops    map[problemgen.Operation]bool
	alert  string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a SetupScreen with nothing selected.
func New(svc *screen.Services) *SetupScreen {
	return &SetupScreen{svc: svc, ops: make(map[problemgen.Operation]bool)}
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "New Session"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return append(layout.Hints(components.Keys.Up, components.Keys.Toggle),
		layout.KeyHint{Key: "Enter", Description: "Start"},
		layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch {
	case key.Matches(kmsg, components.Keys.Back):
		return s, router.Pop
	case key.Matches(kmsg, components.Keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(kmsg, components.Keys.Down):
		if s.cursor < startRow {
			s.cursor++
		}
	case key.Matches(kmsg, components.Keys.Toggle):
		s.toggle()
	case key.Matches(kmsg, components.Keys.Choose):
		if s.cursor == startRow {
			return s, s.start()
		}
		s.toggle()
	}
	return s, nil
}

func (s *SetupScreen) toggle() {
	s.alert = ""
	switch {
	case s.cursor < levelRows:
		s.level = problemgen.AllLevels[s.cursor]
	case s.cursor < startRow:
		op := problemgen.AllOperations[s.cursor-levelRows]
		s.ops[op] = !s.ops[op]
	}
}

// Selection returns the chosen level and operations in display order.
func (s *SetupScreen) Selection() (problemgen.Level, []problemgen.Operation) {
	var ops []problemgen.Operation
	for _, op := range problemgen.AllOperations {
		if s.ops[op] {
			ops = append(ops, op)
		}
	}
	return s.level, ops
}

func (s *SetupScreen) start() tea.Cmd {
	m := s.svc.Machine
	m.SetHooks(session.Hooks{
		AlertValidation: func(msg string) { s.alert = msg },
	})

	level, ops := s.Selection()
	if err := m.Start(context.Background(), level, ops); err != nil {
		var ve *session.ValidationError
		if !errors.As(err, &ve) {
			s.svc.Logger().WithError(err).Error("start session")
			s.alert = err.Error()
		}
		return nil
	}
	return router.Replace(sessionscreen.New(s.svc))
}

// Alert returns the current validation notice.
func (s *SetupScreen) Alert() string {
	return s.alert
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Section.Render("Age"))
	b.WriteString("\n")
	for i, lv := range problemgen.AllLevels {
		mark := "( )"
		if s.level == lv {
			mark = "(•)"
		}
		b.WriteString(s.row(i, fmt.Sprintf("%s %s years", mark, lv)))
	}

	b.WriteString("\n")
	b.WriteString(theme.Section.Render("Operations"))
	b.WriteString("\n")
	for i, op := range problemgen.AllOperations {
		mark := "[ ]"
		if s.ops[op] {
			mark = "[x]"
		}
		b.WriteString(s.row(levelRows+i, fmt.Sprintf("%s %s  %s", mark, op.Symbol(), op)))
	}

	b.WriteString("\n")
	b.WriteString(components.Button("Start", s.cursor == startRow))

	if s.alert != "" {
		b.WriteString("\n\n")
		b.WriteString(components.AlertLine(s.alert))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (s *SetupScreen) row(i int, label string) string {
	if i == s.cursor {
		return theme.Selected.Render("▸ "+label) + "\n"
	}
	return theme.Unselected.Render("  "+label) + "\n"
}
