// Package review is the screen for practicing previously missed questions.
package review

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	rv "github.com/abhisek/flashmath/internal/review"
	"github.com/abhisek/flashmath/internal/router"
	"github.com/abhisek/flashmath/internal/screen"
	sessionscreen "github.com/abhisek/flashmath/internal/screens/session"
	sess "github.com/abhisek/flashmath/internal/session"
	"github.com/abhisek/flashmath/internal/ui/components"
	"github.com/abhisek/flashmath/internal/ui/layout"
	"github.com/abhisek/flashmath/internal/ui/theme"
)

type reviewLoadedMsg struct {
	err error
}

// ReviewScreen cycles through the wrong-question ledger.
type ReviewScreen struct {
	svc      *screen.Services
	reviewer *rv.Reviewer
	in       sessionscreen.Interaction
	loaded   bool
	clearing bool
	errMsg   string
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New creates a ReviewScreen over svc.Ledger.
func New(svc *screen.Services) *ReviewScreen {
	s := &ReviewScreen{svc: svc}
	s.reviewer = rv.New(svc.Ledger, svc.Generator, s.in.Hooks(), svc.Logger())
	return s
}

func (s *ReviewScreen) Init() tea.Cmd {
	return s.load
}

func (s *ReviewScreen) load() tea.Msg {
	return reviewLoadedMsg{err: s.reviewer.Load(context.Background())}
}

func (s *ReviewScreen) Title() string {
	return "Review"
}

// Reviewer exposes the underlying walk.
func (s *ReviewScreen) Reviewer() *rv.Reviewer {
	return s.reviewer
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	if s.clearing {
		return layout.Hints(components.Keys.Yes, components.Keys.No)
	}
	if !s.loaded || s.reviewer.Empty() {
		return layout.Hints(components.Keys.Back)
	}
	hints := s.in.KeyHints(s.reviewer)
	if !s.in.Confirming() && !s.reviewer.Card().Flipped() {
		hints = append(hints, layout.Hints(components.Keys.Next, components.Keys.Clear)...)
	}
	return hints
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewLoadedMsg:
		s.loaded = true
		s.in.Reset()
		if msg.err != nil {
			s.svc.Logger().WithError(msg.err).Error("load review")
			s.errMsg = msg.err.Error()
		}
		return s, nil

	case sessionscreen.CelebrateDoneMsg:
		s.in.StopCelebrating()
		return s, nil

	case tea.KeyPressMsg:
		if s.in.Celebrating() {
			s.in.StopCelebrating()
			return s, nil
		}
		if s.clearing {
			return s, s.updateClearing(msg)
		}
		if !s.in.Confirming() && key.Matches(msg, components.Keys.Back) {
			return s, router.Pop
		}
		if !s.loaded || s.reviewer.Empty() {
			return s, nil
		}

		if !s.in.Confirming() && !s.reviewer.Card().Flipped() {
			switch {
			case key.Matches(msg, components.Keys.Next):
				if err := s.reviewer.Next(); err != nil {
					s.in.SetAlert(err.Error())
					return s, nil
				}
				s.in.Reset()
				return s, nil
			case key.Matches(msg, components.Keys.Clear):
				s.clearing = true
				return s, nil
			}
		}

		if claim, report := s.in.HandleKey(s.reviewer, msg); report {
			return s, s.report(claim)
		}
	}
	return s, nil
}

func (s *ReviewScreen) updateClearing(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, components.Keys.Yes):
		s.clearing = false
		if err := s.reviewer.Clear(context.Background()); err != nil {
			s.svc.Logger().WithError(err).Error("clear wrong questions")
			s.in.SetAlert(err.Error())
			return nil
		}
		s.in.Reset()
	case key.Matches(msg, components.Keys.No):
		s.clearing = false
	}
	return nil
}

func (s *ReviewScreen) report(claim bool) tea.Cmd {
	s.reviewer.SetHooks(s.in.Hooks())
	out, err := s.reviewer.SelfReport(context.Background(), claim)
	s.in.Reported()
	if err != nil {
		var ve *sess.ValidationError
		if !errors.As(err, &ve) {
			s.svc.Logger().WithError(err).Error("review self-report")
			s.in.SetAlert(err.Error())
		}
		return nil
	}
	if out == rv.OutcomeCancelled {
		return nil
	}

	s.in.Reset()
	if s.in.Celebrating() {
		return sessionscreen.CelebrateTimer()
	}
	return nil
}

func (s *ReviewScreen) View(width, height int) string {
	center := func(content string) string {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
	}

	if s.errMsg != "" {
		return center(theme.Incorrect.Render("Error: " + s.errMsg))
	}
	if !s.loaded {
		return center(theme.Hint.Render("Loading wrong questions..."))
	}
	if s.clearing {
		return center(components.ConfirmDialog("Clear all wrong questions?", width))
	}
	if s.reviewer.Empty() && !s.in.Celebrating() {
		return center(lipgloss.JoinVertical(lipgloss.Center,
			theme.Title.Render("No wrong questions yet"),
			"",
			theme.Hint.Render("Questions you miss in a session will show up here.")))
	}

	cur, total := s.reviewer.Position()
	heading := theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", cur, total))
	if rec, ok := s.reviewer.Current(); ok {
		heading = lipgloss.JoinVertical(lipgloss.Center, heading,
			theme.Hint.Render(fmt.Sprintf("missed %d×", rec.MissCount)))
	}
	return s.in.View(s.reviewer, heading, width, height)
}
