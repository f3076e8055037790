// Package session is the card screen for an in-progress practice session.
package session

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashmath/internal/router"
	"github.com/abhisek/flashmath/internal/screen"
	"github.com/abhisek/flashmath/internal/screens/summary"
	sess "github.com/abhisek/flashmath/internal/session"
	"github.com/abhisek/flashmath/internal/ui/components"
	"github.com/abhisek/flashmath/internal/ui/layout"
)

// SessionScreen shows the current card of the machine's session.
type SessionScreen struct {
	svc      *screen.Services
	in       Interaction
	finished bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a SessionScreen. The machine must already be in session.
func New(svc *screen.Services) *SessionScreen {
	return &SessionScreen{svc: svc}
}

func (s *SessionScreen) Init() tea.Cmd {
	s.svc.Machine.SetHooks(s.in.Hooks())
	return nil
}

func (s *SessionScreen) Title() string {
	return "Practice"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	return s.in.KeyHints(s.svc.Machine)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case CelebrateDoneMsg:
		s.in.StopCelebrating()
		if s.finished {
			return s, s.toSummary()
		}
		return s, nil

	case tea.KeyPressMsg:
		if s.in.Celebrating() {
			s.in.StopCelebrating()
			if s.finished {
				return s, s.toSummary()
			}
			return s, nil
		}
		// The session stays stored; Start Session resumes it.
		if !s.in.Confirming() && key.Matches(msg, components.Keys.Back) {
			return s, router.Pop
		}
		if claim, report := s.in.HandleKey(s.svc.Machine, msg); report {
			return s, s.report(claim)
		}
	}
	return s, nil
}

func (s *SessionScreen) report(claim bool) tea.Cmd {
	m := s.svc.Machine
	m.SetHooks(s.in.Hooks())
	out, err := m.SelfReport(context.Background(), claim)
	s.in.Reported()
	if err != nil {
		var ve *sess.ValidationError
		if !errors.As(err, &ve) {
			s.svc.Logger().WithError(err).Error("self-report")
			s.in.SetAlert(err.Error())
		}
		return nil
	}

	switch out {
	case sess.OutcomeAdvanced:
		s.in.Reset()
		if s.in.Celebrating() {
			return CelebrateTimer()
		}
	case sess.OutcomeCompleted:
		s.finished = true
		if s.in.Celebrating() {
			return CelebrateTimer()
		}
		return s.toSummary()
	}
	return nil
}

func (s *SessionScreen) toSummary() tea.Cmd {
	sum, err := s.svc.Machine.Summary(context.Background())
	if err != nil {
		s.svc.Logger().WithError(err).Error("load session summary")
		return router.Pop
	}
	return router.Replace(summary.New(sum))
}

func (s *SessionScreen) View(width, height int) string {
	cur, total := s.svc.Machine.Progress()
	bar := components.NewProgressBar(cur, total, min(width-8, 50))
	return s.in.View(s.svc.Machine, bar.View(), width, height)
}
