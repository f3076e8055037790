package session

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/router"
	"github.com/abhisek/flashmath/internal/screen/screentest"
	"github.com/abhisek/flashmath/internal/screens/summary"
	sess "github.com/abhisek/flashmath/internal/session"
)

func newTestScreen(t *testing.T) (*SessionScreen, *screentest.Env) {
	t.Helper()
	env := screentest.New(7)
	require.NoError(t, env.Services.Machine.Start(context.Background(),
		problemgen.Level1, []problemgen.Operation{problemgen.OpAdd, problemgen.OpMultiply}))
	s := New(env.Services)
	s.Init()
	return s, env
}

func press(s *SessionScreen, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = s.Update(m)
	}
	return cmd
}

func TestFlipWithoutSelectionAlerts(t *testing.T) {
	s, env := newTestScreen(t)

	press(s, screentest.Key('f'))
	assert.Equal(t, sess.MsgSelectAnswer, s.in.Alert())
	assert.False(t, env.Services.Machine.Card().Flipped())
	assert.Contains(t, s.View(80, 30), sess.MsgSelectAnswer)
}

func TestCorrectClaimAdvancesAndCelebrates(t *testing.T) {
	s, env := newTestScreen(t)
	m := env.Services.Machine
	q := m.Card().Question

	press(s, screentest.ChoiceKey(q, q.CorrectAnswer), screentest.Key('f'))
	require.True(t, m.Card().Flipped())

	cmd := press(s, screentest.Key('r'))
	require.NotNil(t, cmd, "celebration timer expected")
	assert.True(t, s.in.Celebrating())
	cur, _ := m.Progress()
	assert.Equal(t, 2, cur)

	press(s, CelebrateDoneMsg{})
	assert.False(t, s.in.Celebrating())
	assert.False(t, m.Card().Flipped())
}

func TestMismatchNeedsConfirmation(t *testing.T) {
	s, env := newTestScreen(t)
	m := env.Services.Machine
	q := m.Card().Question
	wrong := screentest.WrongChoice(q)

	press(s, screentest.ChoiceKey(q, wrong), screentest.Key('f'), screentest.Key('r'))
	require.True(t, s.in.Confirming())
	assert.Contains(t, s.View(100, 30), "[Y] Yes")

	// Declining leaves the card as it was.
	press(s, screentest.Key('n'))
	assert.False(t, s.in.Confirming())
	cur, _ := m.Progress()
	assert.Equal(t, 1, cur)
	assert.True(t, m.Card().Flipped())

	press(s, screentest.Key('r'), screentest.Key('y'))
	assert.False(t, s.in.Confirming())
	assert.False(t, s.in.Celebrating(), "a wrong answer is never celebrated")
	cur, _ = m.Progress()
	assert.Equal(t, 2, cur)

	n, err := env.Services.Ledger.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReportBeforeFlipIsIgnored(t *testing.T) {
	s, env := newTestScreen(t)
	q := env.Services.Machine.Card().Question

	press(s, screentest.ChoiceKey(q, q.CorrectAnswer), screentest.Key('r'))
	assert.Equal(t, sess.MsgFlipBeforeReport, s.in.Alert())
	cur, _ := env.Services.Machine.Progress()
	assert.Equal(t, 1, cur)
}

func TestEscapeLeavesSessionStored(t *testing.T) {
	s, env := newTestScreen(t)

	cmd := press(s, screentest.Code(tea.KeyEscape))
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
	assert.Equal(t, sess.PhaseInSession, env.Services.Machine.Phase())
	assert.NotEmpty(t, env.Current.Keys())
}

func TestFinishingShowsSummary(t *testing.T) {
	s, env := newTestScreen(t)
	m := env.Services.Machine

	var cmd tea.Cmd
	for i := 0; i < sess.QuestionsPerSession; i++ {
		q := m.Card().Question
		// Wrong answers reported as wrong: no dialog and no celebration.
		cmd = press(s, screentest.ChoiceKey(q, screentest.WrongChoice(q)),
			screentest.Key('f'), screentest.Key('w'))
	}
	require.NotNil(t, cmd)
	assert.True(t, s.finished)

	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	sum, ok := msg.Screen.(*summary.SummaryScreen)
	require.True(t, ok)
	assert.Len(t, sum.Missed(), sess.QuestionsPerSession)
	assert.Equal(t, sess.PhaseSetup, m.Phase())

	records, err := env.Services.History.All(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].Accuracy)
}

func TestKeyHintsFollowCard(t *testing.T) {
	s, env := newTestScreen(t)
	q := env.Services.Machine.Card().Question

	keys := func() string {
		var parts []string
		for _, h := range s.KeyHints() {
			parts = append(parts, h.Key)
		}
		return strings.Join(parts, " ")
	}
	assert.Contains(t, keys(), "1-4")

	press(s, screentest.ChoiceKey(q, q.CorrectAnswer), screentest.Key('f'))
	assert.Contains(t, keys(), "R")
	assert.NotContains(t, keys(), "1-4")
}
