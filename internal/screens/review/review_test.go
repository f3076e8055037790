package review

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/router"
	"github.com/abhisek/flashmath/internal/screen/screentest"
	sessionscreen "github.com/abhisek/flashmath/internal/screens/session"
)

func missed(op problemgen.Operation, a, b, c int) problemgen.Question {
	return problemgen.Question{
		ID:            "q1",
		Level:         problemgen.Level1,
		Operation:     op,
		Operand1:      a,
		Operand2:      b,
		CorrectAnswer: c,
		Choices:       []int{c + 1, c, c + 2, c - 1},
	}
}

func newTestScreen(t *testing.T, qs ...problemgen.Question) (*ReviewScreen, *screentest.Env) {
	t.Helper()
	env := screentest.New(3)
	for _, q := range qs {
		_, err := env.Services.Ledger.Upsert(context.Background(), q)
		require.NoError(t, err)
	}
	s := New(env.Services)
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
	return s, env
}

func count(t *testing.T, env *screentest.Env) int {
	t.Helper()
	n, err := env.Services.Ledger.Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestEmptyLedger(t *testing.T) {
	s, _ := newTestScreen(t)
	assert.Contains(t, s.View(80, 24), "No wrong questions yet")

	_, cmd := s.Update(screentest.Key('f'))
	assert.Nil(t, cmd)
	_, cmd = s.Update(screentest.Code(tea.KeyEscape))
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}

func TestCorrectAnswerClearsAndCelebrates(t *testing.T) {
	q := missed(problemgen.OpAdd, 2, 3, 5)
	s, env := newTestScreen(t, q)
	assert.Contains(t, s.View(80, 30), "Question 1 of 1")

	s.Update(screentest.Key('2'))
	s.Update(screentest.Key('f'))
	_, cmd := s.Update(screentest.Key('r'))
	require.NotNil(t, cmd, "celebration timer expected")
	assert.Zero(t, count(t, env))

	s.Update(sessionscreen.CelebrateDoneMsg{})
	assert.Contains(t, s.View(80, 24), "No wrong questions yet")
}

func TestMissKeepsRecord(t *testing.T) {
	first := missed(problemgen.OpSubtract, 9, 4, 5)
	s, env := newTestScreen(t, first, missed(problemgen.OpMultiply, 3, 4, 12))

	s.Update(screentest.Key('1'))
	s.Update(screentest.Key('f'))
	_, cmd := s.Update(screentest.Key('w'))
	assert.Nil(t, cmd)
	assert.Equal(t, 2, count(t, env))

	rec, err := env.Services.Ledger.Get(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.MissCount)

	cur, total := s.Reviewer().Position()
	assert.Equal(t, 2, cur)
	assert.Equal(t, 2, total)
}

func TestSkipWithNext(t *testing.T) {
	s, _ := newTestScreen(t,
		missed(problemgen.OpAdd, 1, 1, 2),
		missed(problemgen.OpAdd, 1, 2, 3),
	)
	s.Update(screentest.Key('n'))
	assert.Equal(t, "add-1-2", s.Reviewer().Card().Question.Key())
}

func TestClearNeedsConfirmation(t *testing.T) {
	s, env := newTestScreen(t, missed(problemgen.OpAdd, 1, 1, 2))

	s.Update(screentest.Key('c'))
	assert.Contains(t, s.View(80, 24), "Clear all wrong questions?")
	s.Update(screentest.Key('n'))
	assert.Equal(t, 1, count(t, env))

	s.Update(screentest.Key('c'))
	s.Update(screentest.Key('y'))
	assert.Zero(t, count(t, env))
	assert.True(t, s.Reviewer().Empty())
}
