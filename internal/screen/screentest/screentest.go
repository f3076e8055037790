// Package screentest builds in-memory services and key messages for
// exercising screens without a terminal.
package screentest

import (
	"time"

	tea "charm.land/bubbletea/v2"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/abhisek/flashmath/internal/ledger"
	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/screen"
	"github.com/abhisek/flashmath/internal/session"
	"github.com/abhisek/flashmath/internal/stats"
	"github.com/abhisek/flashmath/internal/store"
)

// Env is a set of services over memory stores.
type Env struct {
	Services *screen.Services
	Current  *store.MemoryKV
	Local    *store.MemoryKV
	Logs     *logtest.Hook
}

// New returns services with a deterministic generator, a fixed clock and
// the session id "sess-1".
func New(seed uint64) *Env {
	env := &Env{
		Current: store.NewMemoryKV(),
		Local:   store.NewMemoryKV(),
	}
	log, logs := logtest.NewNullLogger()
	env.Logs = logs

	now := time.UnixMilli(1_700_000_000_000)
	clock := func() time.Time { return now }
	gen := problemgen.New(problemgen.NewSeededRand(seed), problemgen.DefaultConfig())
	history := stats.NewHistory(env.Local, 0, log)
	l := ledger.New(env.Local, log, clock)

	env.Services = &screen.Services{
		Machine: session.NewMachine(session.Config{
			Generator: gen,
			Current:   env.Current,
			History:   history,
			Ledger:    l,
			Logger:    log,
			Clock:     clock,
			NewID:     func() string { return "sess-1" },
		}),
		Ledger:    l,
		History:   history,
		Generator: gen,
		Log:       log,
	}
	return env
}

// Key returns a press of a printable key.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Code returns a press of a special key such as tea.KeyEnter.
func Code(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// WrongChoice returns a choice of q other than its answer.
func WrongChoice(q problemgen.Question) int {
	for _, c := range q.Choices {
		if c != q.CorrectAnswer {
			return c
		}
	}
	return q.CorrectAnswer
}

// ChoiceKey returns the number key that picks v on q's card.
func ChoiceKey(q problemgen.Question, v int) tea.KeyPressMsg {
	for i, c := range q.Choices {
		if c == v {
			return Key(rune('1' + i))
		}
	}
	return Key('0')
}
