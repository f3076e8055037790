package screen

import (
	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/flashmath/internal/ledger"
	"github.com/abhisek/flashmath/internal/logging"
	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/session"
	"github.com/abhisek/flashmath/internal/stats"
	"github.com/abhisek/flashmath/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is implemented by screens that refresh when they become active
// again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// Services are the engine components screens drive. One instance is shared
// by every screen of a run.
type Services struct {
	Machine   *session.Machine
	Ledger    *ledger.Ledger
	History   *stats.History
	Generator *problemgen.Generator
	Log       logrus.FieldLogger
}

// Logger returns Log, or a discarding logger when none was set.
func (s *Services) Logger() logrus.FieldLogger {
	return logging.OrDiscard(s.Log)
}
