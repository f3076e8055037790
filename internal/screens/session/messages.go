package session

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// celebrateFor is how long the celebration banner stays up.
const celebrateFor = 1200 * time.Millisecond

// CelebrateDoneMsg ends the celebration banner.
type CelebrateDoneMsg struct{}

// CelebrateTimer schedules CelebrateDoneMsg.
func CelebrateTimer() tea.Cmd {
	return tea.Tick(celebrateFor, func(time.Time) tea.Msg {
		return CelebrateDoneMsg{}
	})
}
