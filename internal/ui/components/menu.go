package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashmath/internal/ui/theme"
)

// MenuItem is one row of a Menu.
type MenuItem struct {
	Label  string
	Action func() tea.Cmd
}

// Menu is a vertical list of actions. The arrows wrap around and the
// number keys run an item directly.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu returns a menu with the first item selected.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// Update moves the selection or runs the chosen item's action.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	if i := ChoiceIndex(kmsg.String()); i >= 0 && i < len(m.Items) {
		m.Selected = i
		return m, m.run()
	}

	n := len(m.Items)
	switch {
	case key.Matches(kmsg, Keys.Up):
		m.Selected = (m.Selected - 1 + n) % n
	case key.Matches(kmsg, Keys.Down):
		m.Selected = (m.Selected + 1) % n
	case key.Matches(kmsg, Keys.Choose):
		return m, m.run()
	}
	return m, nil
}

func (m Menu) run() tea.Cmd {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil
	}
	if a := m.Items[m.Selected].Action; a != nil {
		return a()
	}
	return nil
}

// View renders one numbered row per item.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		row := fmt.Sprintf("%d  %s", i+1, item.Label)
		if i == m.Selected {
			b.WriteString(theme.Selected.Render("▸ " + row))
		} else {
			b.WriteString(theme.Unselected.Render("  " + row))
		}
		b.WriteString("\n")
	}
	return b.String()
}
