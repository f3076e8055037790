package components

import "charm.land/bubbles/v2/key"

// KeyMap holds the bindings shared by the flashcard screens.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Toggle key.Binding
	Flip   key.Binding
	Right  key.Binding
	Wrong  key.Binding
	Next   key.Binding
	Clear  key.Binding
	Yes    key.Binding
	No     key.Binding
	Back   key.Binding
}

// Keys is the application key map.
var Keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑↓", "Navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "Down"),
	),
	Choose: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "Select"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("space", " "),
		key.WithHelp("Space", "Toggle"),
	),
	Flip: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("F", "Flip"),
	),
	Right: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("R", "I got it right!"),
	),
	Wrong: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("W", "I got it wrong"),
	),
	Next: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("N", "Skip"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("C", "Clear"),
	),
	Yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("Y", "Yes"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("N", "No"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "Back"),
	),
}

// ChoiceIndex maps the number keys 1-4 to a choice index, or -1.
func ChoiceIndex(k string) int {
	if len(k) == 1 && k[0] >= '1' && k[0] <= '4' {
		return int(k[0] - '1')
	}
	return -1
}
