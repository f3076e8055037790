// Package theme holds the colors and lipgloss styles shared by every screen.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: chalkboard greens with bright card accents.
var (
	Primary   = lipgloss.Color("#7BD389") // Chalk green
	Secondary = lipgloss.Color("#5FB7D4") // Chalk blue
	Accent    = lipgloss.Color("#FFD166") // Chalk yellow
	Success   = lipgloss.Color("#06D6A0")
	Error     = lipgloss.Color("#EF476F")
	Warning   = lipgloss.Color("#F78C6B")
	Text      = lipgloss.Color("#F1FAEE")
	TextDim   = lipgloss.Color("#A8B5A2")
	BgCard    = lipgloss.Color("#1F3A2E") // Board green
	Border    = lipgloss.Color("#3E5C4B")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Section = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// Flashcard faces. The back uses a double border so a flipped card is
// recognisable without color.
var (
	CardFront = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 4).
			Align(lipgloss.Center)

	CardBack = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Accent).
			Padding(1, 4).
			Align(lipgloss.Center)

	Prompt = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Alert = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)
)

// Overlays
var (
	Dialog = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(Warning).
		Padding(1, 3)

	Celebration = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)
