package session

import (
	"errors"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/flashmath/internal/session"
	"github.com/abhisek/flashmath/internal/ui/components"
	"github.com/abhisek/flashmath/internal/ui/layout"
)

// CardDriver is the card-level API shared by a session and a review.
type CardDriver interface {
	Card() sess.Card
	SelectChoice(v int) error
	Flip() error
}

// Interaction holds the presentation state around one card: the cursor,
// the inline alert, a pending mismatch confirmation and the celebration.
// Its Hooks feed the engine callbacks back into that state.
type Interaction struct {
	cursor      int
	alert       string
	confirm     string
	claim       bool
	confirmed   bool
	celebrating bool
}

// Hooks returns engine callbacks bound to in. ConfirmMismatch opens the
// dialog and declines, unless the learner already accepted it with Y.
func (in *Interaction) Hooks() sess.Hooks {
	return sess.Hooks{
		ConfirmMismatch: func(msg string) bool {
			if in.confirmed {
				return true
			}
			in.confirm = msg
			return false
		},
		Celebrate:       func() { in.celebrating = true },
		AlertValidation: func(msg string) { in.alert = msg },
	}
}

// Reset prepares for a new card.
func (in *Interaction) Reset() {
	celebrating := in.celebrating
	*in = Interaction{celebrating: celebrating}
}

// Reported clears the one-shot confirmation after a self-report attempt.
func (in *Interaction) Reported() {
	in.confirmed = false
}

// Confirming reports whether the mismatch dialog is open.
func (in *Interaction) Confirming() bool { return in.confirm != "" }

// Celebrating reports whether the celebration banner is up.
func (in *Interaction) Celebrating() bool { return in.celebrating }

// StopCelebrating hides the banner.
func (in *Interaction) StopCelebrating() { in.celebrating = false }

// Alert returns the inline notice.
func (in *Interaction) Alert() string { return in.alert }

// SetAlert shows msg inline.
func (in *Interaction) SetAlert(msg string) { in.alert = msg }

// HandleKey applies a key press to the card. When it returns report=true
// the caller should self-report claim with in.Hooks() installed.
func (in *Interaction) HandleKey(d CardDriver, k tea.KeyPressMsg) (claim, report bool) {
	if in.Confirming() {
		switch {
		case key.Matches(k, components.Keys.Yes):
			in.confirm = ""
			in.confirmed = true
			return in.claim, true
		case key.Matches(k, components.Keys.No):
			in.confirm = ""
		}
		return false, false
	}

	card := d.Card()
	n := len(card.Question.Choices)

	if idx := components.ChoiceIndex(k.String()); idx >= 0 && idx < n {
		in.cursor = idx
		in.choose(d, card.Question.Choices[idx])
		return false, false
	}

	switch {
	case key.Matches(k, components.Keys.Up):
		if in.cursor > 0 {
			in.cursor--
		}
	case key.Matches(k, components.Keys.Down):
		if in.cursor < n-1 {
			in.cursor++
		}
	case key.Matches(k, components.Keys.Choose, components.Keys.Toggle):
		if in.cursor < n {
			in.choose(d, card.Question.Choices[in.cursor])
		}
	case key.Matches(k, components.Keys.Flip):
		if err := d.Flip(); err != nil {
			in.showError(err)
			return false, false
		}
		in.alert = ""
	case key.Matches(k, components.Keys.Right):
		in.claim = true
		return true, true
	case key.Matches(k, components.Keys.Wrong):
		in.claim = false
		return false, true
	}
	return false, false
}

func (in *Interaction) choose(d CardDriver, v int) {
	if err := d.SelectChoice(v); err != nil {
		in.showError(err)
		return
	}
	in.alert = ""
}

// showError surfaces errors that did not already go through AlertValidation.
func (in *Interaction) showError(err error) {
	var ve *sess.ValidationError
	if errors.As(err, &ve) {
		return
	}
	if errors.Is(err, sess.ErrAlreadyFlipped) {
		in.alert = "The card is flipped. Mark it right or wrong."
		return
	}
	in.alert = err.Error()
}

// KeyHints returns the footer hints for the current card state.
func (in *Interaction) KeyHints(d CardDriver) []layout.KeyHint {
	if in.Confirming() {
		return layout.Hints(components.Keys.Yes, components.Keys.No)
	}
	if d.Card().Flipped() {
		return append(layout.Hints(components.Keys.Right, components.Keys.Wrong),
			layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return append([]layout.KeyHint{{Key: "1-4", Description: "Choose"}},
		layout.Hints(components.Keys.Flip, components.Keys.Back)...)
}

// View renders the card, its choices and any overlay under heading.
func (in *Interaction) View(d CardDriver, heading string, width, height int) string {
	if in.celebrating {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			components.Celebration(width))
	}
	if in.Confirming() {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			components.ConfirmDialog(in.confirm, width))
	}

	card := d.Card()
	selected, chosen := card.Selection()
	choices := components.ChoiceList{
		Choices:  card.Question.Choices,
		Correct:  card.Question.CorrectAnswer,
		Cursor:   in.cursor,
		Selected: selected,
		Chosen:   chosen,
		Revealed: card.Flipped(),
	}

	sections := []string{
		heading,
		"",
		components.Flashcard(card.Question, selected, card.Flipped(), width),
		"",
		choices.View(),
	}
	if card.Flipped() {
		sections = append(sections, "", "Did you get it right? Press R or W.")
	}
	if in.alert != "" {
		sections = append(sections, "", components.AlertLine(in.alert))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}
