package session

import (
	"errors"
	"fmt"

	"github.com/abhisek/flashmath/internal/problemgen"
)

var (
	// ErrNoSelection is returned when flipping before choosing an answer.
	ErrNoSelection = errors.New("no answer selected")

	// ErrAlreadyFlipped is returned when changing the answer after the flip.
	ErrAlreadyFlipped = errors.New("card already flipped")

	// ErrNotFlipped is returned when grading before the flip.
	ErrNotFlipped = errors.New("card not flipped")

	// ErrNotAChoice is returned when selecting a value that is not offered.
	ErrNotAChoice = errors.New("not one of the choices")
)

// Validation messages shown through the AlertValidation hook.
const (
	MsgSelectLevel      = "Please select an age level."
	MsgSelectOperation  = "Please select at least one operation."
	MsgSelectAnswer     = "Please select an answer first."
	MsgFlipBeforeReport = "Flip the card to check your answer first."
)

// Card is the per-question interaction: pick a choice, flip to reveal the
// answer, then self-report. It is shared by sessions and review.
type Card struct {
	Question problemgen.Question

	selected    int
	hasSelected bool
	flipped     bool
}

// NewCard returns a fresh card for q with nothing selected.
func NewCard(q problemgen.Question) Card {
	return Card{Question: q}
}

// Select records v as the pending choice. It may be called repeatedly
// before the flip; the last call wins.
func (c *Card) Select(v int) error {
	if c.flipped {
		return ErrAlreadyFlipped
	}
	if !c.Question.HasChoice(v) {
		return fmt.Errorf("%w: %d", ErrNotAChoice, v)
	}
	c.selected = v
	c.hasSelected = true
	return nil
}

// Flip reveals the answer. Flipping an already flipped card is a no-op.
func (c *Card) Flip() error {
	if c.flipped {
		return nil
	}
	if !c.hasSelected {
		return ErrNoSelection
	}
	c.flipped = true
	return nil
}

// Selection returns the pending choice and whether one was made.
func (c Card) Selection() (int, bool) {
	return c.selected, c.hasSelected
}

// Flipped reports whether the answer has been revealed.
func (c Card) Flipped() bool {
	return c.flipped
}

// Correct reports whether the selection equals the correct answer.
func (c Card) Correct() bool {
	return c.hasSelected && c.selected == c.Question.CorrectAnswer
}

// Answer builds the record for a self-report of claim.
func (c Card) Answer(claim bool) problemgen.Answer {
	return problemgen.Answer{
		QuestionID:     c.Question.ID,
		SelectedAnswer: c.selected,
		IsCorrect:      c.Correct(),
		SelfReported:   claim,
	}
}

// MismatchMessage explains a self-report that disagrees with the actual
// result. It returns "" when claim matches.
func MismatchMessage(claim, actual bool, selected, correct int) string {
	switch {
	case claim && !actual:
		return fmt.Sprintf("Warning: You selected %d, but the correct answer is %d.\n\n"+
			"You marked this as \"correct\", but it's actually wrong. Do you want to continue?", selected, correct)
	case !claim && actual:
		return fmt.Sprintf("Warning: You selected %d, which is the correct answer!\n\n"+
			"You marked this as \"wrong\", but it's actually correct. Do you want to continue?", selected)
	}
	return ""
}

// Hooks are the presentation callbacks the engine invokes. Nil hooks are
// skipped; a nil ConfirmMismatch proceeds.
type Hooks struct {
	// ConfirmMismatch asks the learner to confirm a self-report that
	// disagrees with the actual result. Returning false cancels it.
	ConfirmMismatch func(message string) bool

	// Celebrate is called when the learner correctly claims a correct answer.
	Celebrate func()

	// AlertValidation reports a rejected action.
	AlertValidation func(message string)
}

func (h Hooks) confirm(msg string) bool {
	if h.ConfirmMismatch == nil {
		return true
	}
	return h.ConfirmMismatch(msg)
}

func (h Hooks) celebrate() {
	if h.Celebrate != nil {
		h.Celebrate()
	}
}

func (h Hooks) alert(msg string) {
	if h.AlertValidation != nil {
		h.AlertValidation(msg)
	}
}

// ValidationError is returned for actions rejected before any state
// changes. Message is what was passed to AlertValidation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Outcome is the result of a self-report.
type Outcome int

const (
	// OutcomeCancelled means the learner declined the mismatch warning;
	// nothing changed.
	OutcomeCancelled Outcome = iota

	// OutcomeAdvanced means the answer was recorded and the next card
	// is showing.
	OutcomeAdvanced

	// OutcomeCompleted means the final answer was recorded and the
	// session is complete.
	OutcomeCompleted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeAdvanced:
		return "advanced"
	case OutcomeCompleted:
		return "completed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Grade applies the shared self-report rules to card. An unflipped card is
// rejected and a mismatch needs confirmation. ok is false when the report
// was rejected or cancelled. Callers celebrate once the answer is stored.
func Grade(card Card, claim bool, hooks Hooks) (answer problemgen.Answer, ok bool, err error) {
	if !card.Flipped() {
		hooks.alert(MsgFlipBeforeReport)
		return problemgen.Answer{}, false, &ValidationError{Field: "card", Message: MsgFlipBeforeReport, Err: ErrNotFlipped}
	}

	actual := card.Correct()
	if claim != actual {
		msg := MismatchMessage(claim, actual, card.selected, card.Question.CorrectAnswer)
		if !hooks.confirm(msg) {
			return problemgen.Answer{}, false, nil
		}
	}
	return card.Answer(claim), true, nil
}
