// Package review walks the learner through previously missed questions.
// Answering one correctly clears it from the ledger; missing it again bumps
// its miss count. The walk wraps around and ends only when the ledger is
// empty.
package review

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/flashmath/internal/ledger"
	"github.com/abhisek/flashmath/internal/logging"
	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/session"
)

// Outcome is the result of grading a review card.
type Outcome int

const (
	// OutcomeCancelled means the mismatch warning was declined.
	OutcomeCancelled Outcome = iota

	// OutcomeCleared means the question was answered correctly and removed.
	OutcomeCleared

	// OutcomeMissed means the question was missed again and kept.
	OutcomeMissed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeCleared:
		return "cleared"
	case OutcomeMissed:
		return "missed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Reviewer holds the review position. It is not safe for concurrent use.
type Reviewer struct {
	ledger *ledger.Ledger
	gen    *problemgen.Generator
	hooks  session.Hooks
	log    logrus.FieldLogger

	records []ledger.Record
	index   int
	card    session.Card
}

// New returns a Reviewer over l. gen supplies choices for records stored
// without any.
func New(l *ledger.Ledger, gen *problemgen.Generator, hooks session.Hooks, log logrus.FieldLogger) *Reviewer {
	if gen == nil {
		gen = problemgen.New(nil, problemgen.DefaultConfig())
	}
	return &Reviewer{ledger: l, gen: gen, hooks: hooks, log: logging.OrDiscard(log)}
}

// SetHooks replaces the presentation callbacks.
func (r *Reviewer) SetHooks(h session.Hooks) {
	r.hooks = h
}

// Load reads the ledger and shows its first record.
func (r *Reviewer) Load(ctx context.Context) error {
	r.index = 0
	return r.reload(ctx)
}

func (r *Reviewer) reload(ctx context.Context) error {
	records, err := r.ledger.All(ctx)
	if err != nil {
		return fmt.Errorf("load wrong questions: %w", err)
	}
	r.records = records
	if len(records) == 0 {
		r.index = 0
		r.card = session.Card{}
		return nil
	}
	if r.index >= len(records) {
		r.index = 0
	}
	return r.show()
}

func (r *Reviewer) show() error {
	q := r.records[r.index].Question
	if len(q.Choices) == 0 {
		choices, err := r.gen.Distractors(q.CorrectAnswer, q.Level)
		if err != nil {
			return fmt.Errorf("choices for %s: %w", q.Key(), err)
		}
		q.Choices = choices
	}
	r.card = session.NewCard(q)
	return nil
}

// Empty reports whether there is nothing left to review.
func (r *Reviewer) Empty() bool {
	return len(r.records) == 0
}

// Position returns the 1-based position of the current card and the count.
func (r *Reviewer) Position() (current, total int) {
	if r.Empty() {
		return 0, 0
	}
	return r.index + 1, len(r.records)
}

// Current returns the record under review.
func (r *Reviewer) Current() (ledger.Record, bool) {
	if r.Empty() {
		return ledger.Record{}, false
	}
	return r.records[r.index], true
}

// Card returns the card being answered.
func (r *Reviewer) Card() session.Card {
	return r.card
}

// SelectChoice sets the pending answer.
func (r *Reviewer) SelectChoice(v int) error {
	if r.Empty() {
		return session.ErrNotInSession
	}
	return r.card.Select(v)
}

// Flip reveals the answer, alerting when nothing is selected.
func (r *Reviewer) Flip() error {
	if r.Empty() {
		return session.ErrNotInSession
	}
	if err := r.card.Flip(); err != nil {
		if r.hooks.AlertValidation != nil {
			r.hooks.AlertValidation(session.MsgSelectAnswer)
		}
		return &session.ValidationError{Field: "selection", Message: session.MsgSelectAnswer, Err: err}
	}
	return nil
}

// SelfReport grades the flipped card by the same rules as a session. A
// correct answer removes the record and shows the record that took its
// place; a miss records another miss and moves to the next record.
func (r *Reviewer) SelfReport(ctx context.Context, claim bool) (Outcome, error) {
	if r.Empty() {
		return OutcomeCancelled, session.ErrNotInSession
	}

	answer, ok, err := session.Grade(r.card, claim, r.hooks)
	if err != nil || !ok {
		return OutcomeCancelled, err
	}

	q := r.card.Question
	if answer.IsCorrect {
		if err := r.ledger.Remove(ctx, q); err != nil {
			return OutcomeCancelled, err
		}
		if claim && r.hooks.Celebrate != nil {
			r.hooks.Celebrate()
		}
		r.log.WithField("key", q.Key()).Info("review cleared question")
		return OutcomeCleared, r.reload(ctx)
	}

	if _, err := r.ledger.Upsert(ctx, q); err != nil {
		return OutcomeCancelled, err
	}
	r.index++
	return OutcomeMissed, r.reload(ctx)
}

// Next skips to the following record without grading.
func (r *Reviewer) Next() error {
	if r.Empty() {
		return nil
	}
	r.index = (r.index + 1) % len(r.records)
	return r.show()
}

// Clear empties the ledger.
func (r *Reviewer) Clear(ctx context.Context) error {
	if err := r.ledger.Clear(ctx); err != nil {
		return err
	}
	return r.Load(ctx)
}
