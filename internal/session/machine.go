package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/flashmath/internal/difficulty"
	"github.com/abhisek/flashmath/internal/ledger"
	"github.com/abhisek/flashmath/internal/logging"
	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/stats"
	"github.com/abhisek/flashmath/internal/store"
)

var (
	// ErrNoSession is returned when there is no stored session to resume
	// or summarize. Callers send the learner back to setup.
	ErrNoSession = errors.New("no session found")

	// ErrNotInSession is returned for card actions outside a session.
	ErrNotInSession = errors.New("no session in progress")
)

// Config wires a Machine to its collaborators.
type Config struct {
	Generator *problemgen.Generator

	// Current is the session scope holding the in-progress snapshot.
	Current store.KV

	History *stats.History
	Ledger  *ledger.Ledger
	Hooks   Hooks
	Logger  logrus.FieldLogger

	// Clock defaults to time.Now.
	Clock func() time.Time

	// NewID defaults to random UUIDs.
	NewID func() string
}

// Machine drives one learner through setup, ten self-graded cards and the
// summary. It handles one action at a time and is not safe for concurrent
// use.
type Machine struct {
	cfg   Config
	log   logrus.FieldLogger
	phase Phase
	snap  *Snapshot
	card  Card
	final *stats.SessionStats

	// missRecorded is set once the current card's miss is in the ledger,
	// so a report retried after a failed save does not count it twice.
	missRecorded bool
}

// NewMachine returns a Machine in the setup phase.
func NewMachine(cfg Config) *Machine {
	if cfg.Generator == nil {
		cfg.Generator = problemgen.New(nil, problemgen.DefaultConfig())
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &Machine{cfg: cfg, log: logging.OrDiscard(cfg.Logger), phase: PhaseSetup}
}

// SetHooks replaces the presentation callbacks.
func (m *Machine) SetHooks(h Hooks) {
	m.cfg.Hooks = h
}

// Phase returns the current lifecycle phase.
func (m *Machine) Phase() Phase { return m.phase }

// Card returns the card being answered.
func (m *Machine) Card() Card { return m.card }

// Snapshot returns a copy of the session state, or nil in setup.
func (m *Machine) Snapshot() *Snapshot {
	if m.snap == nil {
		return nil
	}
	return m.snap.clone()
}

// Start validates the selection and begins a session with its first
// question. Any previous in-progress session is discarded.
func (m *Machine) Start(ctx context.Context, level problemgen.Level, ops []problemgen.Operation) error {
	if !level.Valid() {
		m.cfg.Hooks.alert(MsgSelectLevel)
		return &ValidationError{Field: "level", Message: MsgSelectLevel}
	}
	if len(ops) == 0 {
		m.cfg.Hooks.alert(MsgSelectOperation)
		return &ValidationError{Field: "operations", Message: MsgSelectOperation}
	}

	selected := make([]problemgen.Operation, 0, len(ops))
	seen := make(map[problemgen.Operation]bool, len(ops))
	for _, op := range ops {
		if !op.Valid() {
			return fmt.Errorf("start session: %w: %q", problemgen.ErrUnknownOperation, op)
		}
		if !seen[op] {
			seen[op] = true
			selected = append(selected, op)
		}
	}

	snap := &Snapshot{
		SessionID:    m.cfg.NewID(),
		Level:        level,
		Operations:   selected,
		Difficulties: difficulty.Initialize(problemgen.OperationNames(selected)),
		Answers:      make([]*problemgen.Answer, QuestionsPerSession),
		StartedAt:    m.cfg.Clock().UnixMilli(),
	}

	first, err := m.nextQuestion(snap)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	snap.Questions = []problemgen.Question{first}

	if err := snapshotSlot.Save(ctx, m.cfg.Current, *snap); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	m.snap = snap
	m.card = NewCard(first)
	m.missRecorded = false
	m.final = nil
	m.phase = PhaseInSession
	m.log.WithFields(logrus.Fields{
		"session_id": snap.SessionID,
		"level":      level.String(),
		"operations": problemgen.OperationNames(selected),
	}).Info("session started")
	return nil
}

// Resume restores the stored session. It returns ErrNoSession when nothing
// usable is stored; a malformed snapshot is logged and removed.
func (m *Machine) Resume(ctx context.Context) error {
	snap, ok, err := snapshotSlot.Load(ctx, m.cfg.Current)
	if err != nil {
		var ce *store.CorruptError
		if !errors.As(err, &ce) {
			return err
		}
		m.log.WithError(err).Warn("discarding unreadable session snapshot")
		m.discard(ctx)
		return ErrNoSession
	}
	if !ok {
		return ErrNoSession
	}
	if err := snap.check(); err != nil {
		m.log.WithError(err).Warn("discarding invalid session snapshot")
		m.discard(ctx)
		return ErrNoSession
	}

	m.snap = &snap
	m.card = NewCard(snap.Current())
	m.missRecorded = false
	m.final = nil
	if snap.Completed {
		s := stats.CalculateSession(snap.Answers)
		m.final = &s
		m.phase = PhaseComplete
	} else {
		m.phase = PhaseInSession
	}
	return nil
}

func (m *Machine) discard(ctx context.Context) {
	if err := snapshotSlot.Delete(ctx, m.cfg.Current); err != nil {
		m.log.WithError(err).Warn("remove session snapshot")
	}
}

// SelectChoice sets the pending answer. It is rejected once the card is
// flipped. Nothing is persisted.
func (m *Machine) SelectChoice(v int) error {
	if m.phase != PhaseInSession {
		return ErrNotInSession
	}
	return m.card.Select(v)
}

// Flip reveals the answer. Without a selection the learner is alerted and
// nothing changes.
func (m *Machine) Flip() error {
	if m.phase != PhaseInSession {
		return ErrNotInSession
	}
	if err := m.card.Flip(); err != nil {
		m.cfg.Hooks.alert(MsgSelectAnswer)
		return &ValidationError{Field: "selection", Message: MsgSelectAnswer, Err: err}
	}
	return nil
}

// SelfReport records the learner's claim about the flipped card. A claim
// that disagrees with the actual result needs confirmation; declining it
// returns OutcomeCancelled with no changes. Difficulty and the ledger follow
// the actual result, not the claim.
func (m *Machine) SelfReport(ctx context.Context, claim bool) (Outcome, error) {
	if m.phase != PhaseInSession {
		return OutcomeCancelled, ErrNotInSession
	}

	answer, ok, err := Grade(m.card, claim, m.cfg.Hooks)
	if err != nil || !ok {
		return OutcomeCancelled, err
	}

	q := m.card.Question
	next := m.snap.clone()
	next.Answers[next.CurrentQuestionIndex] = &answer
	next.Difficulties = difficulty.Update(next.Difficulties, string(q.Operation), answer.IsCorrect)

	if !answer.IsCorrect && m.cfg.Ledger != nil && !m.missRecorded {
		if _, err := m.cfg.Ledger.Upsert(ctx, q); err != nil {
			return OutcomeCancelled, fmt.Errorf("record missed question: %w", err)
		}
		m.missRecorded = true
	}

	if next.CurrentQuestionIndex == LastQuestionIndex {
		if err := m.complete(ctx, next); err != nil {
			return OutcomeCancelled, err
		}
		if claim && answer.IsCorrect {
			m.cfg.Hooks.celebrate()
		}
		return OutcomeCompleted, nil
	}

	nq, err := m.nextQuestion(next)
	if err != nil {
		return OutcomeCancelled, fmt.Errorf("next question: %w", err)
	}
	next.Questions = append(next.Questions, nq)
	next.CurrentQuestionIndex++

	if err := snapshotSlot.Save(ctx, m.cfg.Current, *next); err != nil {
		return OutcomeCancelled, fmt.Errorf("save session: %w", err)
	}

	m.snap = next
	m.card = NewCard(nq)
	m.missRecorded = false
	if claim && answer.IsCorrect {
		m.cfg.Hooks.celebrate()
	}
	return OutcomeAdvanced, nil
}

// complete finalizes the session: statistics go to history exactly once
// and the finished snapshot is stored for the summary. History ignores a
// repeated append for the same session, so a retry after a failed save is
// safe.
func (m *Machine) complete(ctx context.Context, next *Snapshot) error {
	s := stats.CalculateSession(next.Answers)
	next.Completed = true

	if m.cfg.History != nil {
		if _, err := m.cfg.History.Append(ctx, s, next.SessionID, m.cfg.Clock()); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
	}
	if err := snapshotSlot.Save(ctx, m.cfg.Current, *next); err != nil {
		return fmt.Errorf("save finished session: %w", err)
	}

	m.snap = next
	m.final = &s
	m.phase = PhaseComplete
	m.log.WithFields(logrus.Fields{
		"session_id": next.SessionID,
		"correct":    s.Correct,
		"accuracy":   s.Accuracy,
	}).Info("session complete")
	return nil
}

// nextQuestion picks the next question adaptively. When no unique question
// can be found it falls back to any question for a random operation, even
// a duplicate.
func (m *Machine) nextQuestion(snap *Snapshot) (problemgen.Question, error) {
	g := m.cfg.Generator
	id := problemgen.QuestionID(len(snap.Questions))

	q, err := g.GenerateAdaptive(snap.Level, snap.Operations, snap.Difficulties, snap.Questions, id)
	if err == nil {
		return q, nil
	}
	if !errors.Is(err, problemgen.ErrGenerationExhausted) {
		return problemgen.Question{}, err
	}

	op, err := g.PickOperation(snap.Operations)
	if err != nil {
		return problemgen.Question{}, err
	}
	m.log.WithFields(logrus.Fields{
		"session_id": snap.SessionID,
		"question":   id,
		"operation":  string(op),
	}).Warn("no unique question found, allowing a duplicate")
	return g.GenerateQuestion(snap.Level, op, id, snap.Difficulties.Get(string(op)))
}

// Summary returns the finished session and clears it from storage. A second
// call returns ErrNoSession.
func (m *Machine) Summary(ctx context.Context) (*Summary, error) {
	if m.phase != PhaseComplete {
		if err := m.Resume(ctx); err != nil {
			return nil, err
		}
		if m.phase != PhaseComplete {
			return nil, ErrNoSession
		}
	}

	sum := buildSummary(m.snap, *m.final)
	if err := snapshotSlot.Delete(ctx, m.cfg.Current); err != nil {
		return nil, fmt.Errorf("clear finished session: %w", err)
	}
	m.reset()
	return sum, nil
}

// Abandon discards the current session, stored or not.
func (m *Machine) Abandon(ctx context.Context) error {
	if err := snapshotSlot.Delete(ctx, m.cfg.Current); err != nil {
		return fmt.Errorf("abandon session: %w", err)
	}
	m.reset()
	return nil
}

func (m *Machine) reset() {
	m.snap = nil
	m.card = Card{}
	m.missRecorded = false
	m.final = nil
	m.phase = PhaseSetup
}
