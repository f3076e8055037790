// Package ledger keeps the learner's missed questions until they are
// answered correctly in review.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/flashmath/internal/logging"
	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/store"
	"github.com/abhisek/flashmath/internal/validate"
)

// StorageKey is the local-scope key holding the ledger.
const StorageKey = "wrongQuestions.v1"

var ledgerSlot = store.NewSlot[entries](StorageKey, `{
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"required": ["questionId", "question", "missCount", "timestamps"],
		"properties": {
			"questionId": {"type": "string"},
			"missCount": {"type": "integer", "minimum": 1},
			"timestamps": {"type": "array", "items": {"type": "integer"}},
			"question": {
				"type": "object",
				"required": ["operation", "operand1", "operand2", "correctAnswer"],
				"properties": {
					"id": {"type": "string"},
					"level": {"type": "integer"},
					"operation": {"type": "string"},
					"operand1": {"type": "integer"},
					"operand2": {"type": "integer"},
					"correctAnswer": {"type": "integer"},
					"choices": {"type": "array", "items": {"type": "integer"}}
				}
			}
		}
	}
}`)

// Record is one missed question.
type Record struct {
	QuestionID string              `json:"questionId" validate:"required"`
	Question   problemgen.Question `json:"question"`
	MissCount  int                 `json:"missCount" validate:"min=1"`

	// Timestamps holds one Unix-millisecond entry per miss.
	Timestamps []int64 `json:"timestamps" validate:"min=1"`
}

// LastMissed returns the time of the most recent miss.
func (r Record) LastMissed() time.Time {
	if len(r.Timestamps) == 0 {
		return time.Time{}
	}
	return time.UnixMilli(r.Timestamps[len(r.Timestamps)-1])
}

func (r Record) check() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if len(r.Timestamps) != r.MissCount {
		return fmt.Errorf("%d timestamps for %d misses", len(r.Timestamps), r.MissCount)
	}
	return problemgen.ValidateStored(&r.Question)
}

// Ledger is the wrong-question store, keyed by operation and ordered
// operands. Every call reads and writes the whole ledger; it is not safe for
// concurrent use.
type Ledger struct {
	kv  store.KV
	log logrus.FieldLogger
	now func() time.Time
}

// New returns a Ledger over kv. A nil now uses time.Now.
func New(kv store.KV, log logrus.FieldLogger, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{kv: kv, log: logging.OrDiscard(log), now: now}
}

// Upsert records a miss of q: a new record with one miss, or one more miss
// on the existing record for the same key.
func (l *Ledger) Upsert(ctx context.Context, q problemgen.Question) (Record, error) {
	e, err := l.load(ctx)
	if err != nil {
		return Record{}, err
	}

	key := q.Key()
	ts := l.now().UnixMilli()
	rec, ok := e.get(key)
	if ok {
		rec.MissCount++
		rec.Timestamps = append(rec.Timestamps, ts)
	} else {
		rec = newRecord(q, key, ts)
	}
	e.set(key, rec)

	if err := ledgerSlot.Save(ctx, l.kv, e); err != nil {
		return Record{}, fmt.Errorf("save ledger: %w", err)
	}
	l.log.WithFields(logrus.Fields{"key": key, "misses": rec.MissCount}).Debug("recorded missed question")
	return rec, nil
}

func newRecord(q problemgen.Question, key string, ts int64) Record {
	id := q.ID
	if id == "" {
		id = key
	}
	snap := q
	snap.ID = id
	snap.Choices = append([]int{}, q.Choices...)
	return Record{
		QuestionID: id,
		Question:   snap,
		MissCount:  1,
		Timestamps: []int64{ts},
	}
}

// Remove deletes the record for q's key. Removing an absent key is a no-op
// and does not rewrite storage.
func (l *Ledger) Remove(ctx context.Context, q problemgen.Question) error {
	e, err := l.load(ctx)
	if err != nil {
		return err
	}
	key := q.Key()
	if !e.remove(key) {
		return nil
	}
	if err := ledgerSlot.Save(ctx, l.kv, e); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	l.log.WithField("key", key).Debug("cleared missed question")
	return nil
}

// Get returns the record for q's key, or nil.
func (l *Ledger) Get(ctx context.Context, q problemgen.Question) (*Record, error) {
	e, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := e.get(q.Key())
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// All returns every record in the order it was first missed.
func (l *Ledger) All(ctx context.Context) ([]Record, error) {
	e, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	return e.values(), nil
}

// Count returns the number of distinct missed questions.
func (l *Ledger) Count(ctx context.Context) (int, error) {
	e, err := l.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(e.keys), nil
}

// Clear removes every record.
func (l *Ledger) Clear(ctx context.Context) error {
	if err := ledgerSlot.Delete(ctx, l.kv); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	return nil
}

// load reads the ledger. An unreadable ledger is logged and treated as
// empty; individual invalid records are dropped.
func (l *Ledger) load(ctx context.Context) (entries, error) {
	e, ok, err := ledgerSlot.Load(ctx, l.kv)
	if err != nil {
		var ce *store.CorruptError
		if !errors.As(err, &ce) {
			return entries{}, err
		}
		l.log.WithError(err).Warn("discarding unreadable wrong-question ledger")
		return entries{}, nil
	}
	if !ok {
		return entries{}, nil
	}

	for _, key := range append([]string(nil), e.keys...) {
		rec, _ := e.get(key)
		if err := rec.check(); err != nil {
			l.log.WithError(err).WithField("key", key).Warn("dropping invalid wrong-question record")
			e.remove(key)
			continue
		}
		if want := rec.Question.Key(); want != key {
			l.log.WithFields(logrus.Fields{"key": key, "question": want}).
				Warn("dropping wrong-question record stored under another key")
			e.remove(key)
		}
	}
	return e, nil
}
