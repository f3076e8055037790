package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/flashmath/internal/logging"
	"github.com/abhisek/flashmath/internal/store"
	"github.com/abhisek/flashmath/internal/validate"
)

// DefaultCapacity is how many records the history keeps.
const DefaultCapacity = 100

// Storage keys in the local scope.
const (
	HistoryKey    = "sessionStats.v1"
	LegacyLastKey = "lastSessionStats.v1"
)

const recordProperties = `{
	"attempted": {"type": "integer", "minimum": 0},
	"correct":   {"type": "integer", "minimum": 0},
	"incorrect": {"type": "integer", "minimum": 0},
	"accuracy":  {"type": "integer", "minimum": 0, "maximum": 100},
	"timestamp": {"type": "integer"},
	"sessionId": {"type": "string"}
}`

var historySlot = store.NewSlot[[]Record](HistoryKey, `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["attempted", "correct", "incorrect", "accuracy", "timestamp"],
		"properties": `+recordProperties+`
	}
}`)

var legacySlot = store.NewSlot[Record](LegacyLastKey, `{
	"type": "object",
	"required": ["attempted", "correct", "incorrect", "accuracy", "timestamp"],
	"properties": `+recordProperties+`
}`)

// History is the list of finished sessions, oldest first, bounded by its
// capacity. It is not safe for concurrent use.
type History struct {
	kv       store.KV
	capacity int
	log      logrus.FieldLogger
}

// NewHistory returns a History over kv. A capacity <= 0 uses DefaultCapacity.
func NewHistory(kv store.KV, capacity int, log logrus.FieldLogger) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{kv: kv, capacity: capacity, log: logging.OrDiscard(log)}
}

// Append adds a record for a finished session, dropping the oldest records
// beyond capacity. Appending the session that is already last returns the
// stored record unchanged.
func (h *History) Append(ctx context.Context, s SessionStats, sessionID string, at time.Time) (Record, error) {
	records, err := h.All(ctx)
	if err != nil {
		return Record{}, err
	}
	if n := len(records); n > 0 && sessionID != "" && records[n-1].SessionID == sessionID {
		h.log.WithField("session_id", sessionID).Debug("session already in history")
		return records[n-1], nil
	}

	rec := Record{SessionStats: s, Timestamp: at.UnixMilli(), SessionID: sessionID}
	records = append(records, rec)
	if len(records) > h.capacity {
		records = records[len(records)-h.capacity:]
	}

	if err := historySlot.Save(ctx, h.kv, records); err != nil {
		return Record{}, fmt.Errorf("save history: %w", err)
	}
	return rec, nil
}

// All returns every stored record, oldest first. When only the legacy
// single-record slot exists its record is returned instead. Malformed
// history is logged and treated as empty.
func (h *History) All(ctx context.Context) ([]Record, error) {
	records, ok, err := historySlot.Load(ctx, h.kv)
	if err != nil {
		var ce *store.CorruptError
		if !errors.As(err, &ce) {
			return nil, err
		}
		h.log.WithError(err).Warn("discarding unreadable session history")
		return nil, nil
	}
	if !ok {
		return h.legacy(ctx)
	}

	valid := records[:0]
	for _, r := range records {
		if err := validate.Struct(r); err != nil {
			h.log.WithError(err).WithField("session_id", r.SessionID).Warn("dropping invalid history record")
			continue
		}
		valid = append(valid, r)
	}
	return valid, nil
}

func (h *History) legacy(ctx context.Context) ([]Record, error) {
	rec, ok, err := legacySlot.Load(ctx, h.kv)
	if err != nil {
		var ce *store.CorruptError
		if !errors.As(err, &ce) {
			return nil, err
		}
		h.log.WithError(err).Warn("ignoring unreadable legacy session stats")
		return nil, nil
	}
	if !ok || rec.Timestamp <= 0 {
		return nil, nil
	}
	if rec.SessionID == "" {
		rec.SessionID = fmt.Sprintf("session-%d", rec.Timestamp)
	}
	h.log.Info("migrating legacy last-session stats into history")
	return []Record{rec}, nil
}

// Last returns the most recent record, or nil when there is none.
func (h *History) Last(ctx context.Context) (*Record, error) {
	records, err := h.All(ctx)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	last := records[len(records)-1]
	return &last, nil
}

// Overall aggregates every stored record.
func (h *History) Overall(ctx context.Context) (Overall, error) {
	records, err := h.All(ctx)
	if err != nil {
		return Overall{}, err
	}
	return CalculateOverall(records), nil
}

// Clear removes the history and the legacy slot.
func (h *History) Clear(ctx context.Context) error {
	if err := historySlot.Delete(ctx, h.kv); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	if err := legacySlot.Delete(ctx, h.kv); err != nil {
		return fmt.Errorf("clear legacy stats: %w", err)
	}
	return nil
}
