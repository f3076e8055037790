// Package stats computes per-session and overall accuracy and keeps the
// bounded history of finished sessions.
package stats

import (
	"math"
	"time"

	"github.com/abhisek/flashmath/internal/problemgen"
)

// SessionStats summarizes one session's answers.
type SessionStats struct {
	Attempted int `json:"attempted" validate:"min=0"`
	Correct   int `json:"correct" validate:"min=0,ltefield=Attempted"`
	Incorrect int `json:"incorrect" validate:"min=0,ltefield=Attempted"`
	Accuracy  int `json:"accuracy" validate:"min=0,max=100"`
}

// Record is a SessionStats entry in the history.
type Record struct {
	SessionStats

	// Timestamp is when the session finished, in Unix milliseconds.
	Timestamp int64  `json:"timestamp" validate:"gt=0"`
	SessionID string `json:"sessionId" validate:"required"`
}

// Time returns the record's timestamp.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Overall aggregates the history.
type Overall struct {
	TotalSessions  int `json:"totalSessions"`
	TotalAttempted int `json:"totalAttempted"`
	TotalCorrect   int `json:"totalCorrect"`
	TotalIncorrect int `json:"totalIncorrect"`

	// OverallAccuracy is total correct over total attempted.
	OverallAccuracy int `json:"overallAccuracy"`

	// AverageAccuracy is the mean of the per-session accuracies.
	AverageAccuracy int `json:"averageAccuracy"`
}

// CalculateSession counts the filled answer slots. Nil slots are
// unanswered and do not count as attempted.
func CalculateSession(answers []*problemgen.Answer) SessionStats {
	var s SessionStats
	for _, a := range answers {
		if a == nil {
			continue
		}
		s.Attempted++
		if a.IsCorrect {
			s.Correct++
		} else {
			s.Incorrect++
		}
	}
	s.Accuracy = Percent(s.Correct, s.Attempted)
	return s
}

// CalculateOverall aggregates records. An empty history yields all zeros.
func CalculateOverall(records []Record) Overall {
	var o Overall
	if len(records) == 0 {
		return o
	}

	accuracySum := 0
	for _, r := range records {
		o.TotalAttempted += r.Attempted
		o.TotalCorrect += r.Correct
		o.TotalIncorrect += r.Incorrect
		accuracySum += r.Accuracy
	}
	o.TotalSessions = len(records)
	o.OverallAccuracy = Percent(o.TotalCorrect, o.TotalAttempted)
	o.AverageAccuracy = int(math.Round(float64(accuracySum) / float64(o.TotalSessions)))
	return o
}

// Percent returns round(100 × part / whole), or 0 when whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
