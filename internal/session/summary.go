package session

import (
	"time"

	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/stats"
)

// Summary holds the data displayed on the summary screen.
type Summary struct {
	SessionID  string
	Level      problemgen.Level
	Operations []problemgen.Operation
	Stats      stats.SessionStats
	Results    []QuestionResult
	StartedAt  time.Time
}

// QuestionResult pairs a question with the learner's answer, if any.
type QuestionResult struct {
	Question problemgen.Question
	Answer   *problemgen.Answer
}

func buildSummary(snap *Snapshot, s stats.SessionStats) *Summary {
	results := make([]QuestionResult, len(snap.Questions))
	for i, q := range snap.Questions {
		results[i] = QuestionResult{Question: q}
		if i < len(snap.Answers) && snap.Answers[i] != nil {
			a := *snap.Answers[i]
			results[i].Answer = &a
		}
	}
	return &Summary{
		SessionID:  snap.SessionID,
		Level:      snap.Level,
		Operations: append([]problemgen.Operation(nil), snap.Operations...),
		Stats:      s,
		Results:    results,
		StartedAt:  snap.Started(),
	}
}

// Progress reports the 1-based number of the current question and the total,
// e.g. 3 of 10.
func (m *Machine) Progress() (current, total int) {
	if m.snap == nil {
		return 0, QuestionsPerSession
	}
	return m.snap.CurrentQuestionIndex + 1, QuestionsPerSession
}

// Answered returns how many answer slots are filled.
func (m *Machine) Answered() int {
	if m.snap == nil {
		return 0
	}
	n := 0
	for _, a := range m.snap.Answers {
		if a != nil {
			n++
		}
	}
	return n
}
