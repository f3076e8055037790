package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/flashmath/internal/difficulty"
	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/store"
	"github.com/abhisek/flashmath/internal/validate"
)

// QuestionsPerSession is the fixed length of a session.
const QuestionsPerSession = 10

// LastQuestionIndex is the index of the final question.
const LastQuestionIndex = QuestionsPerSession - 1

// StorageKey is the session-scope key holding the in-progress session.
const StorageKey = "currentSession"

// Phase is where the learner is in the session lifecycle.
type Phase int

const (
	PhaseSetup     Phase = iota // No session; choosing level and operations
	PhaseInSession              // Answering questions
	PhaseComplete               // All questions answered, summary pending
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseInSession:
		return "in-session"
	case PhaseComplete:
		return "complete"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Snapshot is the persisted form of a session. Questions grows by one per
// answered question; it is never generated ahead.
type Snapshot struct {
	SessionID            string                 `json:"sessionId" validate:"required"`
	Level                problemgen.Level       `json:"level" validate:"min=1,max=3"`
	Operations           []problemgen.Operation `json:"operations" validate:"min=1,dive,oneof=add subtract multiply divide"`
	Questions            []problemgen.Question  `json:"questions" validate:"min=1,max=10"`
	CurrentQuestionIndex int                    `json:"currentQuestionIndex" validate:"min=0,max=9"`
	Difficulties         difficulty.Map         `json:"difficulties"`
	Answers              []*problemgen.Answer   `json:"answers" validate:"len=10"`
	Completed            bool                   `json:"completed"`
	StartedAt            int64                  `json:"startedAt"`
}

var snapshotSlot = store.NewSlot[Snapshot](StorageKey, `{
	"type": "object",
	"required": ["sessionId", "level", "operations", "questions", "currentQuestionIndex", "difficulties", "answers"],
	"properties": {
		"sessionId": {"type": "string"},
		"level": {"type": "integer"},
		"operations": {"type": "array", "items": {"type": "string"}},
		"questions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "level", "operation", "operand1", "operand2", "correctAnswer", "choices"],
				"properties": {
					"choices": {"type": "array", "items": {"type": "integer"}}
				}
			}
		},
		"currentQuestionIndex": {"type": "integer"},
		"difficulties": {"type": "object", "additionalProperties": {"type": "integer"}},
		"answers": {
			"type": "array",
			"items": {
				"oneOf": [
					{"type": "null"},
					{
						"type": "object",
						"required": ["questionId", "selectedAnswer", "isCorrect", "selfReported"]
					}
				]
			}
		},
		"completed": {"type": "boolean"},
		"startedAt": {"type": "integer"}
	}
}`)

// Started returns when the session began.
func (s *Snapshot) Started() time.Time {
	return time.UnixMilli(s.StartedAt)
}

// Current returns the question being answered.
func (s *Snapshot) Current() problemgen.Question {
	return s.Questions[s.CurrentQuestionIndex]
}

func (s *Snapshot) clone() *Snapshot {
	c := *s
	c.Operations = append([]problemgen.Operation(nil), s.Operations...)
	c.Questions = append([]problemgen.Question(nil), s.Questions...)
	c.Answers = append([]*problemgen.Answer(nil), s.Answers...)
	c.Difficulties = s.Difficulties.Clone()
	return &c
}

// check enforces the invariants a stored snapshot must satisfy before it is
// resumed.
func (s *Snapshot) check() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	if len(s.Questions) != s.CurrentQuestionIndex+1 {
		return fmt.Errorf("%d questions at index %d", len(s.Questions), s.CurrentQuestionIndex)
	}
	for i := range s.Questions {
		if err := problemgen.Validate(&s.Questions[i], problemgen.DefaultConfig().Validators...); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	for _, op := range s.Operations {
		score, ok := s.Difficulties[string(op)]
		if !ok {
			return fmt.Errorf("no difficulty for %s", op)
		}
		if score != difficulty.Clamp(score) {
			return fmt.Errorf("difficulty %d for %s out of range", score, op)
		}
	}
	if len(s.Difficulties) != len(s.Operations) {
		return errors.New("difficulties do not match operations")
	}
	for i, a := range s.Answers {
		if a == nil {
			if s.Completed {
				return fmt.Errorf("completed session missing answer %d", i)
			}
			continue
		}
		if i > s.CurrentQuestionIndex {
			return fmt.Errorf("answer %d recorded ahead of question %d", i, s.CurrentQuestionIndex)
		}
		if a.QuestionID != s.Questions[i].ID {
			return fmt.Errorf("answer %d is for %q, not %q", i, a.QuestionID, s.Questions[i].ID)
		}
	}
	if s.Completed && s.CurrentQuestionIndex != LastQuestionIndex {
		return errors.New("completed session is not on its last question")
	}
	return nil
}
