package problemgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Operation is an arithmetic operation a question can exercise.
type Operation string

const (
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
	OpMultiply Operation = "multiply"
	OpDivide   Operation = "divide"
)

// AllOperations lists every operation in display order.
var AllOperations = []Operation{OpAdd, OpSubtract, OpMultiply, OpDivide}

var operationSymbols = map[Operation]string{
	OpAdd:      "+",
	OpSubtract: "−",
	OpMultiply: "×",
	OpDivide:   "÷",
}

// Symbol returns the display symbol for o, or the raw name when o is unknown.
func (o Operation) Symbol() string {
	if s, ok := operationSymbols[o]; ok {
		return s
	}
	return string(o)
}

// Valid reports whether o is one of the four supported operations.
func (o Operation) Valid() bool {
	_, ok := operationSymbols[o]
	return ok
}

// ParseOperation accepts an operation name ("add") or its symbol ("+").
// ASCII "-", "*", "x" and "/" are accepted as well.
func ParseOperation(s string) (Operation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "add", "+":
		return OpAdd, nil
	case "subtract", "-", "−":
		return OpSubtract, nil
	case "multiply", "*", "x", "×":
		return OpMultiply, nil
	case "divide", "/", "÷":
		return OpDivide, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// OperationNames converts ops to their string names.
func OperationNames(ops []Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = string(op)
	}
	return out
}

// Level is the learner's age band.
type Level int

const (
	Level1 Level = 1 // ages 7-8
	Level2 Level = 2 // ages 9-10
	Level3 Level = 3 // ages 11-12
)

// AllLevels lists the levels in ascending order.
var AllLevels = []Level{Level1, Level2, Level3}

// LevelConfig bounds the operands generated for a level.
type LevelConfig struct {
	// OperandMin and OperandMax bound addition and subtraction operands.
	OperandMin int
	OperandMax int

	// TableMax bounds multiplication factors, divisors and quotients.
	TableMax int
}

var levelConfigs = map[Level]LevelConfig{
	Level1: {OperandMin: -20, OperandMax: 50, TableMax: 10},
	Level2: {OperandMin: -50, OperandMax: 100, TableMax: 15},
	Level3: {OperandMin: -100, OperandMax: 100, TableMax: 20},
}

var levelBands = map[Level]string{
	Level1: "7-8",
	Level2: "9-10",
	Level3: "11-12",
}

// Config returns the operand bounds for l.
func (l Level) Config() (LevelConfig, error) {
	cfg, ok := levelConfigs[l]
	if !ok {
		return LevelConfig{}, fmt.Errorf("%w: %d", ErrUnknownLevel, int(l))
	}
	return cfg, nil
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	_, ok := levelConfigs[l]
	return ok
}

// String returns the age band, e.g. "9-10".
func (l Level) String() string {
	if b, ok := levelBands[l]; ok {
		return b
	}
	return "level " + strconv.Itoa(int(l))
}

// ParseLevel accepts an age band ("7-8") or a level number ("1").
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	for l, band := range levelBands {
		if s == band {
			return l, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Level(n).Valid() {
		return Level(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Question is a generated flashcard. It is not modified after generation.
type Question struct {
	ID            string    `json:"id" validate:"required"`
	Level         Level     `json:"level" validate:"min=1,max=3"`
	Operation     Operation `json:"operation" validate:"oneof=add subtract multiply divide"`
	Operand1      int       `json:"operand1"`
	Operand2      int       `json:"operand2"`
	CorrectAnswer int       `json:"correctAnswer"`
	Choices       []int     `json:"choices"`
}

// Prompt renders the question as "a <op> b = ?". A negative second operand
// is parenthesized.
func (q Question) Prompt() string {
	b := strconv.Itoa(q.Operand2)
	if q.Operand2 < 0 {
		b = "(" + b + ")"
	}
	return fmt.Sprintf("%d %s %s = ?", q.Operand1, q.Operation.Symbol(), b)
}

// Key identifies the question by operation and ordered operands. Two
// questions with equal keys are duplicates.
func (q Question) Key() string {
	return fmt.Sprintf("%s-%d-%d", q.Operation, q.Operand1, q.Operand2)
}

// HasChoice reports whether v is one of the question's choices.
func (q Question) HasChoice(v int) bool {
	for _, c := range q.Choices {
		if c == v {
			return true
		}
	}
	return false
}

// Answer records the learner's response to one question.
type Answer struct {
	QuestionID     string `json:"questionId" validate:"required"`
	SelectedAnswer int    `json:"selectedAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
	SelfReported   bool   `json:"selfReported"`
}
