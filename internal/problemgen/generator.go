package problemgen

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/flashmath/internal/difficulty"
)

// ChoiceCount is the number of answer choices on every card.
const ChoiceCount = 4

var (
	// ErrUnknownOperation is returned for an operation name outside
	// add, subtract, multiply and divide.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrUnknownLevel is returned for a level outside 1-3.
	ErrUnknownLevel = errors.New("unknown level")

	// ErrNoOperations is returned when asked to pick from an empty set.
	ErrNoOperations = errors.New("no operations selected")

	// ErrGenerationExhausted is returned when no non-duplicate question
	// was found within the attempt budget.
	ErrGenerationExhausted = errors.New("could not generate a unique question")
)

// Generator produces arithmetic questions. It owns a random source and is
// not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
	cfg Config
}

// New returns a Generator drawing from rng. A nil rng gets a randomly
// seeded source. Zero limits in cfg fall back to DefaultConfig values.
func New(rng *rand.Rand, cfg Config) *Generator {
	if rng == nil {
		rng = NewRand()
	}
	def := DefaultConfig()
	if cfg.Validators == nil {
		cfg.Validators = def.Validators
	}
	if cfg.MaxAdaptiveAttempts <= 0 {
		cfg.MaxAdaptiveAttempts = def.MaxAdaptiveAttempts
	}
	if cfg.MaxBatchAttempts <= 0 {
		cfg.MaxBatchAttempts = def.MaxBatchAttempts
	}
	if cfg.MaxDistractorAttempts <= 0 {
		cfg.MaxDistractorAttempts = def.MaxDistractorAttempts
	}
	if cfg.QuestionsPerSession <= 0 {
		cfg.QuestionsPerSession = def.QuestionsPerSession
	}
	return &Generator{rng: rng, cfg: cfg}
}

// Config returns the generator's effective configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Operands is the raw output of a single-operation generator.
type Operands struct {
	Operand1      int
	Operand2      int
	CorrectAnswer int
}

// GenerateAddition draws both operands from the level's operand range
// shifted by score. Negative operands are allowed.
func (g *Generator) GenerateAddition(level Level, score int) (Operands, error) {
	a, b, err := g.rangeOperands(level, score)
	if err != nil {
		return Operands{}, err
	}
	return Operands{Operand1: a, Operand2: b, CorrectAnswer: a + b}, nil
}

// GenerateSubtraction is GenerateAddition with the difference as answer.
func (g *Generator) GenerateSubtraction(level Level, score int) (Operands, error) {
	a, b, err := g.rangeOperands(level, score)
	if err != nil {
		return Operands{}, err
	}
	return Operands{Operand1: a, Operand2: b, CorrectAnswer: a - b}, nil
}

// GenerateMultiplication draws both factors from [1, adjusted table max].
func (g *Generator) GenerateMultiplication(level Level, score int) (Operands, error) {
	tableMax, err := g.tableMax(level, score)
	if err != nil {
		return Operands{}, err
	}
	a := intBetween(g.rng, 1, tableMax)
	b := intBetween(g.rng, 1, tableMax)
	return Operands{Operand1: a, Operand2: b, CorrectAnswer: a * b}, nil
}

// GenerateDivision builds an exact division from a divisor and quotient
// drawn from [1, adjusted table max].
func (g *Generator) GenerateDivision(level Level, score int) (Operands, error) {
	tableMax, err := g.tableMax(level, score)
	if err != nil {
		return Operands{}, err
	}
	divisor := intBetween(g.rng, 1, tableMax)
	quotient := intBetween(g.rng, 1, tableMax)
	return Operands{Operand1: divisor * quotient, Operand2: divisor, CorrectAnswer: quotient}, nil
}

func (g *Generator) rangeOperands(level Level, score int) (int, int, error) {
	cfg, err := level.Config()
	if err != nil {
		return 0, 0, err
	}
	lo, hi := difficulty.AdjustedRange(cfg.OperandMin, cfg.OperandMax, score)
	return intBetween(g.rng, lo, hi), intBetween(g.rng, lo, hi), nil
}

func (g *Generator) tableMax(level Level, score int) (int, error) {
	cfg, err := level.Config()
	if err != nil {
		return 0, err
	}
	return difficulty.AdjustedTableMax(cfg.TableMax, score), nil
}

// GenerateQuestion builds a complete question for op with shuffled choices.
func (g *Generator) GenerateQuestion(level Level, op Operation, id string, score int) (Question, error) {
	var (
		ops Operands
		err error
	)
	switch op {
	case OpAdd:
		ops, err = g.GenerateAddition(level, score)
	case OpSubtract:
		ops, err = g.GenerateSubtraction(level, score)
	case OpMultiply:
		ops, err = g.GenerateMultiplication(level, score)
	case OpDivide:
		ops, err = g.GenerateDivision(level, score)
	default:
		return Question{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	if err != nil {
		return Question{}, err
	}

	choices, err := g.Distractors(ops.CorrectAnswer, level)
	if err != nil {
		return Question{}, err
	}

	q := Question{
		ID:            id,
		Level:         level,
		Operation:     op,
		Operand1:      ops.Operand1,
		Operand2:      ops.Operand2,
		CorrectAnswer: ops.CorrectAnswer,
		Choices:       choices,
	}
	if err := Validate(&q, g.cfg.Validators...); err != nil {
		return Question{}, fmt.Errorf("generated question failed validation: %w", err)
	}
	return q, nil
}

// Distractors returns four distinct shuffled choices including correct.
// Wrong choices are drawn from a window around the answer clamped to
// [level min, 2 × level max]. After MaxDistractorAttempts draws the rest
// are filled by walking outward from the answer: +1, -1, +2, -2 and so on.
func (g *Generator) Distractors(correct int, level Level) ([]int, error) {
	cfg, err := level.Config()
	if err != nil {
		return nil, err
	}

	spread := max(20, 2*abs(correct))
	lo := max(cfg.OperandMin, correct-spread)
	hi := min(cfg.OperandMax*2, correct+spread)

	choices := []int{correct}
	chosen := map[int]bool{correct: true}

	if hi >= lo {
		for attempts := 0; len(choices) < ChoiceCount && attempts < g.cfg.MaxDistractorAttempts; attempts++ {
			v := intBetween(g.rng, lo, hi)
			if chosen[v] {
				continue
			}
			chosen[v] = true
			choices = append(choices, v)
		}
	}

	for step := 1; len(choices) < ChoiceCount; step++ {
		for _, v := range []int{correct + step, correct - step} {
			if len(choices) < ChoiceCount && !chosen[v] {
				chosen[v] = true
				choices = append(choices, v)
			}
		}
	}

	shuffle(g.rng, choices)
	return choices, nil
}

// PickOperation returns one of ops uniformly at random.
func (g *Generator) PickOperation(ops []Operation) (Operation, error) {
	if len(ops) == 0 {
		return "", ErrNoOperations
	}
	return ops[g.rng.IntN(len(ops))], nil
}

// GenerateAdaptive draws an operation from ops, generates a question at
// that operation's difficulty and retries while it duplicates one in
// existing. It returns ErrGenerationExhausted after MaxAdaptiveAttempts.
func (g *Generator) GenerateAdaptive(level Level, ops []Operation, scores difficulty.Map, existing []Question, id string) (Question, error) {
	for attempt := 0; attempt < g.cfg.MaxAdaptiveAttempts; attempt++ {
		op, err := g.PickOperation(ops)
		if err != nil {
			return Question{}, err
		}
		q, err := g.GenerateQuestion(level, op, id, scores.Get(string(op)))
		if err != nil {
			return Question{}, err
		}
		if !IsDuplicate(q, existing) {
			return q, nil
		}
	}
	return Question{}, fmt.Errorf("%w after %d attempts", ErrGenerationExhausted, g.cfg.MaxAdaptiveAttempts)
}

// GenerateSessionQuestions builds a full set of unique questions at neutral
// difficulty, ids "q1" onward. If an operation cannot yield a new question
// within MaxBatchAttempts the questions found so far are returned together
// with ErrGenerationExhausted.
func (g *Generator) GenerateSessionQuestions(level Level, ops []Operation) ([]Question, error) {
	questions := make([]Question, 0, g.cfg.QuestionsPerSession)
	for len(questions) < g.cfg.QuestionsPerSession {
		op, err := g.PickOperation(ops)
		if err != nil {
			return nil, err
		}

		id := QuestionID(len(questions))
		found := false
		for attempt := 0; attempt < g.cfg.MaxBatchAttempts; attempt++ {
			q, err := g.GenerateQuestion(level, op, id, 0)
			if err != nil {
				return nil, err
			}
			if !IsDuplicate(q, questions) {
				questions = append(questions, q)
				found = true
				break
			}
		}
		if !found {
			return questions, fmt.Errorf("%w: only %d of %d questions", ErrGenerationExhausted, len(questions), g.cfg.QuestionsPerSession)
		}
	}
	return questions, nil
}

// QuestionID returns the id of the question at zero-based index i: "q1" for 0.
func QuestionID(i int) string {
	return fmt.Sprintf("q%d", i+1)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
