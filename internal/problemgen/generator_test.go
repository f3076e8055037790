package problemgen

import (
	"errors"
	"testing"

	"github.com/abhisek/flashmath/internal/difficulty"
)

func testGenerator(seed uint64) *Generator {
	return New(NewSeededRand(seed), DefaultConfig())
}

func TestGenerateAddition_InRange(t *testing.T) {
	g := testGenerator(1)
	for _, level := range AllLevels {
		cfg, _ := level.Config()
		for score := difficulty.MinScore; score <= difficulty.MaxScore; score++ {
			lo, hi := difficulty.AdjustedRange(cfg.OperandMin, cfg.OperandMax, score)
			for i := 0; i < 200; i++ {
				ops, err := g.GenerateAddition(level, score)
				if err != nil {
					t.Fatalf("GenerateAddition: %v", err)
				}
				if ops.Operand1 < lo || ops.Operand1 > hi || ops.Operand2 < lo || ops.Operand2 > hi {
					t.Fatalf("level %d score %d: operands %d, %d outside [%d, %d]",
						level, score, ops.Operand1, ops.Operand2, lo, hi)
				}
				if ops.CorrectAnswer != ops.Operand1+ops.Operand2 {
					t.Fatalf("answer = %d, want %d", ops.CorrectAnswer, ops.Operand1+ops.Operand2)
				}
			}
		}
	}
}

func TestGenerateSubtraction_Answer(t *testing.T) {
	g := testGenerator(2)
	sawNegative := false
	for i := 0; i < 500; i++ {
		ops, err := g.GenerateSubtraction(Level1, 0)
		if err != nil {
			t.Fatalf("GenerateSubtraction: %v", err)
		}
		if ops.CorrectAnswer != ops.Operand1-ops.Operand2 {
			t.Fatalf("answer = %d, want %d", ops.CorrectAnswer, ops.Operand1-ops.Operand2)
		}
		if ops.Operand1 < 0 || ops.Operand2 < 0 {
			sawNegative = true
		}
	}
	if !sawNegative {
		t.Error("expected negative operands to occur at level 1")
	}
}

func TestGenerateMultiplication_TableBounds(t *testing.T) {
	g := testGenerator(3)
	for _, level := range AllLevels {
		cfg, _ := level.Config()
		for score := difficulty.MinScore; score <= difficulty.MaxScore; score++ {
			tableMax := difficulty.AdjustedTableMax(cfg.TableMax, score)
			for i := 0; i < 200; i++ {
				ops, err := g.GenerateMultiplication(level, score)
				if err != nil {
					t.Fatalf("GenerateMultiplication: %v", err)
				}
				if ops.Operand1 < 1 || ops.Operand1 > tableMax || ops.Operand2 < 1 || ops.Operand2 > tableMax {
					t.Fatalf("factors %d, %d outside [1, %d]", ops.Operand1, ops.Operand2, tableMax)
				}
				if ops.CorrectAnswer != ops.Operand1*ops.Operand2 {
					t.Fatalf("answer = %d, want %d", ops.CorrectAnswer, ops.Operand1*ops.Operand2)
				}
			}
		}
	}
}

func TestGenerateDivision_Exact(t *testing.T) {
	g := testGenerator(4)
	for _, level := range AllLevels {
		cfg, _ := level.Config()
		for score := difficulty.MinScore; score <= difficulty.MaxScore; score++ {
			tableMax := difficulty.AdjustedTableMax(cfg.TableMax, score)
			for i := 0; i < 200; i++ {
				ops, err := g.GenerateDivision(level, score)
				if err != nil {
					t.Fatalf("GenerateDivision: %v", err)
				}
				if ops.Operand2 == 0 {
					t.Fatal("divisor is zero")
				}
				if ops.Operand1 != ops.Operand2*ops.CorrectAnswer {
					t.Fatalf("%d != %d × %d", ops.Operand1, ops.Operand2, ops.CorrectAnswer)
				}
				if ops.Operand2 > tableMax || ops.CorrectAnswer < 1 || ops.CorrectAnswer > tableMax {
					t.Fatalf("divisor %d / quotient %d outside [1, %d]", ops.Operand2, ops.CorrectAnswer, tableMax)
				}
			}
		}
	}
}

func TestDistractors_Properties(t *testing.T) {
	g := testGenerator(5)
	answers := []int{0, 1, -1, 7, 42, -150, 300, 676, 1000, -1000}
	for _, level := range AllLevels {
		for _, correct := range answers {
			for i := 0; i < 20; i++ {
				choices, err := g.Distractors(correct, level)
				if err != nil {
					t.Fatalf("Distractors: %v", err)
				}
				q := Question{CorrectAnswer: correct, Choices: choices}
				if verr := (&ChoicesValidator{}).Validate(&q); verr != nil {
					t.Fatalf("level %d correct %d: %v (choices %v)", level, correct, verr, choices)
				}
			}
		}
	}
}

func TestDistractors_WidensWhenDrawsRunOut(t *testing.T) {
	// A budget of zero random draws forces the outward walk.
	cfg := DefaultConfig()
	g := New(NewSeededRand(6), cfg)
	g.cfg.MaxDistractorAttempts = 0

	choices, err := g.Distractors(10, Level1)
	if err != nil {
		t.Fatalf("Distractors: %v", err)
	}
	want := map[int]bool{10: true, 11: true, 9: true, 12: true}
	if len(choices) != ChoiceCount {
		t.Fatalf("len = %d, want %d", len(choices), ChoiceCount)
	}
	for _, c := range choices {
		if !want[c] {
			t.Errorf("unexpected choice %d in %v", c, choices)
		}
	}
}

func TestDistractors_UnknownLevel(t *testing.T) {
	g := testGenerator(7)
	if _, err := g.Distractors(5, Level(9)); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("err = %v, want ErrUnknownLevel", err)
	}
}

func TestGenerateQuestion(t *testing.T) {
	g := testGenerator(8)
	for _, level := range AllLevels {
		for _, op := range AllOperations {
			q, err := g.GenerateQuestion(level, op, "q3", 0)
			if err != nil {
				t.Fatalf("GenerateQuestion(%d, %s): %v", level, op, err)
			}
			if q.ID != "q3" || q.Level != level || q.Operation != op {
				t.Errorf("metadata = (%s, %d, %s), want (q3, %d, %s)", q.ID, q.Level, q.Operation, level, op)
			}
			if !q.HasChoice(q.CorrectAnswer) {
				t.Errorf("choices %v missing answer %d", q.Choices, q.CorrectAnswer)
			}
		}
	}
}

func TestGenerateQuestion_UnknownOperation(t *testing.T) {
	g := testGenerator(9)
	_, err := g.GenerateQuestion(Level1, Operation("modulo"), "q1", 0)
	if !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("err = %v, want ErrUnknownOperation", err)
	}
}

func TestGenerateQuestion_Deterministic(t *testing.T) {
	a, _ := testGenerator(42).GenerateQuestion(Level2, OpAdd, "q1", 1)
	b, _ := testGenerator(42).GenerateQuestion(Level2, OpAdd, "q1", 1)
	if a.Key() != b.Key() {
		t.Errorf("same seed produced %s and %s", a.Key(), b.Key())
	}
}

func TestGenerateAdaptive_AvoidsDuplicates(t *testing.T) {
	g := testGenerator(10)
	ops := []Operation{OpAdd, OpMultiply}
	scores := difficulty.Initialize(OperationNames(ops))

	var existing []Question
	for i := 0; i < 10; i++ {
		q, err := g.GenerateAdaptive(Level1, ops, scores, existing, QuestionID(i))
		if err != nil {
			t.Fatalf("GenerateAdaptive #%d: %v", i, err)
		}
		if IsDuplicate(q, existing) {
			t.Fatalf("question %s duplicates an earlier one", q.Key())
		}
		if q.Operation != OpAdd && q.Operation != OpMultiply {
			t.Fatalf("operation %s not in selection", q.Operation)
		}
		existing = append(existing, q)
	}
}

func TestGenerateAdaptive_Exhausted(t *testing.T) {
	// Level 1 at score -3 has a 7 × 7 table: 49 distinct products. Seed the
	// existing list with all of them so nothing new can be produced.
	g := testGenerator(11)
	tableMax := difficulty.AdjustedTableMax(10, -3)
	var existing []Question
	for a := 1; a <= tableMax; a++ {
		for b := 1; b <= tableMax; b++ {
			existing = append(existing, Question{Operation: OpMultiply, Operand1: a, Operand2: b})
		}
	}

	_, err := g.GenerateAdaptive(Level1, []Operation{OpMultiply}, difficulty.Map{"multiply": -3}, existing, "q1")
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("err = %v, want ErrGenerationExhausted", err)
	}
}

func TestGenerateAdaptive_NoOperations(t *testing.T) {
	g := testGenerator(12)
	if _, err := g.GenerateAdaptive(Level1, nil, difficulty.Map{}, nil, "q1"); !errors.Is(err, ErrNoOperations) {
		t.Errorf("err = %v, want ErrNoOperations", err)
	}
}

func TestGenerateSessionQuestions(t *testing.T) {
	g := testGenerator(13)
	qs, err := g.GenerateSessionQuestions(Level2, AllOperations)
	if err != nil {
		t.Fatalf("GenerateSessionQuestions: %v", err)
	}
	if len(qs) != 10 {
		t.Fatalf("len = %d, want 10", len(qs))
	}
	for i, q := range qs {
		if q.ID != QuestionID(i) {
			t.Errorf("qs[%d].ID = %q, want %q", i, q.ID, QuestionID(i))
		}
		if IsDuplicate(q, qs[:i]) {
			t.Errorf("qs[%d] duplicates an earlier question", i)
		}
	}
}

func TestGenerateDivision_LevelOneNeverZero(t *testing.T) {
	g := testGenerator(14)
	for i := 0; i < 50; i++ {
		ops, err := g.GenerateDivision(Level1, 0)
		if err != nil {
			t.Fatalf("GenerateDivision: %v", err)
		}
		if ops.Operand2 == 0 {
			t.Fatal("divisor is zero")
		}
		if ops.Operand1%ops.Operand2 != 0 {
			t.Fatalf("%d is not divisible by %d", ops.Operand1, ops.Operand2)
		}
	}
}

func TestAreDuplicate_ReflexiveAndSymmetric(t *testing.T) {
	g := testGenerator(15)
	for i := 0; i < 100; i++ {
		a, _ := g.GenerateQuestion(Level3, AllOperations[i%4], "a", 0)
		b, _ := g.GenerateQuestion(Level3, AllOperations[(i+1)%4], "b", 0)
		if !AreDuplicate(a, a) {
			t.Fatalf("AreDuplicate(a, a) = false for %s", a.Key())
		}
		if AreDuplicate(a, b) != AreDuplicate(b, a) {
			t.Fatalf("AreDuplicate not symmetric for %s, %s", a.Key(), b.Key())
		}
	}
}
