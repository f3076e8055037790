package problemgen

import (
	"fmt"

	"github.com/abhisek/flashmath/internal/validate"
)

// Validator checks a question for correctness.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g. "arithmetic".
	Name() string

	// Validate returns nil if q passes the check.
	Validate(q *Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks field tags: id present, known level and
// operation.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	if err := validate.Struct(q); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	return nil
}

// ArithmeticValidator recomputes the answer from the operands.
type ArithmeticValidator struct{}

func (v *ArithmeticValidator) Name() string { return "arithmetic" }

func (v *ArithmeticValidator) Validate(q *Question) *ValidationError {
	var want int
	switch q.Operation {
	case OpAdd:
		want = q.Operand1 + q.Operand2
	case OpSubtract:
		want = q.Operand1 - q.Operand2
	case OpMultiply:
		want = q.Operand1 * q.Operand2
	case OpDivide:
		if q.Operand2 == 0 {
			return &ValidationError{Validator: v.Name(), Message: "division by zero"}
		}
		if q.Operand1 != q.Operand2*q.CorrectAnswer {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("%d is not %d × %d", q.Operand1, q.Operand2, q.CorrectAnswer),
			}
		}
		return nil
	default:
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("unknown operation %q", q.Operation)}
	}
	if q.CorrectAnswer != want {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("computed %d but question claims %d", want, q.CorrectAnswer),
		}
	}
	return nil
}

// ChoicesValidator requires exactly four distinct choices, one of which is
// the correct answer.
type ChoicesValidator struct {
	// AllowEmpty accepts a question with no choices at all. Stored
	// wrong-question snapshots may lack them.
	AllowEmpty bool
}

func (v *ChoicesValidator) Name() string { return "choices" }

func (v *ChoicesValidator) Validate(q *Question) *ValidationError {
	if len(q.Choices) == 0 && v.AllowEmpty {
		return nil
	}
	if len(q.Choices) != ChoiceCount {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d choices, got %d", ChoiceCount, len(q.Choices)),
		}
	}
	seen := make(map[int]bool, len(q.Choices))
	for _, c := range q.Choices {
		if seen[c] {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("duplicate choice %d", c)}
		}
		seen[c] = true
	}
	if !seen[q.CorrectAnswer] {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("choices do not include the answer %d", q.CorrectAnswer),
		}
	}
	return nil
}

// Validate runs the validators in order and returns the first failure.
func Validate(q *Question, validators ...Validator) error {
	for _, v := range validators {
		if verr := v.Validate(q); verr != nil {
			return verr
		}
	}
	return nil
}

// ValidateStored checks a question loaded from storage. Choices may be
// empty but, when present, must be well formed.
func ValidateStored(q *Question) error {
	return Validate(q,
		&StructuralValidator{},
		&ArithmeticValidator{},
		&ChoicesValidator{AllowEmpty: true},
	)
}
