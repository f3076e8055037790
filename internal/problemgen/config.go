package problemgen

// Config controls the behavior of the Generator.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// generated question. They execute in order; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxAdaptiveAttempts bounds how many candidates GenerateAdaptive
	// draws before giving up on finding a non-duplicate.
	MaxAdaptiveAttempts int

	// MaxBatchAttempts bounds the per-question retries of
	// GenerateSessionQuestions.
	MaxBatchAttempts int

	// MaxDistractorAttempts bounds the random draws made for wrong
	// choices before falling back to walking outward from the answer.
	MaxDistractorAttempts int

	// QuestionsPerSession is the number of questions in a session.
	QuestionsPerSession int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ArithmeticValidator{},
			&ChoicesValidator{},
		},
		MaxAdaptiveAttempts:   100,
		MaxBatchAttempts:      1000,
		MaxDistractorAttempts: 500,
		QuestionsPerSession:   10,
	}
}
