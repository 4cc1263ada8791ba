package problemgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// generated question. They execute in order; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxAvoid is the maximum number of stored questions listed in the
	// prompt as ones not to repeat.
	MaxAvoid int
}

// DefaultConfig returns a Config with the structural validator and
// recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
		},
		MaxTokens:   500,
		Temperature: 0.7,
		MaxAvoid:    8,
	}
}

// WithMathCheck returns a copy of cfg that also recomputes the answer of
// every generated question.
func (c Config) WithMathCheck() Config {
	c.Validators = append(append([]Validator(nil), c.Validators...), &MathCheckValidator{})
	return c
}
