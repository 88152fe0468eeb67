package quiz

import (
	"fmt"
	"strings"
)

// Student age bounds accepted at login.
const (
	MinAge = 3
	MaxAge = 120
)

// Input validation lives in the quiz package so both backends enforce the
// same rules: the embedded store applies them directly, the remote store
// applies them before the wire and the server re-applies them behind it.
// Either way the caller sees ErrInvalidInput for the same inputs.

func validateLogin(name string, age int, class string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(class) == "" {
		return fmt.Errorf("%w: class is required", ErrInvalidInput)
	}
	if age < MinAge || age > MaxAge {
		return fmt.Errorf("%w: age must be between %d and %d", ErrInvalidInput, MinAge, MaxAge)
	}
	return nil
}

func validateTest(topic string, complexity Complexity, questions []Question) error {
	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}
	switch complexity {
	case ComplexityEasy, ComplexityMedium, ComplexityHard:
	default:
		return fmt.Errorf("%w: complexity must be Easy, Medium or Hard", ErrInvalidInput)
	}
	if len(questions) == 0 {
		return fmt.Errorf("%w: a test needs at least one question", ErrInvalidInput)
	}
	return nil
}

func validateResult(score int) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("%w: score must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}
