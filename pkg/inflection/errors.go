package inflection

import (
	"errors"
	"fmt"
)

// ErrInvalidPattern is matched by every PatternError.
var ErrInvalidPattern = errors.New("invalid inflection pattern")

// PatternError reports a rule whose pattern does not compile.
type PatternError struct {
	Kind    string // plural, singular, irregular or uncountable
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Kind, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

func (e *PatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}
