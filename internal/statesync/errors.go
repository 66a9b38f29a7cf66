package statesync

import (
	"errors"
	"fmt"
	"strings"
)

// ErrExhausted is matched by every *ExhaustedError.
var ErrExhausted = errors.New("wait conditions not met")

// ExhaustedError reports a wait that spent its retry budget.
type ExhaustedError struct {
	Attempts int
	Unmet    []string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s after %d polls: %s", ErrExhausted, e.Attempts, strings.Join(e.Unmet, ", "))
}

func (e *ExhaustedError) Unwrap() error {
	return ErrExhausted
}
