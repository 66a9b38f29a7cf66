package subject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/flicker/internal/geom"
	"github.com/roach88/flicker/internal/trace"
)

// Failure is returned when a predicate does not hold for an entry.
type Failure struct {
	// Check names the violated predicate, e.g. "isAppWindowOnTop(StatusBar)".
	Check string

	Message  string
	Expected string
	Actual   string

	// Timestamp is the time of the offending entry.
	Timestamp trace.Timestamp

	// Region is the violating sub-region for region checks.
	Region geom.Region

	Cause error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "%s failed at %s", f.Check, f.Timestamp)
	if f.Message != "" {
		fmt.Fprintf(&buf, ": %s", f.Message)
	}
	if f.Expected != "" || f.Actual != "" {
		fmt.Fprintf(&buf, "\n  Expected: %s", f.Expected)
		fmt.Fprintf(&buf, "\n  Actual: %s", f.Actual)
	}
	return buf.String()
}

// Unwrap returns the underlying cause, if any.
func (f *Failure) Unwrap() error {
	return f.Cause
}

// asFailure normalises err into a *Failure at ts. Failures that already
// carry a timestamp are returned unchanged.
func asFailure(check string, ts trace.Timestamp, err error) *Failure {
	var f *Failure
	if errors.As(err, &f) && !f.Timestamp.IsEmpty() {
		return f
	}
	return &Failure{
		Check:     check,
		Message:   err.Error(),
		Timestamp: ts,
		Cause:     err,
	}
}
