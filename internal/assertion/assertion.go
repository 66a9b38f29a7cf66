package assertion

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/flicker/internal/scenario"
	"github.com/roach88/flicker/internal/subject"
	"github.com/roach88/flicker/internal/trace"
)

// Assertion is a template bound to a scenario type and component.
type Assertion struct {
	// Name is the stable identity, "<scenario type>::<template>(<component>)".
	Name      string
	Scenario  scenario.Type
	Stability Stability

	entry Entry
}

// ResultError is one structured failure of an assertion.
type ResultError struct {
	Message string `json:"message"`

	// Timestamp is the time of the offending entry, empty when the failure
	// is not tied to an entry.
	Timestamp trace.Timestamp `json:"timestamp"`
}

// Result is the outcome of executing an assertion.
type Result struct {
	Name      string        `json:"name"`
	Scenario  scenario.Type `json:"scenario"`
	Stability Stability     `json:"stability"`
	Passed    bool          `json:"passed"`
	Errors    []ResultError `json:"errors,omitempty"`
}

// Failed reports whether the assertion did not pass.
func (r Result) Failed() bool {
	return !r.Passed
}

// Execute evaluates a against the reader of inst. Evaluation errors and
// panics are converted into a failed Result.
func Execute(ctx context.Context, a Assertion, inst *scenario.Instance) (result Result) {
	result = Result{
		Name:      a.Name,
		Scenario:  a.Scenario,
		Stability: a.Stability,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Passed = false
			result.Errors = append(result.Errors, ResultError{Message: fmt.Sprintf("panic: %v", r)})
		}
	}()

	err := run(ctx, a.entry, inst)
	if err == nil {
		result.Passed = true
		return result
	}
	result.Errors = resultErrors(err)
	return result
}

func run(ctx context.Context, e Entry, inst *scenario.Instance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.Template.Check == nil {
		return fmt.Errorf("template %q has no check", e.Template.Name)
	}
	var c trace.Matcher
	if e.Component != nil {
		m, err := e.Component.Build(inst)
		if err != nil {
			return err
		}
		c = m
	}
	return e.Template.Check(ctx, inst, c)
}

// resultErrors flattens joined errors into one entry per failure.
func resultErrors(err error) []ResultError {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []ResultError
		for _, e := range joined.Unwrap() {
			out = append(out, resultErrors(e)...)
		}
		return out
	}

	re := ResultError{Message: err.Error()}
	var f *subject.Failure
	if errors.As(err, &f) {
		re.Timestamp = f.Timestamp
	}
	return []ResultError{re}
}
