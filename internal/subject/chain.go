package subject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/flicker/internal/trace"
)

// Check is a predicate over one entry. It returns nil when the entry
// satisfies it.
type Check[E trace.Entry] func(entry E) error

type namedCheck[E trace.Entry] struct {
	name string
	fn   Check[E]
}

// stage is a conjunction of checks that must all hold on an entry.
type stage[E trace.Entry] []namedCheck[E]

func (s stage[E]) String() string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.name
	}
	return strings.Join(names, " and ")
}

func (s stage[E]) eval(e E) error {
	for _, c := range s {
		if err := c.fn(e); err != nil {
			return asFailure(c.name, e.Time(), err)
		}
	}
	return nil
}

// Chain is an ordered sequence of stages evaluated over a trace.
//
// With one stage, ForAllEntries requires the stage to hold on every entry.
// With several stages, the trace is partitioned into consecutive non-empty
// runs: stage k holds on every entry of run k, and stage k+1 must hold on
// the first entry where stage k stops holding. Every entry must belong to a
// run unless AllowLeadingGap or AllowTrailingGap relax the ends.
type Chain[E trace.Entry] struct {
	trace  *trace.Trace[E]
	stages []stage[E]

	leadingGap  bool
	trailingGap bool
}

// NewChain returns an empty chain over t.
func NewChain[E trace.Entry](t *trace.Trace[E]) *Chain[E] {
	return &Chain[E]{trace: t}
}

// Invoke adds a named check to the current stage.
func (c *Chain[E]) Invoke(name string, fn Check[E]) *Chain[E] {
	if len(c.stages) == 0 {
		c.stages = append(c.stages, nil)
	}
	last := len(c.stages) - 1
	c.stages[last] = append(c.stages[last], namedCheck[E]{name: name, fn: fn})
	return c
}

// Then starts a new stage. Calling Then before any check has been added,
// or twice in a row, has no effect.
func (c *Chain[E]) Then() *Chain[E] {
	if n := len(c.stages); n > 0 && len(c.stages[n-1]) > 0 {
		c.stages = append(c.stages, nil)
	}
	return c
}

// AllowLeadingGap skips entries before the first stage first holds.
func (c *Chain[E]) AllowLeadingGap() *Chain[E] {
	c.leadingGap = true
	return c
}

// AllowTrailingGap ignores entries after the last stage stops holding.
func (c *Chain[E]) AllowTrailingGap() *Chain[E] {
	c.trailingGap = true
	return c
}

// String describes the chain, e.g. "isAppWindowOnTop(a) then isAppWindowNotOnTop(a)".
func (c *Chain[E]) String() string {
	parts := make([]string, 0, len(c.stages))
	for _, s := range c.runnable() {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, " then ")
}

// ForAllEntries evaluates the chain over the whole trace.
func (c *Chain[E]) ForAllEntries() error {
	stages := c.runnable()
	if len(stages) == 0 {
		return errors.New("chain has no checks")
	}
	if c.trace == nil || c.trace.IsEmpty() {
		return &Failure{Check: c.String(), Message: "trace is empty"}
	}

	entries := c.trace.Entries()
	cur, held := 0, false

	for _, e := range entries {
		err := stages[cur].eval(e)
		if err == nil {
			held = true
			continue
		}
		if !held {
			if c.leadingGap {
				continue
			}
			return err
		}
		if cur+1 == len(stages) {
			if c.trailingGap {
				return nil
			}
			return err
		}
		if next := stages[cur+1].eval(e); next != nil {
			return &Failure{
				Check:     c.String(),
				Message:   fmt.Sprintf("%q stopped holding but %q does not hold", stages[cur], stages[cur+1]),
				Expected:  stages[cur+1].String(),
				Actual:    next.Error(),
				Timestamp: e.Time(),
				Cause:     next,
			}
		}
		cur++
	}

	last := entries[len(entries)-1].Time()
	if !held {
		return &Failure{
			Check:     c.String(),
			Message:   fmt.Sprintf("%q never holds", stages[0]),
			Timestamp: last,
		}
	}
	if cur+1 < len(stages) {
		return &Failure{
			Check:     c.String(),
			Message:   fmt.Sprintf("trace ended before %q held", stages[cur+1]),
			Timestamp: last,
		}
	}
	return nil
}

func (c *Chain[E]) runnable() []stage[E] {
	out := make([]stage[E], 0, len(c.stages))
	for _, s := range c.stages {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}
