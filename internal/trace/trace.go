package trace

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnorderedTrace is returned when trace entries are not in
// non-decreasing timestamp order.
var ErrUnorderedTrace = errors.New("trace entries are not time-ordered")

// Entry is a timestamped snapshot.
type Entry interface {
	Time() Timestamp
}

// Trace is an immutable, time-ascending sequence of entries.
type Trace[E Entry] struct {
	entries []E
}

// WindowTrace is a trace of window manager snapshots.
type WindowTrace = Trace[*WindowState]

// LayersTrace is a trace of compositor snapshots.
type LayersTrace = Trace[*LayersState]

// NewTrace validates ordering and returns a trace over a copy of entries.
// Every entry must set the same clocks as the first one, so all entries
// are ordered on one clock.
func NewTrace[E Entry](entries []E) (*Trace[E], error) {
	for i := 1; i < len(entries); i++ {
		if got, want := entries[i].Time().clocks(), entries[0].Time().clocks(); got != want {
			return nil, fmt.Errorf("entry %d (%s) sets different clocks than entry 0 (%s): %w",
				i, entries[i].Time(), entries[0].Time(), ErrIncomparableTimestamps)
		}
		c, err := Compare(entries[i-1].Time(), entries[i].Time())
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if c > 0 {
			return nil, fmt.Errorf("entry %d (%s) precedes entry %d (%s): %w",
				i, entries[i].Time(), i-1, entries[i-1].Time(), ErrUnorderedTrace)
		}
	}
	return &Trace[E]{entries: slices.Clone(entries)}, nil
}

// Len returns the number of entries.
func (t *Trace[E]) Len() int {
	return len(t.entries)
}

// IsEmpty reports whether the trace has no entries.
func (t *Trace[E]) IsEmpty() bool {
	return len(t.entries) == 0
}

// Entries returns a copy of the entry list.
func (t *Trace[E]) Entries() []E {
	return slices.Clone(t.entries)
}

// At returns the i-th entry.
func (t *Trace[E]) At(i int) E {
	return t.entries[i]
}

// First returns the earliest entry.
func (t *Trace[E]) First() (E, bool) {
	var zero E
	if len(t.entries) == 0 {
		return zero, false
	}
	return t.entries[0], true
}

// Last returns the latest entry.
func (t *Trace[E]) Last() (E, bool) {
	var zero E
	if len(t.entries) == 0 {
		return zero, false
	}
	return t.entries[len(t.entries)-1], true
}

// EntryAt returns the entry with exactly the given timestamp.
func (t *Trace[E]) EntryAt(ts Timestamp) (E, error) {
	var zero E
	for _, e := range t.entries {
		c, err := Compare(e.Time(), ts)
		if err != nil {
			return zero, err
		}
		if c == 0 {
			return e, nil
		}
	}
	return zero, fmt.Errorf("no entry at %s: %w", ts, ErrNotFound)
}

// Slice returns the entries with start <= timestamp <= end as a new trace.
func (t *Trace[E]) Slice(start, end Timestamp) (*Trace[E], error) {
	lo := 0
	for lo < len(t.entries) {
		c, err := Compare(t.entries[lo].Time(), start)
		if err != nil {
			return nil, fmt.Errorf("slice start: %w", err)
		}
		if c >= 0 {
			break
		}
		lo++
	}

	hi := len(t.entries)
	for hi > lo {
		c, err := Compare(t.entries[hi-1].Time(), end)
		if err != nil {
			return nil, fmt.Errorf("slice end: %w", err)
		}
		if c <= 0 {
			break
		}
		hi--
	}

	return &Trace[E]{entries: slices.Clone(t.entries[lo:hi])}, nil
}

// String summarises the trace bounds.
func (t *Trace[E]) String() string {
	first, ok := t.First()
	if !ok {
		return "Trace(empty)"
	}
	last, _ := t.Last()
	return fmt.Sprintf("Trace(start=%s, end=%s, entries=%d)", first.Time(), last.Time(), len(t.entries))
}
