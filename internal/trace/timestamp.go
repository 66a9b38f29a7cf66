package trace

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrIncomparableTimestamps is returned when two timestamps share no clock
// axis that is set on both.
var ErrIncomparableTimestamps = errors.New("timestamps have no common clock")

// Timestamp holds independent readings of three clocks. A zero reading means
// the clock is unset; the zero Timestamp is the empty timestamp.
type Timestamp struct {
	ElapsedNanos      int64 `json:"elapsed_nanos,omitempty" yaml:"elapsed_nanos,omitempty"`
	SystemUptimeNanos int64 `json:"system_uptime_nanos,omitempty" yaml:"system_uptime_nanos,omitempty"`
	UnixNanos         int64 `json:"unix_nanos,omitempty" yaml:"unix_nanos,omitempty"`
}

// Empty returns the timestamp with no clock set.
func Empty() Timestamp {
	return Timestamp{}
}

// Min returns the lower range sentinel. Every axis is set, so Min compares
// against any non-empty timestamp.
func Min() Timestamp {
	return Timestamp{ElapsedNanos: 1, SystemUptimeNanos: 1, UnixNanos: 1}
}

// Max returns the upper range sentinel.
func Max() Timestamp {
	return Timestamp{ElapsedNanos: math.MaxInt64, SystemUptimeNanos: math.MaxInt64, UnixNanos: math.MaxInt64}
}

// NewLayersTimestamp builds the timestamp of a compositor entry. The entry's
// elapsed reading is the system-uptime clock; the unix clock is derived from
// the real-to-elapsed offset when it is known.
func NewLayersTimestamp(elapsedNanos int64, realToElapsedOffsetNanos *int64) Timestamp {
	ts := Timestamp{SystemUptimeNanos: elapsedNanos}
	if realToElapsedOffsetNanos != nil {
		ts.UnixNanos = elapsedNanos + *realToElapsedOffsetNanos
	}
	return ts
}

// IsEmpty reports whether no clock is set.
func (t Timestamp) IsEmpty() bool {
	return t == Timestamp{}
}

// Compare orders two timestamps using the first clock set on both, in the
// order elapsed, system-uptime, unix. It returns -1, 0 or +1, or
// ErrIncomparableTimestamps when no clock is shared.
func Compare(a, b Timestamp) (int, error) {
	switch {
	case a.ElapsedNanos != 0 && b.ElapsedNanos != 0:
		return cmp64(a.ElapsedNanos, b.ElapsedNanos), nil
	case a.SystemUptimeNanos != 0 && b.SystemUptimeNanos != 0:
		return cmp64(a.SystemUptimeNanos, b.SystemUptimeNanos), nil
	case a.UnixNanos != 0 && b.UnixNanos != 0:
		return cmp64(a.UnixNanos, b.UnixNanos), nil
	}
	return 0, fmt.Errorf("compare %s with %s: %w", a, b, ErrIncomparableTimestamps)
}

// clocks returns a bit set of the clocks t sets.
func (t Timestamp) clocks() uint8 {
	var set uint8
	if t.ElapsedNanos != 0 {
		set |= 1
	}
	if t.SystemUptimeNanos != 0 {
		set |= 2
	}
	if t.UnixNanos != 0 {
		set |= 4
	}
	return set
}

func cmp64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// String renders the set clocks, e.g. "elapsed=100ns unix=600ns".
func (t Timestamp) String() string {
	if t.IsEmpty() {
		return "<empty>"
	}
	var parts []string
	if t.ElapsedNanos != 0 {
		parts = append(parts, fmt.Sprintf("elapsed=%dns", t.ElapsedNanos))
	}
	if t.SystemUptimeNanos != 0 {
		parts = append(parts, fmt.Sprintf("uptime=%dns", t.SystemUptimeNanos))
	}
	if t.UnixNanos != 0 {
		parts = append(parts, fmt.Sprintf("unix=%dns", t.UnixNanos))
	}
	return strings.Join(parts, " ")
}
