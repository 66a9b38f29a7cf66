package geom

import "fmt"

// Position failure messages. Horizontal mismatches are reported before any
// vertical comparison is made.
const (
	MsgErrorLeftPosition  = "Incorrect left position"
	MsgErrorRightPosition = "Incorrect right position"
	MsgErrorAreaSize      = "Incorrect rect area"
	MsgErrorTopPosition   = "Incorrect top position"
)

// CheckError describes a failed region check.
type CheckError struct {
	// Check names the failed operation, e.g. "coversAtLeast".
	Check string

	// Message is the human-readable failure reason.
	Message string

	Expected string
	Actual   string

	// Region is the offending sub-region, if the check is region based.
	Region Region
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	if e.Expected == "" && e.Actual == "" {
		return fmt.Sprintf("%s: %s", e.Check, e.Message)
	}
	return fmt.Sprintf("%s: %s (expected %s, actual %s)", e.Check, e.Message, e.Expected, e.Actual)
}

// CoversAtLeast succeeds if actual covers every pixel of expected.
// The failure names the part of expected left uncovered.
func CoversAtLeast(actual, expected Region) error {
	uncovered := expected.Subtract(actual)
	if uncovered.IsEmpty() {
		return nil
	}
	return &CheckError{
		Check:    "coversAtLeast",
		Message:  "Uncovered region: " + uncovered.String(),
		Expected: expected.String(),
		Actual:   actual.String(),
		Region:   uncovered,
	}
}

// CoversAtMost succeeds if actual covers no pixel outside expected.
// The failure names the part of actual out of bounds.
func CoversAtMost(actual, expected Region) error {
	outside := actual.Subtract(expected)
	if outside.IsEmpty() {
		return nil
	}
	return &CheckError{
		Check:    "coversAtMost",
		Message:  "Out-of-bounds region: " + outside.String(),
		Expected: expected.String(),
		Actual:   actual.String(),
		Region:   outside,
	}
}

// CoversExactly succeeds if both regions cover the same pixels.
// The failure names the symmetric difference.
func CoversExactly(actual, expected Region) error {
	diff := actual.Xor(expected)
	if diff.IsEmpty() {
		return nil
	}
	return &CheckError{
		Check:    "coversExactly",
		Message:  "Mismatched region: " + diff.String(),
		Expected: expected.String(),
		Actual:   actual.String(),
		Region:   diff,
	}
}

// Overlaps succeeds if the regions share at least one pixel.
func Overlaps(actual, other Region) error {
	overlap := actual.Intersect(other)
	if !overlap.IsEmpty() {
		return nil
	}
	return &CheckError{
		Check:    "overlaps",
		Message:  "Overlap region: " + overlap.String(),
		Expected: other.String(),
		Actual:   actual.String(),
		Region:   overlap,
	}
}

// NotOverlaps succeeds if the regions share no pixel.
// The failure names the shared pixels.
func NotOverlaps(actual, other Region) error {
	overlap := actual.Intersect(other)
	if overlap.IsEmpty() {
		return nil
	}
	return &CheckError{
		Check:    "notOverlaps",
		Message:  "Overlap region: " + overlap.String(),
		Expected: other.String(),
		Actual:   actual.String(),
		Region:   overlap,
	}
}

// IsHigher succeeds if actual starts strictly above other.
func IsHigher(actual, other Region) error {
	return comparePosition("isHigher", actual, other, func(a, b int) bool { return a < b })
}

// IsHigherOrEqual succeeds if actual starts above or level with other.
func IsHigherOrEqual(actual, other Region) error {
	return comparePosition("isHigherOrEqual", actual, other, func(a, b int) bool { return a <= b })
}

// IsLower succeeds if actual starts strictly below other.
func IsLower(actual, other Region) error {
	return comparePosition("isLower", actual, other, func(a, b int) bool { return a > b })
}

// IsLowerOrEqual succeeds if actual starts below or level with other.
func IsLowerOrEqual(actual, other Region) error {
	return comparePosition("isLowerOrEqual", actual, other, func(a, b int) bool { return a >= b })
}

// comparePosition compares the bounds of two regions. Both must share the
// same horizontal extent and area before their top edges are compared.
func comparePosition(check string, actual, other Region, ok func(a, b int) bool) error {
	a, b := actual.Bounds(), other.Bounds()

	if a.Left != b.Left {
		return positionError(check, MsgErrorLeftPosition, b.Left, a.Left)
	}
	if a.Right != b.Right {
		return positionError(check, MsgErrorRightPosition, b.Right, a.Right)
	}
	if actual.Area() != other.Area() {
		return &CheckError{
			Check:    check,
			Message:  MsgErrorAreaSize,
			Expected: fmt.Sprintf("%d", other.Area()),
			Actual:   fmt.Sprintf("%d", actual.Area()),
		}
	}
	if !ok(a.Top, b.Top) {
		return positionError(check, MsgErrorTopPosition, b.Top, a.Top)
	}
	return nil
}

func positionError(check, msg string, expected, actual int) *CheckError {
	return &CheckError{
		Check:    check,
		Message:  msg,
		Expected: fmt.Sprintf("%d", expected),
		Actual:   fmt.Sprintf("%d", actual),
	}
}
