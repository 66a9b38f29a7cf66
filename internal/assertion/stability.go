package assertion

import "fmt"

// Stability classifies how a failing assertion is treated.
type Stability string

const (
	// Blocking assertions must always pass.
	Blocking Stability = "BLOCKING"

	// Flaky assertions are best-effort; failures are reported but tolerated.
	Flaky Stability = "FLAKY"
)

// ParseStability parses a stability name.
func ParseStability(s string) (Stability, error) {
	switch Stability(s) {
	case Blocking, Flaky:
		return Stability(s), nil
	}
	return "", fmt.Errorf("unknown stability %q (want %s or %s)", s, Blocking, Flaky)
}
