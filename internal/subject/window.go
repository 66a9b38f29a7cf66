package subject

import (
	"fmt"

	"github.com/roach88/flicker/internal/trace"
)

// WindowStateSubject asserts on one window manager snapshot.
type WindowStateSubject struct {
	state *trace.WindowState
}

// NewWindowStateSubject wraps state.
func NewWindowStateSubject(state *trace.WindowState) *WindowStateSubject {
	return &WindowStateSubject{state: state}
}

// State returns the wrapped snapshot.
func (s *WindowStateSubject) State() *trace.WindowState {
	return s.state
}

// Timestamp returns the time of the wrapped snapshot.
func (s *WindowStateSubject) Timestamp() trace.Timestamp {
	return s.state.Timestamp
}

// ContainsWindow fails unless a window matched by m exists.
func (s *WindowStateSubject) ContainsWindow(m trace.Matcher) error {
	if s.state.ContainsWindow(m) {
		return nil
	}
	return s.fail("containsWindow", m, "window present", "window not found")
}

// NotContains fails if any window is matched by m.
func (s *WindowStateSubject) NotContains(m trace.Matcher) error {
	if !s.state.ContainsWindow(m) {
		return nil
	}
	return s.fail("notContains", m, "window absent", "window found")
}

// ContainsAppWindow fails unless an app window matched by m exists.
func (s *WindowStateSubject) ContainsAppWindow(m trace.Matcher) error {
	for _, w := range s.state.WindowsMatching(m) {
		if w.IsAppWindow {
			return nil
		}
	}
	return s.fail("containsAppWindow", m, "app window present", "no app window found")
}

// IsWindowVisible fails unless a window matched by m is visible.
func (s *WindowStateSubject) IsWindowVisible(m trace.Matcher) error {
	if err := s.ContainsWindow(m); err != nil {
		return err
	}
	if s.state.IsWindowVisible(m) {
		return nil
	}
	return s.fail("isWindowVisible", m, "visible", "invisible")
}

// IsWindowInvisible fails if a window matched by m is visible. A missing
// window is invisible.
func (s *WindowStateSubject) IsWindowInvisible(m trace.Matcher) error {
	if !s.state.IsWindowVisible(m) {
		return nil
	}
	return s.fail("isWindowInvisible", m, "invisible", "visible")
}

// IsNonAppWindowVisible fails unless a visible non-app window is matched by m.
func (s *WindowStateSubject) IsNonAppWindowVisible(m trace.Matcher) error {
	for _, w := range s.state.WindowsMatching(m) {
		if !w.IsAppWindow && w.Visible {
			return nil
		}
	}
	return s.fail("isNonAppWindowVisible", m, "visible non-app window", "not found or invisible")
}

// IsAppWindowOnTop fails unless the top visible app window is matched by m.
func (s *WindowStateSubject) IsAppWindowOnTop(m trace.Matcher) error {
	top, ok := s.state.TopVisibleAppWindow()
	if ok && m.MatchesWindow(top) {
		return nil
	}
	return s.fail("isAppWindowOnTop", m, m.String(), topName(top, ok))
}

// IsAppWindowNotOnTop fails if the top visible app window is matched by m.
func (s *WindowStateSubject) IsAppWindowNotOnTop(m trace.Matcher) error {
	top, ok := s.state.TopVisibleAppWindow()
	if !ok || !m.MatchesWindow(top) {
		return nil
	}
	return s.fail("isAppWindowNotOnTop", m, "not "+m.String(), top.Name)
}

// HasRotation fails unless the display has rotation r.
func (s *WindowStateSubject) HasRotation(r trace.Rotation) error {
	if s.state.Rotation == r {
		return nil
	}
	return &Failure{
		Check:     "hasRotation",
		Expected:  r.String(),
		Actual:    s.state.Rotation.String(),
		Timestamp: s.state.Timestamp,
	}
}

// IsHomeActivityVisible fails unless a home activity window is visible.
func (s *WindowStateSubject) IsHomeActivityVisible() error {
	return s.activityVisible("isHomeActivityVisible", trace.ActivityHome, true)
}

// IsHomeActivityInvisible fails if a home activity window is visible.
func (s *WindowStateSubject) IsHomeActivityInvisible() error {
	return s.activityVisible("isHomeActivityInvisible", trace.ActivityHome, false)
}

// IsRecentsActivityVisible fails unless a recents activity window is visible.
func (s *WindowStateSubject) IsRecentsActivityVisible() error {
	return s.activityVisible("isRecentsActivityVisible", trace.ActivityRecents, true)
}

// IsRecentsActivityInvisible fails if a recents activity window is visible.
func (s *WindowStateSubject) IsRecentsActivityInvisible() error {
	return s.activityVisible("isRecentsActivityInvisible", trace.ActivityRecents, false)
}

// VisibleRegion returns a region subject over the visible frames of the
// windows matched by m.
func (s *WindowStateSubject) VisibleRegion(m trace.Matcher) *RegionSubject {
	return NewRegionSubject(
		fmt.Sprintf("visibleRegion(%s)", m),
		s.state.VisibleRegion(m),
		s.state.Timestamp,
	)
}

func (s *WindowStateSubject) activityVisible(check string, t trace.ActivityType, want bool) error {
	if s.state.IsActivityTypeVisible(t) == want {
		return nil
	}
	expected, actual := "visible", "invisible"
	if !want {
		expected, actual = actual, expected
	}
	return &Failure{
		Check:     check,
		Expected:  expected,
		Actual:    actual,
		Timestamp: s.state.Timestamp,
	}
}

func (s *WindowStateSubject) fail(check string, m trace.Matcher, expected, actual string) *Failure {
	return &Failure{
		Check:     fmt.Sprintf("%s(%s)", check, m),
		Expected:  expected,
		Actual:    actual,
		Timestamp: s.state.Timestamp,
	}
}

func topName(w *trace.Window, ok bool) string {
	if !ok {
		return "no visible app window"
	}
	return w.Name
}
