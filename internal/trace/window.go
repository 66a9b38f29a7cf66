package trace

import (
	"fmt"
	"slices"

	"github.com/roach88/flicker/internal/geom"
)

// Rotation is the display rotation in quarter turns.
type Rotation int

// Display rotations.
const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// String returns the platform name of the rotation.
func (r Rotation) String() string {
	switch r {
	case Rotation0:
		return "ROTATION_0"
	case Rotation90:
		return "ROTATION_90"
	case Rotation180:
		return "ROTATION_180"
	case Rotation270:
		return "ROTATION_270"
	}
	return fmt.Sprintf("ROTATION_UNKNOWN(%d)", int(r))
}

// ActivityType classifies the activity owning a window.
type ActivityType string

// Activity types.
const (
	ActivityStandard ActivityType = "standard"
	ActivityHome     ActivityType = "home"
	ActivityRecents  ActivityType = "recents"
)

// AppTransitionIdle is the app transition state of a settled window manager.
const AppTransitionIdle = "APP_STATE_IDLE"

// Window is one window in a window manager snapshot.
type Window struct {
	Token        string
	Name         string
	ParentToken  string
	IsAppWindow  bool
	ActivityType ActivityType
	Visible      bool
	SurfaceShown bool
	Frame        geom.Rect

	// Z is the stacking position; higher is closer to the viewer.
	Z int
}

// WindowState is a window manager snapshot.
type WindowState struct {
	Timestamp          Timestamp
	Rotation           Rotation
	FocusedApp         string
	AppTransitionState string
	Windows            []Window
}

// Time implements Entry.
func (s *WindowState) Time() Timestamp {
	return s.Timestamp
}

// VisibleWindows returns the visible windows from top to bottom.
func (s *WindowState) VisibleWindows() []*Window {
	var out []*Window
	for i := range s.Windows {
		if s.Windows[i].Visible {
			out = append(out, &s.Windows[i])
		}
	}
	slices.SortStableFunc(out, func(a, b *Window) int { return b.Z - a.Z })
	return out
}

// TopVisibleAppWindow returns the visible app window closest to the viewer.
func (s *WindowState) TopVisibleAppWindow() (*Window, bool) {
	for _, w := range s.VisibleWindows() {
		if w.IsAppWindow {
			return w, true
		}
	}
	return nil, false
}

// WindowsMatching returns all windows matched by m.
func (s *WindowState) WindowsMatching(m Matcher) []*Window {
	var out []*Window
	for i := range s.Windows {
		if m.MatchesWindow(&s.Windows[i]) {
			out = append(out, &s.Windows[i])
		}
	}
	return out
}

// ContainsWindow reports whether any window is matched by m.
func (s *WindowState) ContainsWindow(m Matcher) bool {
	return len(s.WindowsMatching(m)) > 0
}

// IsWindowVisible reports whether a window matched by m is visible.
func (s *WindowState) IsWindowVisible(m Matcher) bool {
	for _, w := range s.WindowsMatching(m) {
		if w.Visible {
			return true
		}
	}
	return false
}

// IsWindowSurfaceShown reports whether a window matched by m has its
// surface shown.
func (s *WindowState) IsWindowSurfaceShown(m Matcher) bool {
	for _, w := range s.WindowsMatching(m) {
		if w.SurfaceShown {
			return true
		}
	}
	return false
}

// VisibleRegion returns the union of the frames of the visible windows
// matched by m.
func (s *WindowState) VisibleRegion(m Matcher) geom.Region {
	region := geom.EmptyRegion()
	for _, w := range s.WindowsMatching(m) {
		if w.Visible {
			region = region.Union(geom.RegionFromRect(w.Frame))
		}
	}
	return region
}

// IsActivityTypeVisible reports whether a visible window has the given
// activity type.
func (s *WindowState) IsActivityTypeVisible(t ActivityType) bool {
	for _, w := range s.VisibleWindows() {
		if w.ActivityType == t {
			return true
		}
	}
	return false
}

// IsAppTransitionIdle reports whether no app transition is running.
func (s *WindowState) IsAppTransitionIdle() bool {
	return s.AppTransitionState == AppTransitionIdle
}
