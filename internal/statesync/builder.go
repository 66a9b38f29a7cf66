package statesync

import (
	"context"

	"github.com/roach88/flicker/internal/trace"
)

// Condition is a named predicate over one device dump. Predicates must not
// modify the dump.
type Condition struct {
	Name string
	Fn   func(*trace.DeviceState) bool
}

// Holds evaluates the condition. A nil dump never satisfies it.
func (c Condition) Holds(s *trace.DeviceState) bool {
	if s == nil {
		return false
	}
	return c.Fn(s)
}

// Builder composes conditions into a single wait.
type Builder struct {
	helper *Helper
	conds  []Condition
}

// Add appends a custom condition.
func (b *Builder) Add(name string, fn func(*trace.DeviceState) bool) *Builder {
	b.conds = append(b.conds, Condition{Name: name, Fn: fn})
	return b
}

// Conditions returns the composed conditions in insertion order.
func (b *Builder) Conditions() []Condition {
	out := make([]Condition, len(b.conds))
	copy(out, b.conds)
	return out
}

// WaitFor waits until every condition holds.
func (b *Builder) WaitFor(ctx context.Context) (PollResult, error) {
	return b.helper.WaitFor(ctx, b.conds...)
}

// WaitForAndVerify waits and reports exhaustion as an error.
func (b *Builder) WaitForAndVerify(ctx context.Context) error {
	return b.helper.WaitForAndVerify(ctx, b.conds...)
}

// WithWindowSurfaceAppeared waits for a surface of a window matched by m
// to be shown.
func (b *Builder) WithWindowSurfaceAppeared(m trace.Matcher) *Builder {
	return b.Add("windowSurfaceAppeared("+m.String()+")", func(s *trace.DeviceState) bool {
		return s.WM != nil && s.WM.IsWindowSurfaceShown(m)
	})
}

// WithWindowSurfaceDisappeared waits for every window matched by m to hide
// its surface and for its layers to become invisible.
func (b *Builder) WithWindowSurfaceDisappeared(m trace.Matcher) *Builder {
	return b.Add("windowSurfaceDisappeared("+m.String()+")", func(s *trace.DeviceState) bool {
		if s.WM == nil || s.WM.IsWindowSurfaceShown(m) {
			return false
		}
		return s.Layers == nil || !s.Layers.IsVisible(m)
	})
}

// WithActivityRemoved waits until no window is matched by m.
func (b *Builder) WithActivityRemoved(m trace.Matcher) *Builder {
	return b.Add("activityRemoved("+m.String()+")", func(s *trace.DeviceState) bool {
		return s.WM != nil && !s.WM.ContainsWindow(m)
	})
}

// WithAppTransitionIdle waits for the window manager to finish app
// transitions.
func (b *Builder) WithAppTransitionIdle() *Builder {
	return b.Add("appTransitionIdle", func(s *trace.DeviceState) bool {
		return s.WM != nil && s.WM.IsAppTransitionIdle()
	})
}

// WithRotation waits for the display to reach r with no transition
// running.
func (b *Builder) WithRotation(r trace.Rotation) *Builder {
	return b.Add("rotation("+r.String()+")", func(s *trace.DeviceState) bool {
		return s.WM != nil && s.WM.Rotation == r && s.WM.IsAppTransitionIdle()
	})
}

// WithImeShown waits for the IME window to become visible.
func (b *Builder) WithImeShown() *Builder {
	return b.Add("imeShown", func(s *trace.DeviceState) bool {
		return s.WM != nil && s.WM.IsWindowVisible(trace.IME)
	})
}

// WithImeGone waits for the IME window to become invisible.
func (b *Builder) WithImeGone() *Builder {
	return b.Add("imeGone", func(s *trace.DeviceState) bool {
		return s.WM != nil && !s.WM.IsWindowVisible(trace.IME)
	})
}

// WithHomeActivityVisible waits for a home activity to become visible.
func (b *Builder) WithHomeActivityVisible() *Builder {
	return b.Add("homeActivityVisible", func(s *trace.DeviceState) bool {
		return s.WM != nil && s.WM.IsActivityTypeVisible(trace.ActivityHome)
	})
}

// WithRecentsActivityVisible waits for a recents activity to become visible.
func (b *Builder) WithRecentsActivityVisible() *Builder {
	return b.Add("recentsActivityVisible", func(s *trace.DeviceState) bool {
		return s.WM != nil && s.WM.IsActivityTypeVisible(trace.ActivityRecents)
	})
}

// WithLayerVisible waits for a layer matched by m to become visible.
func (b *Builder) WithLayerVisible(m trace.Matcher) *Builder {
	return b.Add("layerVisible("+m.String()+")", func(s *trace.DeviceState) bool {
		return s.Layers != nil && s.Layers.IsVisible(m)
	})
}
