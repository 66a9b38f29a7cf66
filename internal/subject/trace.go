package subject

import (
	"fmt"

	"github.com/roach88/flicker/internal/trace"
)

// WindowTraceSubject asserts on a window manager trace.
type WindowTraceSubject struct {
	trace *trace.WindowTrace
	chain *Chain[*trace.WindowState]
}

// NewWindowTraceSubject wraps t.
func NewWindowTraceSubject(t *trace.WindowTrace) *WindowTraceSubject {
	return &WindowTraceSubject{trace: t, chain: NewChain(t)}
}

// Then starts a new stage of the chain.
func (s *WindowTraceSubject) Then() *WindowTraceSubject {
	s.chain.Then()
	return s
}

// AllowLeadingGap lets the first stage start after the first entry.
func (s *WindowTraceSubject) AllowLeadingGap() *WindowTraceSubject {
	s.chain.AllowLeadingGap()
	return s
}

// AllowTrailingGap lets the last stage end before the last entry.
func (s *WindowTraceSubject) AllowTrailingGap() *WindowTraceSubject {
	s.chain.AllowTrailingGap()
	return s
}

// Invoke adds a named ad-hoc check to the current stage.
func (s *WindowTraceSubject) Invoke(name string, fn func(*WindowStateSubject) error) *WindowTraceSubject {
	s.chain.Invoke(name, func(e *trace.WindowState) error {
		return fn(NewWindowStateSubject(e))
	})
	return s
}

// ForAllEntries evaluates the accumulated chain.
func (s *WindowTraceSubject) ForAllEntries() error {
	return s.chain.ForAllEntries()
}

// ContainsWindow requires a window matched by m.
func (s *WindowTraceSubject) ContainsWindow(m trace.Matcher) *WindowTraceSubject {
	return s.Invoke(fmt.Sprintf("containsWindow(%s)", m), func(e *WindowStateSubject) error {
		return e.ContainsWindow(m)
	})
}

// NotContains requires no window matched by m.
func (s *WindowTraceSubject) NotContains(m trace.Matcher) *WindowTraceSubject {
	return s.Invoke(fmt.Sprintf("notContains(%s)", m), func(e *WindowStateSubject) error {
		return e.NotContains(m)
	})
}

// IsWindowVisible requires a visible window matched by m.
func (s *WindowTraceSubject) IsWindowVisible(m trace.Matcher) *WindowTraceSubject {
	return s.Invoke(fmt.Sprintf("isWindowVisible(%s)", m), func(e *WindowStateSubject) error {
		return e.IsWindowVisible(m)
	})
}

// IsWindowInvisible requires no visible window matched by m.
func (s *WindowTraceSubject) IsWindowInvisible(m trace.Matcher) *WindowTraceSubject {
	return s.Invoke(fmt.Sprintf("isWindowInvisible(%s)", m), func(e *WindowStateSubject) error {
		return e.IsWindowInvisible(m)
	})
}

// IsNonAppWindowVisible requires a visible non-app window matched by m.
func (s *WindowTraceSubject) IsNonAppWindowVisible(m trace.Matcher) *WindowTraceSubject {
	return s.Invoke(fmt.Sprintf("isNonAppWindowVisible(%s)", m), func(e *WindowStateSubject) error {
		return e.IsNonAppWindowVisible(m)
	})
}

// IsAppWindowOnTop requires the top app window to be matched by m.
func (s *WindowTraceSubject) IsAppWindowOnTop(m trace.Matcher) *WindowTraceSubject {
	return s.Invoke(fmt.Sprintf("isAppWindowOnTop(%s)", m), func(e *WindowStateSubject) error {
		return e.IsAppWindowOnTop(m)
	})
}

// IsAppWindowNotOnTop requires the top app window not to be matched by m.
func (s *WindowTraceSubject) IsAppWindowNotOnTop(m trace.Matcher) *WindowTraceSubject {
	return s.Invoke(fmt.Sprintf("isAppWindowNotOnTop(%s)", m), func(e *WindowStateSubject) error {
		return e.IsAppWindowNotOnTop(m)
	})
}

// IsHomeActivityVisible requires a visible home activity.
func (s *WindowTraceSubject) IsHomeActivityVisible() *WindowTraceSubject {
	return s.Invoke("isHomeActivityVisible", func(e *WindowStateSubject) error {
		return e.IsHomeActivityVisible()
	})
}

// IsHomeActivityInvisible requires no visible home activity.
func (s *WindowTraceSubject) IsHomeActivityInvisible() *WindowTraceSubject {
	return s.Invoke("isHomeActivityInvisible", func(e *WindowStateSubject) error {
		return e.IsHomeActivityInvisible()
	})
}

// IsRecentsActivityVisible requires a visible recents activity.
func (s *WindowTraceSubject) IsRecentsActivityVisible() *WindowTraceSubject {
	return s.Invoke("isRecentsActivityVisible", func(e *WindowStateSubject) error {
		return e.IsRecentsActivityVisible()
	})
}

// IsRecentsActivityInvisible requires no visible recents activity.
func (s *WindowTraceSubject) IsRecentsActivityInvisible() *WindowTraceSubject {
	return s.Invoke("isRecentsActivityInvisible", func(e *WindowStateSubject) error {
		return e.IsRecentsActivityInvisible()
	})
}

// First returns a subject over the earliest entry.
func (s *WindowTraceSubject) First() (*WindowStateSubject, error) {
	e, ok := s.trace.First()
	if !ok {
		return nil, fmt.Errorf("first window state: %w", trace.ErrNotFound)
	}
	return NewWindowStateSubject(e), nil
}

// Last returns a subject over the latest entry.
func (s *WindowTraceSubject) Last() (*WindowStateSubject, error) {
	e, ok := s.trace.Last()
	if !ok {
		return nil, fmt.Errorf("last window state: %w", trace.ErrNotFound)
	}
	return NewWindowStateSubject(e), nil
}

// EntryAt returns a subject over the entry at ts.
func (s *WindowTraceSubject) EntryAt(ts trace.Timestamp) (*WindowStateSubject, error) {
	e, err := s.trace.EntryAt(ts)
	if err != nil {
		return nil, err
	}
	return NewWindowStateSubject(e), nil
}

// LayersTraceSubject asserts on a compositor trace.
type LayersTraceSubject struct {
	trace *trace.LayersTrace
	chain *Chain[*trace.LayersState]
}

// NewLayersTraceSubject wraps t.
func NewLayersTraceSubject(t *trace.LayersTrace) *LayersTraceSubject {
	return &LayersTraceSubject{trace: t, chain: NewChain(t)}
}

// Then starts a new stage of the chain.
func (s *LayersTraceSubject) Then() *LayersTraceSubject {
	s.chain.Then()
	return s
}

// AllowLeadingGap lets the first stage start after the first entry.
func (s *LayersTraceSubject) AllowLeadingGap() *LayersTraceSubject {
	s.chain.AllowLeadingGap()
	return s
}

// AllowTrailingGap lets the last stage end before the last entry.
func (s *LayersTraceSubject) AllowTrailingGap() *LayersTraceSubject {
	s.chain.AllowTrailingGap()
	return s
}

// Invoke adds a named ad-hoc check to the current stage.
func (s *LayersTraceSubject) Invoke(name string, fn func(*LayersStateSubject) error) *LayersTraceSubject {
	s.chain.Invoke(name, func(e *trace.LayersState) error {
		return fn(NewLayersStateSubject(e))
	})
	return s
}

// ForAllEntries evaluates the accumulated chain.
func (s *LayersTraceSubject) ForAllEntries() error {
	return s.chain.ForAllEntries()
}

// Contains requires a layer matched by m.
func (s *LayersTraceSubject) Contains(m trace.Matcher) *LayersTraceSubject {
	return s.Invoke(fmt.Sprintf("contains(%s)", m), func(e *LayersStateSubject) error {
		return e.Contains(m)
	})
}

// NotContains requires no layer matched by m.
func (s *LayersTraceSubject) NotContains(m trace.Matcher) *LayersTraceSubject {
	return s.Invoke(fmt.Sprintf("notContains(%s)", m), func(e *LayersStateSubject) error {
		return e.NotContains(m)
	})
}

// IsVisible requires a visible layer matched by m.
func (s *LayersTraceSubject) IsVisible(m trace.Matcher) *LayersTraceSubject {
	return s.Invoke(fmt.Sprintf("isVisible(%s)", m), func(e *LayersStateSubject) error {
		return e.IsVisible(m)
	})
}

// IsInvisible requires no visible layer matched by m.
func (s *LayersTraceSubject) IsInvisible(m trace.Matcher) *LayersTraceSubject {
	return s.Invoke(fmt.Sprintf("isInvisible(%s)", m), func(e *LayersStateSubject) error {
		return e.IsInvisible(m)
	})
}

// CoversAllDisplays requires the visible layers to cover every display.
func (s *LayersTraceSubject) CoversAllDisplays() *LayersTraceSubject {
	return s.Invoke("coversAllDisplays", func(e *LayersStateSubject) error {
		return e.CoversAllDisplays()
	})
}

// First returns a subject over the earliest entry.
func (s *LayersTraceSubject) First() (*LayersStateSubject, error) {
	e, ok := s.trace.First()
	if !ok {
		return nil, fmt.Errorf("first layers state: %w", trace.ErrNotFound)
	}
	return NewLayersStateSubject(e), nil
}

// Last returns a subject over the latest entry.
func (s *LayersTraceSubject) Last() (*LayersStateSubject, error) {
	e, ok := s.trace.Last()
	if !ok {
		return nil, fmt.Errorf("last layers state: %w", trace.ErrNotFound)
	}
	return NewLayersStateSubject(e), nil
}
