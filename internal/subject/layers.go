package subject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/flicker/internal/geom"
	"github.com/roach88/flicker/internal/trace"
)

// LayersStateSubject asserts on one compositor snapshot.
type LayersStateSubject struct {
	state *trace.LayersState
}

// NewLayersStateSubject wraps state.
func NewLayersStateSubject(state *trace.LayersState) *LayersStateSubject {
	return &LayersStateSubject{state: state}
}

// State returns the wrapped snapshot.
func (s *LayersStateSubject) State() *trace.LayersState {
	return s.state
}

// Contains fails unless a layer matched by m exists.
func (s *LayersStateSubject) Contains(m trace.Matcher) error {
	if len(s.state.LayersMatching(m)) > 0 {
		return nil
	}
	return s.fail("contains", m, "layer present", "layer not found")
}

// NotContains fails if any layer is matched by m.
func (s *LayersStateSubject) NotContains(m trace.Matcher) error {
	if len(s.state.LayersMatching(m)) == 0 {
		return nil
	}
	return s.fail("notContains", m, "layer absent", "layer found")
}

// IsVisible fails unless a layer matched by m is visible.
func (s *LayersStateSubject) IsVisible(m trace.Matcher) error {
	if err := s.Contains(m); err != nil {
		return err
	}
	if s.state.IsVisible(m) {
		return nil
	}
	return s.fail("isVisible", m, "visible", "invisible")
}

// IsInvisible fails if a layer matched by m is visible.
func (s *LayersStateSubject) IsInvisible(m trace.Matcher) error {
	if !s.state.IsVisible(m) {
		return nil
	}
	return s.fail("isInvisible", m, "invisible", "visible")
}

// VisibleRegion returns a region subject over the visible region of the
// layers matched by m, or of every visible layer when m is nil.
func (s *LayersStateSubject) VisibleRegion(m trace.Matcher) *RegionSubject {
	name := "visibleRegion"
	if m != nil {
		name = fmt.Sprintf("visibleRegion(%s)", m)
	}
	return NewRegionSubject(name, s.state.VisibleRegion(m), s.state.Timestamp)
}

// DisplayRegion returns the region of the physical display, or a failure
// when the snapshot has none.
func (s *LayersStateSubject) DisplayRegion() (geom.Region, error) {
	bounds, ok := s.state.PhysicalDisplayBounds()
	if !ok {
		return geom.Region{}, &Failure{
			Check:     "displayRegion",
			Message:   "no physical display",
			Timestamp: s.state.Timestamp,
		}
	}
	return geom.RegionFromRect(bounds), nil
}

// CoversAllDisplays fails unless the visible layers cover the layer stack
// space of every display in the snapshot, or if there are no displays.
// The failure lists each uncovered display.
func (s *LayersStateSubject) CoversAllDisplays() error {
	if len(s.state.Displays) == 0 {
		return &Failure{
			Check:     "coversAllDisplays",
			Message:   "No displays found",
			Timestamp: s.state.Timestamp,
		}
	}

	visible := s.VisibleRegion(nil)
	var (
		errs      []error
		msgs      []string
		uncovered geom.Region
	)
	for _, d := range s.state.Displays {
		err := visible.CoversAtLeast(geom.RegionFromRect(d.LayerStackSpace))
		if err == nil {
			continue
		}
		errs = append(errs, err)
		msgs = append(msgs, fmt.Sprintf("display %d (%s): %s", d.ID, d.Name, failureMessage(err)))
		var f *Failure
		if errors.As(err, &f) {
			uncovered = uncovered.Union(f.Region)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &Failure{
		Check:     "coversAllDisplays",
		Message:   strings.Join(msgs, "; "),
		Timestamp: s.state.Timestamp,
		Region:    uncovered,
		Cause:     errors.Join(errs...),
	}
}

func failureMessage(err error) string {
	var f *Failure
	if errors.As(err, &f) && f.Message != "" {
		return f.Message
	}
	return err.Error()
}

func (s *LayersStateSubject) fail(check string, m trace.Matcher, expected, actual string) *Failure {
	return &Failure{
		Check:     fmt.Sprintf("%s(%s)", check, m),
		Expected:  expected,
		Actual:    actual,
		Timestamp: s.state.Timestamp,
	}
}
