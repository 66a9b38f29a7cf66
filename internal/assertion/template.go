package assertion

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/flicker/internal/scenario"
	"github.com/roach88/flicker/internal/subject"
	"github.com/roach88/flicker/internal/trace"
)

// CheckFunc is the body of a template. c is nil for templates that take no
// component.
type CheckFunc func(ctx context.Context, inst *scenario.Instance, c trace.Matcher) error

// Template is a reusable check, bound to a component when it is placed in a
// Registry.
type Template struct {
	Name string

	// NeedsComponent reports whether the check must be bound to a component.
	NeedsComponent bool

	Check CheckFunc
}

// Template names.
const (
	AppWindowCoversFullScreenAtEnd       = "appWindowCoversFullScreenAtEnd"
	EntireScreenCoveredAlways            = "entireScreenCoveredAlways"
	WindowMovesOutOfTop                  = "windowMovesOutOfTop"
	WindowMovesToTop                     = "windowMovesToTop"
	AppWindowBecomesVisible              = "appWindowBecomesVisible"
	AppWindowBecomesInvisible            = "appWindowBecomesInvisible"
	LayerBecomesVisible                  = "layerBecomesVisible"
	LayerBecomesInvisible                = "layerBecomesInvisible"
	StatusBarLayerIsVisibleAtStartAndEnd = "statusBarLayerIsVisibleAtStartAndEnd"
	NavBarLayerIsVisibleAtStartAndEnd    = "navBarLayerIsVisibleAtStartAndEnd"
	RotationChanged                      = "rotationChanged"
)

var catalog = map[string]Template{
	AppWindowCoversFullScreenAtEnd: {
		Name:           AppWindowCoversFullScreenAtEnd,
		NeedsComponent: true,
		Check:          appWindowCoversFullScreenAtEnd,
	},
	EntireScreenCoveredAlways: {
		Name: EntireScreenCoveredAlways,
		Check: withLayers(func(s *subject.LayersTraceSubject, _ trace.Matcher) error {
			return s.CoversAllDisplays().ForAllEntries()
		}),
	},
	WindowMovesOutOfTop: {
		Name:           WindowMovesOutOfTop,
		NeedsComponent: true,
		Check: withWindows(func(s *subject.WindowTraceSubject, c trace.Matcher) error {
			return s.IsAppWindowOnTop(c).Then().IsAppWindowNotOnTop(c).ForAllEntries()
		}),
	},
	WindowMovesToTop: {
		Name:           WindowMovesToTop,
		NeedsComponent: true,
		Check: withWindows(func(s *subject.WindowTraceSubject, c trace.Matcher) error {
			return s.IsAppWindowNotOnTop(c).Then().IsAppWindowOnTop(c).ForAllEntries()
		}),
	},
	AppWindowBecomesVisible: {
		Name:           AppWindowBecomesVisible,
		NeedsComponent: true,
		Check: withWindows(func(s *subject.WindowTraceSubject, c trace.Matcher) error {
			return s.IsWindowInvisible(c).Then().IsWindowVisible(c).ForAllEntries()
		}),
	},
	AppWindowBecomesInvisible: {
		Name:           AppWindowBecomesInvisible,
		NeedsComponent: true,
		Check: withWindows(func(s *subject.WindowTraceSubject, c trace.Matcher) error {
			return s.IsWindowVisible(c).Then().IsWindowInvisible(c).ForAllEntries()
		}),
	},
	LayerBecomesVisible: {
		Name:           LayerBecomesVisible,
		NeedsComponent: true,
		Check: withLayers(func(s *subject.LayersTraceSubject, c trace.Matcher) error {
			return s.IsInvisible(c).Then().IsVisible(c).ForAllEntries()
		}),
	},
	LayerBecomesInvisible: {
		Name:           LayerBecomesInvisible,
		NeedsComponent: true,
		Check: withLayers(func(s *subject.LayersTraceSubject, c trace.Matcher) error {
			return s.IsVisible(c).Then().IsInvisible(c).ForAllEntries()
		}),
	},
	StatusBarLayerIsVisibleAtStartAndEnd: {
		Name:  StatusBarLayerIsVisibleAtStartAndEnd,
		Check: layerVisibleAtStartAndEnd(trace.StatusBar),
	},
	NavBarLayerIsVisibleAtStartAndEnd: {
		Name:  NavBarLayerIsVisibleAtStartAndEnd,
		Check: layerVisibleAtStartAndEnd(trace.NavBar),
	},
	RotationChanged: {
		Name:  RotationChanged,
		Check: rotationChanged,
	},
}

// LookupTemplate returns the catalog template with the given name.
func LookupTemplate(name string) (Template, bool) {
	t, ok := catalog[name]
	return t, ok
}

// TemplateNames returns the catalog template names in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func withWindows(fn func(*subject.WindowTraceSubject, trace.Matcher) error) CheckFunc {
	return func(_ context.Context, inst *scenario.Instance, c trace.Matcher) error {
		wm, err := inst.Reader.ReadWindowTrace()
		if err != nil {
			return err
		}
		return fn(subject.NewWindowTraceSubject(wm), c)
	}
}

func withLayers(fn func(*subject.LayersTraceSubject, trace.Matcher) error) CheckFunc {
	return func(_ context.Context, inst *scenario.Instance, c trace.Matcher) error {
		layers, err := inst.Reader.ReadLayersTrace()
		if err != nil {
			return err
		}
		return fn(subject.NewLayersTraceSubject(layers), c)
	}
}

func appWindowCoversFullScreenAtEnd(_ context.Context, inst *scenario.Instance, c trace.Matcher) error {
	wm, err := inst.Reader.ReadWindowTrace()
	if err != nil {
		return err
	}
	layers, err := inst.Reader.ReadLayersTrace()
	if err != nil {
		return err
	}
	lastWindows, err := subject.NewWindowTraceSubject(wm).Last()
	if err != nil {
		return err
	}
	lastLayers, err := subject.NewLayersTraceSubject(layers).Last()
	if err != nil {
		return err
	}
	display, err := lastLayers.DisplayRegion()
	if err != nil {
		return err
	}
	return lastWindows.VisibleRegion(c).CoversExactly(display)
}

func layerVisibleAtStartAndEnd(m trace.Matcher) CheckFunc {
	return withLayers(func(s *subject.LayersTraceSubject, _ trace.Matcher) error {
		first, err := s.First()
		if err != nil {
			return err
		}
		last, err := s.Last()
		if err != nil {
			return err
		}
		return errors.Join(first.IsVisible(m), last.IsVisible(m))
	})
}

func rotationChanged(_ context.Context, inst *scenario.Instance, _ trace.Matcher) error {
	wm, err := inst.Reader.ReadWindowTrace()
	if err != nil {
		return err
	}
	s := subject.NewWindowTraceSubject(wm)
	first, err := s.First()
	if err != nil {
		return err
	}
	last, err := s.Last()
	if err != nil {
		return err
	}
	if err := first.HasRotation(inst.StartRotation); err != nil {
		return fmt.Errorf("start rotation: %w", err)
	}
	if err := last.HasRotation(inst.EndRotation); err != nil {
		return fmt.Errorf("end rotation: %w", err)
	}
	return nil
}
