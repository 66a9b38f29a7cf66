package trace

import (
	"slices"

	"github.com/roach88/flicker/internal/geom"
)

// Layer is one compositor surface.
type Layer struct {
	ID            int
	ParentID      int
	Name          string
	Z             int
	Visible       bool
	IsOpaque      bool
	Bounds        geom.Rect
	VisibleRegion geom.Region
}

// Display is one logical display known to the compositor.
type Display struct {
	ID              int
	Name            string
	LayerStackSpace geom.Rect
	Rotation        Rotation
	IsVirtual       bool
}

// LayersState is a compositor snapshot.
type LayersState struct {
	Timestamp Timestamp
	VSyncID   int64
	Displays  []Display
	Layers    []Layer
}

// Time implements Entry.
func (s *LayersState) Time() Timestamp {
	return s.Timestamp
}

// PhysicalDisplayBounds returns the layer stack space of the first
// non-virtual display.
func (s *LayersState) PhysicalDisplayBounds() (geom.Rect, bool) {
	for _, d := range s.Displays {
		if !d.IsVirtual {
			return d.LayerStackSpace, true
		}
	}
	return geom.Rect{}, false
}

// VisibleLayers returns visible layers from top to bottom.
func (s *LayersState) VisibleLayers() []*Layer {
	var out []*Layer
	for i := range s.Layers {
		if s.Layers[i].Visible {
			out = append(out, &s.Layers[i])
		}
	}
	slices.SortStableFunc(out, func(a, b *Layer) int { return b.Z - a.Z })
	return out
}

// LayersMatching returns all layers matched by m.
func (s *LayersState) LayersMatching(m Matcher) []*Layer {
	var out []*Layer
	for i := range s.Layers {
		if m.MatchesLayer(&s.Layers[i]) {
			out = append(out, &s.Layers[i])
		}
	}
	return out
}

// IsVisible reports whether a layer matched by m is visible.
func (s *LayersState) IsVisible(m Matcher) bool {
	for _, l := range s.LayersMatching(m) {
		if l.Visible {
			return true
		}
	}
	return false
}

// VisibleRegion returns the union of the visible regions of visible layers
// matched by m, or of all visible layers when m is nil.
func (s *LayersState) VisibleRegion(m Matcher) geom.Region {
	region := geom.EmptyRegion()
	for _, l := range s.VisibleLayers() {
		if m != nil && !m.MatchesLayer(l) {
			continue
		}
		region = region.Union(l.VisibleRegion)
	}
	return region
}
