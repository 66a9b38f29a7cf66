package geom

import (
	"slices"
	"strings"
)

// Region is a set of pixels represented by non-overlapping rectangles in
// canonical banded order. The zero value is the empty region.
//
// Region values are immutable; every operation returns a new Region.
type Region struct {
	rects []Rect
}

// span is a half-open horizontal interval [left, right).
type span struct {
	left, right int
}

// band is a horizontal strip [top, bottom) covered by a list of spans.
type band struct {
	top, bottom int
	spans       []span
}

// EmptyRegion returns the region covering no pixels.
func EmptyRegion() Region {
	return Region{}
}

// RegionFromRect returns the region covered by a single rectangle.
// Empty rectangles produce the empty region.
func RegionFromRect(r Rect) Region {
	if r.IsEmpty() {
		return Region{}
	}
	return Region{rects: []Rect{r}}
}

// NewRegion returns the union of the given rectangles.
func NewRegion(rects ...Rect) Region {
	out := Region{}
	for _, r := range rects {
		out = out.Union(RegionFromRect(r))
	}
	return out
}

// Rects returns a copy of the canonical rectangle decomposition.
func (g Region) Rects() []Rect {
	return slices.Clone(g.rects)
}

// IsEmpty reports whether the region covers no pixels.
func (g Region) IsEmpty() bool {
	return len(g.rects) == 0
}

// Bounds returns the smallest rectangle containing the region.
// The empty region has zero bounds.
func (g Region) Bounds() Rect {
	if g.IsEmpty() {
		return Rect{}
	}
	b := g.rects[0]
	for _, r := range g.rects[1:] {
		b.Left = min(b.Left, r.Left)
		b.Top = min(b.Top, r.Top)
		b.Right = max(b.Right, r.Right)
		b.Bottom = max(b.Bottom, r.Bottom)
	}
	return b
}

// ToRect returns the bounds of the region. For a region built from a
// single non-empty rectangle this is the original rectangle.
func (g Region) ToRect() Rect {
	return g.Bounds()
}

// Area returns the number of covered pixels.
func (g Region) Area() int64 {
	var total int64
	for _, r := range g.rects {
		total += r.Area()
	}
	return total
}

// Equal reports whether both regions cover exactly the same pixels.
func (g Region) Equal(o Region) bool {
	return slices.Equal(g.rects, o.rects)
}

// Union returns the pixels in either region.
func (g Region) Union(o Region) Region {
	if g.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return g
	}
	return combine(g, o, func(a, b bool) bool { return a || b })
}

// Intersect returns the pixels in both regions.
func (g Region) Intersect(o Region) Region {
	if g.IsEmpty() || o.IsEmpty() {
		return Region{}
	}
	return combine(g, o, func(a, b bool) bool { return a && b })
}

// Subtract returns the pixels in g that are not in o.
func (g Region) Subtract(o Region) Region {
	if g.IsEmpty() || o.IsEmpty() {
		return g
	}
	return combine(g, o, func(a, b bool) bool { return a && !b })
}

// Xor returns the pixels in exactly one of the two regions.
func (g Region) Xor(o Region) Region {
	return combine(g, o, func(a, b bool) bool { return a != b })
}

// String renders the region as Region((l,t,r,b)(l,t,r,b)...).
func (g Region) String() string {
	var buf strings.Builder
	buf.WriteString("Region(")
	for _, r := range g.rects {
		buf.WriteString(r.String())
	}
	buf.WriteString(")")
	return buf.String()
}

// combine evaluates a boolean pixel operation over two regions and returns
// the result in canonical form.
func combine(a, b Region, op func(inA, inB bool) bool) Region {
	ys := edges(a.rects, b.rects, func(r Rect) (int, int) { return r.Top, r.Bottom })

	var bands []band
	for i := 0; i+1 < len(ys); i++ {
		top, bottom := ys[i], ys[i+1]
		spans := combineSpans(spansAt(a.rects, top, bottom), spansAt(b.rects, top, bottom), op)
		if len(spans) == 0 {
			continue
		}

		// Coalesce with the previous band when it touches and has the same shape.
		if n := len(bands); n > 0 && bands[n-1].bottom == top && slices.Equal(bands[n-1].spans, spans) {
			bands[n-1].bottom = bottom
			continue
		}
		bands = append(bands, band{top: top, bottom: bottom, spans: spans})
	}

	var rects []Rect
	for _, bd := range bands {
		for _, s := range bd.spans {
			rects = append(rects, Rect{Left: s.left, Top: bd.top, Right: s.right, Bottom: bd.bottom})
		}
	}
	return Region{rects: rects}
}

// spansAt returns the sorted horizontal spans of rects that fully cover the
// strip [top, bottom). Strip boundaries always come from rectangle edges, so
// a rectangle either covers the whole strip or none of it.
func spansAt(rects []Rect, top, bottom int) []span {
	var out []span
	for _, r := range rects {
		if r.Top <= top && r.Bottom >= bottom {
			out = append(out, span{left: r.Left, right: r.Right})
		}
	}
	slices.SortFunc(out, func(x, y span) int { return x.left - y.left })
	return out
}

// combineSpans applies op to the coverage of two span lists and returns the
// merged result with touching spans joined.
func combineSpans(a, b []span, op func(inA, inB bool) bool) []span {
	xs := make([]int, 0, 2*(len(a)+len(b)))
	for _, s := range a {
		xs = append(xs, s.left, s.right)
	}
	for _, s := range b {
		xs = append(xs, s.left, s.right)
	}
	slices.Sort(xs)
	xs = slices.Compact(xs)

	var out []span
	for i := 0; i+1 < len(xs); i++ {
		left, right := xs[i], xs[i+1]
		if !op(covers(a, left), covers(b, left)) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].right == left {
			out[n-1].right = right
			continue
		}
		out = append(out, span{left: left, right: right})
	}
	return out
}

// covers reports whether x lies inside any span.
func covers(spans []span, x int) bool {
	for _, s := range spans {
		if s.left <= x && x < s.right {
			return true
		}
	}
	return false
}

// edges returns the sorted, de-duplicated edge coordinates selected by pick.
func edges(a, b []Rect, pick func(Rect) (int, int)) []int {
	out := make([]int, 0, 2*(len(a)+len(b)))
	for _, r := range a {
		lo, hi := pick(r)
		out = append(out, lo, hi)
	}
	for _, r := range b {
		lo, hi := pick(r)
		out = append(out, lo, hi)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
