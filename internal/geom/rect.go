package geom

import "fmt"

// Rect is an axis-aligned rectangle with exclusive right and bottom edges.
// A rectangle whose right edge is not past its left edge (or bottom not past
// top) is empty and covers no pixels.
type Rect struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

// NewRect returns the rectangle with the given edges.
func NewRect(left, top, right, bottom int) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// IsEmpty reports whether r covers no pixels.
func (r Rect) IsEmpty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// Width returns the horizontal extent, or 0 for an empty rectangle.
func (r Rect) Width() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the vertical extent, or 0 for an empty rectangle.
func (r Rect) Height() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Bottom - r.Top
}

// Area returns the number of pixels covered by r.
func (r Rect) Area() int64 {
	return int64(r.Width()) * int64(r.Height())
}

// Intersect returns the overlap of r and o (possibly empty).
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

// Contains reports whether every pixel of o is inside r.
// An empty o is contained by any rectangle.
func (r Rect) Contains(o Rect) bool {
	if o.IsEmpty() {
		return true
	}
	return r.Left <= o.Left && r.Top <= o.Top && r.Right >= o.Right && r.Bottom >= o.Bottom
}

// String renders the rectangle as (left,top,right,bottom).
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}
