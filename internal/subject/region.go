package subject

import (
	"errors"

	"github.com/roach88/flicker/internal/geom"
	"github.com/roach88/flicker/internal/trace"
)

// RegionSubject asserts on a region observed at one instant.
type RegionSubject struct {
	name   string
	region geom.Region
	ts     trace.Timestamp
}

// NewRegionSubject wraps region. name identifies its source in failures,
// e.g. "visibleRegion(StatusBar)".
func NewRegionSubject(name string, region geom.Region, ts trace.Timestamp) *RegionSubject {
	return &RegionSubject{name: name, region: region, ts: ts}
}

// Region returns the wrapped region.
func (s *RegionSubject) Region() geom.Region {
	return s.region
}

// IsEmpty fails unless the region covers no pixels.
func (s *RegionSubject) IsEmpty() error {
	if s.region.IsEmpty() {
		return nil
	}
	return &Failure{
		Check:     s.name + ".isEmpty",
		Expected:  geom.EmptyRegion().String(),
		Actual:    s.region.String(),
		Timestamp: s.ts,
		Region:    s.region,
	}
}

// IsNotEmpty fails if the region covers no pixels.
func (s *RegionSubject) IsNotEmpty() error {
	if !s.region.IsEmpty() {
		return nil
	}
	return &Failure{
		Check:     s.name + ".isNotEmpty",
		Message:   "region is empty",
		Timestamp: s.ts,
	}
}

// CoversAtLeast fails if any pixel of expected is not covered.
func (s *RegionSubject) CoversAtLeast(expected geom.Region) error {
	return s.wrap(geom.CoversAtLeast(s.region, expected))
}

// CoversAtMost fails if any covered pixel lies outside expected.
func (s *RegionSubject) CoversAtMost(expected geom.Region) error {
	return s.wrap(geom.CoversAtMost(s.region, expected))
}

// CoversExactly fails unless the region equals expected.
func (s *RegionSubject) CoversExactly(expected geom.Region) error {
	return s.wrap(geom.CoversExactly(s.region, expected))
}

// Overlaps fails unless the region shares a pixel with other.
func (s *RegionSubject) Overlaps(other geom.Region) error {
	return s.wrap(geom.Overlaps(s.region, other))
}

// NotOverlaps fails if the region shares a pixel with other.
func (s *RegionSubject) NotOverlaps(other geom.Region) error {
	return s.wrap(geom.NotOverlaps(s.region, other))
}

// IsHigher fails unless the region starts strictly above other.
func (s *RegionSubject) IsHigher(other geom.Region) error {
	return s.wrap(geom.IsHigher(s.region, other))
}

// IsHigherOrEqual fails unless the region starts above or level with other.
func (s *RegionSubject) IsHigherOrEqual(other geom.Region) error {
	return s.wrap(geom.IsHigherOrEqual(s.region, other))
}

// IsLower fails unless the region starts strictly below other.
func (s *RegionSubject) IsLower(other geom.Region) error {
	return s.wrap(geom.IsLower(s.region, other))
}

// IsLowerOrEqual fails unless the region starts below or level with other.
func (s *RegionSubject) IsLowerOrEqual(other geom.Region) error {
	return s.wrap(geom.IsLowerOrEqual(s.region, other))
}

func (s *RegionSubject) wrap(err error) error {
	if err == nil {
		return nil
	}
	var ce *geom.CheckError
	if !errors.As(err, &ce) {
		return asFailure(s.name, s.ts, err)
	}
	return &Failure{
		Check:     s.name + "." + ce.Check,
		Message:   ce.Message,
		Expected:  ce.Expected,
		Actual:    ce.Actual,
		Timestamp: s.ts,
		Region:    ce.Region,
		Cause:     ce,
	}
}
