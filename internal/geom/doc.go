// Package geom provides exact integer rectangle and region algebra.
//
// A Region is stored in a canonical Y-banded form: the plane is cut into
// horizontal bands, each band holds sorted, non-touching horizontal spans,
// and vertically adjacent bands with identical spans are coalesced. Two
// regions covering the same pixels therefore always have identical
// rectangle lists, which makes coverage checks exact equality tests.
//
// The check functions (CoversAtLeast, IsHigher, ...) return a *CheckError
// describing the violated sub-region or position when they fail.
package geom
