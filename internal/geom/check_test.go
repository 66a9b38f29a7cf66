package geom

import (
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rg(l, t, r, b int) Region {
	return RegionFromRect(NewRect(l, t, r, b))
}

func requireCheckMessage(t *testing.T, err error, contains string) {
	t.Helper()
	require.Error(t, err)
	var ce *CheckError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Message, contains)
}

func TestPosition_Higher(t *testing.T) {
	a, b := rg(0, 0, 1, 1), rg(0, 1, 1, 2)

	assert.NoError(t, IsHigher(a, b))
	assert.NoError(t, IsHigherOrEqual(a, b))
	requireCheckMessage(t, IsLower(a, b), MsgErrorTopPosition)
	requireCheckMessage(t, IsLowerOrEqual(a, b), MsgErrorTopPosition)
}

func TestPosition_Lower(t *testing.T) {
	a, b := rg(0, 2, 1, 3), rg(0, 0, 1, 1)

	assert.NoError(t, IsLower(a, b))
	assert.NoError(t, IsLowerOrEqual(a, b))
	requireCheckMessage(t, IsHigher(a, b), MsgErrorTopPosition)
	requireCheckMessage(t, IsHigherOrEqual(a, b), MsgErrorTopPosition)
}

func TestPosition_EqualBoundaries(t *testing.T) {
	a, b := rg(0, 1, 1, 0), rg(1, 1, 2, 0)

	assert.NoError(t, IsHigherOrEqual(a, b))
	assert.NoError(t, IsLowerOrEqual(a, b))
	requireCheckMessage(t, IsHigher(a, b), MsgErrorTopPosition)
	requireCheckMessage(t, IsLower(a, b), MsgErrorTopPosition)
}

func TestPosition_HorizontalMismatchReportedFirst(t *testing.T) {
	checks := []func(a, b Region) error{IsHigher, IsHigherOrEqual, IsLower, IsLowerOrEqual}

	tests := []struct {
		name string
		a, b Region
		msg  string
	}{
		{"left", rg(0, 1, 2, 2), rg(1, 1, 2, 2), MsgErrorLeftPosition},
		{"right", rg(0, 1, 2, 2), rg(0, 1, 3, 1), MsgErrorRightPosition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, check := range checks {
				requireCheckMessage(t, check(tt.a, tt.b), tt.msg)
			}
		})
	}
}

func TestCoversAtLeast(t *testing.T) {
	a, b := rg(1, 1, 2, 2), rg(0, 0, 2, 2)

	assert.NoError(t, CoversAtLeast(a, a))
	assert.NoError(t, CoversAtLeast(b, a))
	err := CoversAtLeast(a, b)
	requireCheckMessage(t, err, "Region((0,0,2,1)(0,1,1,2))")

	var ce *CheckError
	require.True(t, errors.As(err, &ce))
	assert.True(t, ce.Region.Equal(b.Subtract(a)))
}

func TestCoversAtMost(t *testing.T) {
	a, b := rg(1, 1, 2, 2), rg(0, 0, 2, 2)

	assert.NoError(t, CoversAtMost(a, a))
	assert.NoError(t, CoversAtMost(a, b))
	requireCheckMessage(t, CoversAtMost(b, a), "Region((0,0,2,1)(0,1,1,2))")
}

func TestCoversExactly(t *testing.T) {
	a, b := rg(1, 1, 2, 2), rg(0, 0, 2, 2)

	assert.NoError(t, CoversExactly(a, a))
	requireCheckMessage(t, CoversExactly(a, b), "Region((0,0,2,1)(0,1,1,2))")
}

func TestCoversExactly_IffSamePixels(t *testing.T) {
	split := NewRegion(NewRect(0, 0, 5, 10), NewRect(5, 0, 10, 10))
	whole := rg(0, 0, 10, 10)
	assert.NoError(t, CoversExactly(split, whole))

	shifted := rg(0, 1, 10, 11)
	err := CoversExactly(whole, shifted)
	var ce *CheckError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []Rect{NewRect(0, 0, 10, 1), NewRect(0, 10, 10, 11)}, ce.Region.Rects())
}

func TestOverlaps(t *testing.T) {
	a, b, c := rg(1, 1, 2, 2), rg(0, 0, 2, 2), rg(2, 2, 3, 3)

	assert.NoError(t, Overlaps(a, b))
	assert.NoError(t, Overlaps(b, a))
	requireCheckMessage(t, Overlaps(a, c), "Overlap region: Region()")
}

func TestNotOverlaps(t *testing.T) {
	a, b, c := rg(1, 1, 2, 2), rg(2, 2, 3, 3), rg(0, 0, 2, 2)

	assert.NoError(t, NotOverlaps(a, b))
	assert.NoError(t, NotOverlaps(b, a))
	requireCheckMessage(t, NotOverlaps(a, c), "Region((1,1,2,2))")
}

func TestCheckErrors_Golden(t *testing.T) {
	a, b, c := rg(1, 1, 2, 2), rg(0, 0, 2, 2), rg(2, 2, 3, 3)

	errs := []error{
		CoversAtLeast(a, b),
		CoversAtMost(b, a),
		CoversExactly(a, b),
		Overlaps(a, c),
		NotOverlaps(a, b),
		IsLower(rg(0, 0, 1, 1), rg(0, 1, 1, 2)),
	}

	var buf strings.Builder
	for _, err := range errs {
		require.Error(t, err)
		buf.WriteString(err.Error())
		buf.WriteString("\n")
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "region_checks", []byte(buf.String()))
}
