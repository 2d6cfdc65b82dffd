package tiling

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRectTwoPartitions(t *testing.T) {
	rects, err := SplitRect(R(0, 0, 1200, 800), AxisX, 0, 2, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []Rect{R(0, 0, 600, 800), R(600, 0, 600, 800)}, rects)

	rects, err = SplitRect(R(0, 0, 1200, 800), AxisX, 10, 2, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []Rect{R(0, 0, 590, 800), R(610, 0, 590, 800)}, rects)
}

func TestSplitRectRatioControlsFirstPartitionOnly(t *testing.T) {
	rects, err := SplitRect(R(100, 0, 1200, 800), AxisX, 0, 3, 0.25)
	require.NoError(t, err)
	require.Len(t, rects, 3)

	// Two-way share is 800px; the first partition gets a quarter of it.
	assert.Equal(t, R(100, 0, 200, 800), rects[0])
	assert.Equal(t, R(300, 0, 600, 800), rects[1])
	assert.Equal(t, R(900, 0, 600, 800), rects[2])
}

func TestSplitRectAlongY(t *testing.T) {
	rects, err := SplitRect(R(0, 50, 600, 800), AxisY, 0, 2, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []Rect{R(0, 50, 600, 400), R(0, 450, 600, 400)}, rects)
}

func TestSplitRectDegenerateCounts(t *testing.T) {
	rect := R(5, 5, 100, 100)
	for _, padding := range []float64{0, 10, 1000} {
		rects, err := SplitRect(rect, AxisX, padding, 1, 0.5)
		require.NoError(t, err)
		assert.Equal(t, []Rect{rect}, rects, "padding %v", padding)
	}

	rects, err := SplitRect(rect, AxisY, 10, 0, 0.5)
	require.NoError(t, err)
	assert.Empty(t, rects)
}

func TestSplitRectRejectsBadInput(t *testing.T) {
	_, err := SplitRect(R(0, 0, 100, 100), AxisX, 0, 2, -0.1)
	assert.ErrorIs(t, err, ErrInvalidRatio)

	_, err = SplitRect(R(0, 0, 100, 100), AxisX, 0, 2, 1.1)
	assert.ErrorIs(t, err, ErrInvalidRatio)

	_, err = SplitRect(R(0, 0, 100, 100), AxisX, 0, -1, 0.5)
	assert.ErrorIs(t, err, ErrInvalidPartitions)
}

func TestSplitRectPartitionsFit(t *testing.T) {
	bounds := R(0, 0, 1200, 800)
	for partitions := 2; partitions <= 6; partitions++ {
		for _, ratio := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
			// With more than two partitions the later ones share the two-way
			// remainder, so they only fit when the first is at least half.
			if partitions > 2 && ratio < 0.5 {
				continue
			}
			for _, padding := range []float64{0, 5, 40, 500} {
				name := fmt.Sprintf("n=%d/ratio=%v/padding=%v", partitions, ratio, padding)
				t.Run(name, func(t *testing.T) {
					rects, err := SplitRect(bounds, AxisX, padding, partitions, ratio)
					require.NoError(t, err)
					require.Len(t, rects, partitions)

					total := 0.0
					for i, r := range rects {
						assert.Positive(t, r.Size.X, "rect %d", i)
						assert.Equal(t, bounds.Size.Y, r.Size.Y)
						total += r.Size.X
						if i > 0 {
							gap := r.Pos.X - rects[i-1].End(AxisX)
							assert.GreaterOrEqual(t, gap, 0.0, "gap before rect %d", i)
						}
					}
					assert.LessOrEqual(t, total, bounds.Size.X)
				})
			}
		}
	}
}

func TestIntersect(t *testing.T) {
	got, ok := Intersect(R(0, 0, 100, 100), R(50, 60, 100, 100))
	require.True(t, ok)
	assert.Equal(t, R(50, 60, 50, 40), got)

	_, ok = Intersect(R(0, 0, 100, 100), R(101, 0, 10, 10))
	assert.False(t, ok)

	// Touching edges are not strictly separated.
	got, ok = Intersect(R(0, 0, 100, 100), R(100, 0, 10, 10))
	require.True(t, ok)
	assert.Equal(t, 0.0, got.Size.X)
}

func TestShrink(t *testing.T) {
	assert.Equal(t, R(20, 20, 60, 160), Shrink(R(0, 0, 100, 200), 20))
	assert.Equal(t, R(30, 30, 0, 0), Shrink(R(0, 0, 50, 50), 30))
}

func TestMoveRectWithinReturnsDelta(t *testing.T) {
	bounds := R(0, 0, 1200, 800)
	original := R(-10, 50, 300, 900)

	delta := MoveRectWithin(original, bounds)
	assert.Equal(t, RectDelta{Pos: Point{X: 10, Y: -50}, Size: Point{X: 0, Y: -100}}, delta)
	assert.Equal(t, R(0, 0, 300, 800), original.Add(delta))

	inside := R(10, 10, 100, 100)
	assert.Equal(t, RectDelta{}, MoveRectWithin(inside, bounds))

	pastEnd := R(1150, 780, 100, 100)
	assert.Equal(t, R(1100, 700, 100, 100), pastEnd.Add(MoveRectWithin(pastEnd, bounds)))
}

func TestPointIsWithinIsStrict(t *testing.T) {
	rect := R(0, 0, 100, 100)
	assert.True(t, PointIsWithin(Point{X: 50, Y: 50}, rect))
	assert.False(t, PointIsWithin(Point{X: 0, Y: 50}, rect))
	assert.False(t, PointIsWithin(Point{X: 50, Y: 100}, rect))
}

func TestScalarHelpers(t *testing.T) {
	assert.Equal(t, 5.0, Midpoint(0, 10))
	assert.Equal(t, 5.0, Midpoint(10, 0))
	assert.Equal(t, 2.0, Midpoint(0, 3))
	assert.True(t, Within(0.5, 1, 0))
	assert.False(t, Within(1, 0, 1))
	assert.Equal(t, Point{X: 600, Y: 400}, R(0, 0, 1200, 800).Center())
	assert.Equal(t, R(0, 0, 1, 1), EnsureRectExists(R(0, 0, -5, 0)))
	assert.True(t, Rect{}.IsZero())
	assert.False(t, R(0, 0, 1, 0).IsZero())
}

func TestAxis(t *testing.T) {
	assert.Equal(t, AxisY, AxisX.Other())
	assert.Equal(t, AxisX, AxisY.Other())
	p := Point{X: 1, Y: 2}
	assert.Equal(t, 2.0, AxisY.Of(p))
	assert.Equal(t, Point{X: 9, Y: 2}, AxisX.With(p, 9))
}
