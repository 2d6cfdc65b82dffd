package tiling

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidRatio is returned when a split ratio falls outside [0, 1].
	ErrInvalidRatio = errors.New("invalid ratio")
	// ErrInvalidPartitions is returned for a negative partition count.
	ErrInvalidPartitions = errors.New("invalid partition count")
)

// Point is a position or size in screen pixels.
type Point struct {
	X float64
	Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// IsZero reports whether both components are zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Rect is a window geometry: top-left position and size.
type Rect struct {
	Pos  Point
	Size Point
}

// R builds a Rect from x, y, width and height.
func R(x, y, w, h float64) Rect {
	return Rect{Pos: Point{X: x, Y: y}, Size: Point{X: w, Y: h}}
}

// RectDelta is the position and size change needed to turn one rect into
// another. It is kept distinct from Rect so it cannot be used as a geometry
// by accident.
type RectDelta struct {
	Pos  Point
	Size Point
}

// Add applies a delta to the rect.
func (r Rect) Add(d RectDelta) Rect {
	return Rect{Pos: r.Pos.Add(d.Pos), Size: r.Size.Add(d.Size)}
}

// IsZero reports whether position and size are both zero.
func (r Rect) IsZero() bool {
	return r.Pos.IsZero() && r.Size.IsZero()
}

// Center returns the rounded midpoint of the rect.
func (r Rect) Center() Point {
	return Point{
		X: Midpoint(r.Pos.X, r.Pos.X+r.Size.X),
		Y: Midpoint(r.Pos.Y, r.Pos.Y+r.Size.Y),
	}
}

// End returns the far edge of the rect along axis.
func (r Rect) End(axis Axis) float64 {
	return axis.Of(r.Pos) + axis.Of(r.Size)
}

func (r Rect) String() string {
	return fmt.Sprintf("%gx%g@%g,%g", r.Size.X, r.Size.Y, r.Pos.X, r.Pos.Y)
}

// Axis selects the x or y component of a Point.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == AxisY {
		return AxisX
	}
	return AxisY
}

// Of returns the component of p along the axis.
func (a Axis) Of(p Point) float64 {
	if a == AxisY {
		return p.Y
	}
	return p.X
}

// With returns p with its component along the axis replaced by v.
func (a Axis) With(p Point, v float64) Point {
	if a == AxisY {
		p.Y = v
	} else {
		p.X = v
	}
	return p
}

// round rounds half-way cases towards positive infinity.
func round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// SplitRect divides rect along axis into partitions adjacent rects separated
// by padding. ratio is the share the first partition would get if there were
// exactly two partitions; every partition after the first gets the same size.
func SplitRect(rect Rect, axis Axis, padding float64, partitions int, ratio float64) ([]Rect, error) {
	if ratio > 1 || ratio < 0 {
		return nil, fmt.Errorf("%w: %v (must be between 0 and 1)", ErrInvalidRatio, ratio)
	}
	if partitions < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPartitions, partitions)
	}
	if partitions == 0 {
		return []Rect{}, nil
	}
	if partitions == 1 {
		return []Rect{rect}, nil
	}

	sizeLeftTwo := axis.Of(rect.Size) * 2 / float64(partitions)
	sizeLeftmost := round(sizeLeftTwo * ratio)
	sizeOthers := round(sizeLeftTwo) - sizeLeftmost
	padding = round(math.Min(math.Min(sizeLeftmost/2, sizeOthers/2), padding))

	rects := make([]Rect, 0, partitions)

	first := rect
	first.Size = axis.With(first.Size, sizeLeftmost-padding)
	rects = append(rects, first)

	for i := 0; i < partitions-1; i++ {
		next := rect
		next.Size = axis.With(next.Size, sizeOthers-padding)
		offset := sizeLeftmost + float64(i)*sizeOthers + padding
		next.Pos = axis.With(next.Pos, axis.Of(rect.Pos)+offset)
		rects = append(rects, next)
	}
	return rects, nil
}

// EnsureRectExists clamps both size components to at least one pixel.
func EnsureRectExists(r Rect) Rect {
	r.Size.X = math.Max(1, r.Size.X)
	r.Size.Y = math.Max(1, r.Size.Y)
	return r
}

// Intersect returns the overlap of a and b. ok is false when the rects are
// strictly separated on either axis.
func Intersect(a, b Rect) (Rect, bool) {
	if a.Pos.X+a.Size.X < b.Pos.X ||
		a.Pos.Y+a.Size.Y < b.Pos.Y ||
		b.Pos.X+b.Size.X < a.Pos.X ||
		b.Pos.Y+b.Size.Y < a.Pos.Y {
		return Rect{}, false
	}

	x := math.Max(a.Pos.X, b.Pos.X)
	y := math.Max(a.Pos.Y, b.Pos.Y)
	w := math.Min(a.Pos.X+a.Size.X, b.Pos.X+b.Size.X) - x
	h := math.Min(a.Pos.Y+a.Size.Y, b.Pos.Y+b.Size.Y) - y
	return R(x, y, w, h), true
}

// Shrink insets rect by border on every side. Size never goes below zero.
func Shrink(rect Rect, border float64) Rect {
	return R(
		rect.Pos.X+border,
		rect.Pos.Y+border,
		math.Max(0, rect.Size.X-2*border),
		math.Max(0, rect.Size.Y-2*border),
	)
}

func minmax(a, b float64) (float64, float64) {
	return math.Min(a, b), math.Max(a, b)
}

// Midpoint returns the rounded value half way between a and b.
func Midpoint(a, b float64) float64 {
	lo, hi := minmax(a, b)
	return round(lo + (hi-lo)/2)
}

// Within reports whether val lies strictly between a and b.
func Within(val, a, b float64) bool {
	lo, hi := minmax(a, b)
	return val > lo && val < hi
}

// PointIsWithin reports whether p lies strictly inside rect.
func PointIsWithin(p Point, rect Rect) bool {
	return Within(p.X, rect.Pos.X, rect.Pos.X+rect.Size.X) &&
		Within(p.Y, rect.Pos.Y, rect.Pos.Y+rect.Size.Y)
}

// MoveRectWithin computes the delta that keeps original inside bounds: size
// is shrunk to fit first, then the position is pushed off the min and max
// edges. Callers apply it with Rect.Add.
func MoveRectWithin(original, bounds Rect) RectDelta {
	rect := original
	rect.Size.X = math.Min(rect.Size.X, bounds.Size.X)
	rect.Size.Y = math.Min(rect.Size.Y, bounds.Size.Y)
	rect.Pos.X = math.Max(rect.Pos.X, bounds.Pos.X)
	rect.Pos.Y = math.Max(rect.Pos.Y, bounds.Pos.Y)
	rect.Pos.X -= math.Max(0, rect.End(AxisX)-bounds.End(AxisX))
	rect.Pos.Y -= math.Max(0, rect.End(AxisY)-bounds.End(AxisY))
	return RectDelta{
		Pos:  rect.Pos.Sub(original.Pos),
		Size: rect.Size.Sub(original.Size),
	}
}
