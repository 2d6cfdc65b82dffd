package tiling

import (
	"fmt"
	"log/slog"
)

const defaultRatio = 0.5

// BaseSplit holds the ratio of a binary division along one axis.
type BaseSplit struct {
	axis     Axis
	ratio    float64
	lastSize float64
	log      *slog.Logger
}

// NewBaseSplit returns an even split along axis.
func NewBaseSplit(axis Axis) *BaseSplit {
	return &BaseSplit{
		axis:  axis,
		ratio: defaultRatio,
		log:   slog.Default().With("component", "tiling.BaseSplit"),
	}
}

// Axis returns the axis the split divides.
func (s *BaseSplit) Axis() Axis { return s.axis }

// Ratio returns the first partition's share.
func (s *BaseSplit) Ratio() float64 { return s.ratio }

// LastSize returns the extent recorded at the last split computation.
func (s *BaseSplit) LastSize() float64 { return s.lastSize }

// SetRatio replaces the ratio.
func (s *BaseSplit) SetRatio(ratio float64) error {
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidRatio, ratio)
	}
	s.ratio = ratio
	return nil
}

// AdjustRatio moves the ratio by diff, clamped into [0, 1].
func (s *BaseSplit) AdjustRatio(diff float64) {
	s.ratio = min(1, max(0, s.ratio+diff))
}

// SaveLastRect records rect's extent along the split axis.
func (s *BaseSplit) SaveLastRect(rect Rect) {
	s.lastSize = s.axis.Of(rect.Size)
}

// AdjustRatioPx moves the split edge by diff pixels, relative to the extent
// recorded by the last split. The ratio is left unchanged and an error is
// returned when the result would not lie strictly inside (0, 1).
func (s *BaseSplit) AdjustRatioPx(diff float64) error {
	s.log.Debug("adjusting ratio by px", "ratio", s.ratio, "diff", diff)
	if diff == 0 {
		return nil
	}
	if s.lastSize == 0 {
		return fmt.Errorf("%w: no split computed yet", ErrInvalidRatio)
	}
	currentPx := s.ratio * s.lastSize
	newRatio := (currentPx + diff) / s.lastSize
	if !Within(newRatio, 0, 1) {
		return fmt.Errorf("%w: %v", ErrInvalidRatio, newRatio)
	}
	s.log.Debug("new ratio", "ratio", newRatio, "last_size", s.lastSize)
	s.ratio = newRatio
	return nil
}

// Partition is one rect produced by a MultiSplit and the tiles placed in it.
type Partition struct {
	Rect  Rect
	Tiles []*Tile
}

// MultiSplit divides windows into partitions along an axis. PrimaryWindows
// is the number of windows in the first partition (it may be zero or
// negative; the first partition always holds at least one window) and each
// following partition holds one more, up to MaxPartitions partitions.
type MultiSplit struct {
	BaseSplit
	PrimaryWindows int
	MaxPartitions  int
}

// NewMultiSplit returns a MultiSplit with an even ratio.
func NewMultiSplit(axis Axis, primaryWindows, maxPartitions int) *MultiSplit {
	return &MultiSplit{
		BaseSplit: BaseSplit{
			axis:  axis,
			ratio: defaultRatio,
			log:   slog.Default().With("component", "tiling.MultiSplit", "axis", string(axis)),
		},
		PrimaryWindows: primaryWindows,
		MaxPartitions:  maxPartitions,
	}
}

// PartitionWindows groups tiles front to back. Whatever is left after the
// first MaxPartitions-1 groups goes in the last one. Empty groups are never
// returned.
func (m *MultiSplit) PartitionWindows(tiles []*Tile) [][]*Tile {
	var partitioned [][]*Tile
	remaining := tiles
	for i := 0; i < m.MaxPartitions-1 && len(remaining) > 0; i++ {
		take := max(1, m.PrimaryWindows+i)
		if take > len(remaining) {
			take = len(remaining)
		}
		partitioned = append(partitioned, remaining[:take:take])
		remaining = remaining[take:]
	}
	if len(remaining) > 0 {
		partitioned = append(partitioned, remaining)
	}
	return partitioned
}

// Split records bounds, partitions tiles and pairs each group with its rect.
func (m *MultiSplit) Split(bounds Rect, tiles []*Tile, padding float64) ([]Partition, error) {
	m.SaveLastRect(bounds)

	groups := m.PartitionWindows(tiles)
	rects, err := SplitRect(bounds, m.axis, padding, len(groups), m.ratio)
	if err != nil {
		return nil, err
	}

	partitions := make([]Partition, 0, len(groups))
	for i := 0; i < len(rects) && i < len(groups); i++ {
		partitions = append(partitions, Partition{Rect: rects[i], Tiles: groups[i]})
	}
	return partitions, nil
}

// InPrimaryPartition reports whether the tile at idx sits in the first
// partition. Index 0 always does, even when PrimaryWindows <= 0.
func (m *MultiSplit) InPrimaryPartition(idx int) bool {
	return idx < m.PrimaryWindows || idx == 0
}

// SplitStates holds one MultiSplit per axis so ratios survive switching
// between layouts with different main axes.
type SplitStates struct {
	X *MultiSplit
	Y *MultiSplit
}

// For returns the split for axis.
func (s SplitStates) For(axis Axis) *MultiSplit {
	if axis == AxisY {
		return s.Y
	}
	return s.X
}
