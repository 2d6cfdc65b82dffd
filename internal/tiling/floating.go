package tiling

import (
	"log/slog"
	"math"
)

// hiddenRank sorts minimized tiles after every angle AngularSortOrder can
// produce.
const hiddenRank = 99999

// AngularSortOrder ranks visible tiles clockwise around the screen centre,
// starting just below due west. A tile centred exactly on the screen centre
// ranks as due up.
func AngularSortOrder(_ *TileCollection, t *Tile, screenMidpoint Point) float64 {
	if !IsVisible(t) {
		return hiddenRank
	}
	vector := t.DesiredRect().Center().Sub(screenMidpoint)
	var angle float64
	if vector.IsZero() {
		angle = -math.Pi / 2
	} else {
		angle = math.Atan2(vector.Y, vector.X)
	}
	angle += math.Pi
	if angle > 31.0/32.0*2*math.Pi {
		angle -= 2 * math.Pi
	}
	return angle
}

// NewFloatingTileCollection returns a collection cycled in screen order
// rather than tiling order.
func NewFloatingTileCollection(bounds *Bounds) *TileCollection {
	c := NewTileCollection(bounds)
	c.sortOrder = AngularSortOrder
	c.log = slog.Default().With("component", "tiling.FloatingTileCollection")
	return c
}
