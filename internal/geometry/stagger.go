// Package geometry maps logical key slots to visual placement.
//
// Two resolvers are provided: Flat produces 2D pixel offsets for a flat
// rendering and Spatial produces 3D position/rotation triples in scene units.
// Both are pure functions of (key, side). Per-category rules are dispatched
// through a table of placement functions; the shared column stagger math
// lives in this file.
package geometry

import (
	"math"

	"github.com/dshills/keycraft/internal/layout"
)

// ColumnStagger holds the per-column vertical offset in pixels, indexed by
// visual column. The pattern is read outward from the center gap.
var ColumnStagger = [6]float64{0, -4, -12, -16, -8, 0}

// StaggerIndex returns the visual stagger index for a logical column.
//
// The left half uses the column directly. The right half is mirrored so both
// halves stagger symmetrically around the center gap. The result is always
// clamped to the table bounds.
func StaggerIndex(side layout.Side, col int) int {
	if side == layout.SideRight {
		col = 5 - col
	}
	return clamp(col, 0, len(ColumnStagger)-1)
}

// Stagger returns the raw stagger (pixels, unscaled) for a logical column.
func Stagger(side layout.Side, col int) float64 {
	return ColumnStagger[StaggerIndex(side, col)]
}

// ThumbIndex returns the cluster index (0..2) of a thumb key from its
// fractional column.
func ThumbIndex(col float64) int {
	return clamp(int(math.Round(col-layout.ThumbColMin)), 0, layout.ThumbKeys-1)
}

// thumbNudge is the per-index micro offset of a thumb cluster member in
// pixels, with the 2D rotation in degrees.
type thumbNudge struct {
	dx, dy   float64
	rotation float64
}

// thumbNudges is indexed by side then cluster index. The right cluster is the
// left one mirrored: same x direction, y offsets and rotation reversed so
// both clusters fan toward the center gap.
var thumbNudges = [2][3]thumbNudge{
	layout.SideLeft: {
		{dx: -8, dy: -16, rotation: 0},
		{dx: 0, dy: -8, rotation: 10},
		{dx: 8, dy: 0, rotation: 20},
	},
	layout.SideRight: {
		{dx: -8, dy: 0, rotation: -20},
		{dx: 0, dy: -8, rotation: -10},
		{dx: 8, dy: -16, rotation: 0},
	},
}

func nudgeFor(side layout.Side, col float64) thumbNudge {
	return thumbNudges[side][ThumbIndex(col)]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
