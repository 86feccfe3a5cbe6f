package geometry

import (
	"math"

	"github.com/dshills/keycraft/internal/layout"
)

// Flat layout metrics, in pixels.
const (
	KeySize      = 64
	KeyGap       = 8
	Pitch        = KeySize + KeyGap
	GridCols     = 7
	GridRows     = 3
	GridWidth    = GridCols*KeySize + (GridCols-1)*KeyGap
	GridHeight   = GridRows*KeySize + (GridRows-1)*KeyGap
	StaggerScale = 1.5
	SpecialNudge = 24
	ThumbMargin  = 24
	ThumbShift   = 120
	ThumbPadding = 2
)

// Placement2D is the flat placement of a key within its half.
// X and Y locate the top-left corner of the keycap before rotation, relative
// to the top-left of the half's key grid.
type Placement2D struct {
	// Column is the visual grid column (0..6), or -1 for thumb keys.
	Column int
	// Cluster is the thumb cluster index (0..2), or -1 for grid keys.
	Cluster int
	X, Y    float64
	// StaggerY is the column stagger already included in Y.
	StaggerY float64
	// Rotation is clockwise, in degrees, around the key center.
	Rotation float64
}

type flatFunc func(key layout.Key) Placement2D

var flatByCategory = map[layout.Category]flatFunc{
	layout.CategoryMain:    flatGrid,
	layout.CategoryExtra:   flatGrid,
	layout.CategorySpecial: flatSpecial,
	layout.CategoryThumb:   flatThumb,
}

// Flat resolves the 2D placement of a key.
func Flat(key layout.Key) Placement2D {
	fn, ok := flatByCategory[key.Category]
	if !ok {
		fn = flatGrid
	}
	return fn(key)
}

// VisualColumn maps a logical column onto the 7-column visual grid.
// The left half reserves visual column 0 for its outer extra column (logical
// -1); the right half reserves visual column 6 (logical 6).
func VisualColumn(side layout.Side, col int) int {
	if side == layout.SideLeft {
		col++
	}
	return clamp(col, 0, GridCols-1)
}

func flatGrid(key layout.Key) Placement2D {
	col := int(math.Round(key.Position.Col))
	stagger := Stagger(key.Side, col) * StaggerScale
	visual := VisualColumn(key.Side, col)

	return Placement2D{
		Column:   visual,
		Cluster:  -1,
		X:        float64(visual * Pitch),
		Y:        float64(key.Position.Row*Pitch) + stagger,
		StaggerY: stagger,
	}
}

func flatSpecial(key layout.Key) Placement2D {
	p := flatGrid(key)
	p.Y += SpecialNudge
	return p
}

func flatThumb(key layout.Key) Placement2D {
	idx := ThumbIndex(key.Position.Col)
	nudge := nudgeFor(key.Side, key.Position.Col)

	slot := KeySize + 2*ThumbPadding
	start := float64(GridWidth-layout.ThumbKeys*slot) / 2
	shift := float64(ThumbShift)
	if key.Side == layout.SideRight {
		shift = -shift
	}

	return Placement2D{
		Column:   -1,
		Cluster:  idx,
		X:        start + shift + float64(idx*slot+ThumbPadding) + nudge.dx,
		Y:        GridHeight + ThumbMargin + nudge.dy,
		Rotation: nudge.rotation,
	}
}
