package geometry

import (
	"math"

	"github.com/dshills/keycraft/internal/layout"
)

// Scene metrics, in scene units.
const (
	KeySpacing  = 1.1
	StaggerUnit = 0.015 // pixels of stagger to scene units
	NudgeUnit   = 0.01  // pixels of thumb nudge to scene units
	SpecialLift = 0.24
	ThumbDepth  = 1.8
	ThumbSpread = 1.05
)

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Placement3D is the spatial placement of a key within its half.
// X runs along columns, Z along rows (rows grow away from the viewer,
// toward negative Z), Y is height. Rotation is in radians.
type Placement3D struct {
	Position Vec3
	Rotation Vec3
}

var thumbBaseX = [2]float64{
	layout.SideLeft:  3,
	layout.SideRight: 0.5,
}

// rowTilt emulates a stepped keycap profile for main keys.
var rowTilt = map[int]float64{
	0: -0.15,
	1: -0.05,
	2: 0.10,
}

const thumbTilt = -0.10

type spatialFunc func(key layout.Key) Placement3D

var spatialByCategory = map[layout.Category]spatialFunc{
	layout.CategoryMain:    spatialMain,
	layout.CategoryExtra:   spatialExtra,
	layout.CategorySpecial: spatialSpecial,
	layout.CategoryThumb:   spatialThumb,
}

// Spatial resolves the 3D placement of a key.
func Spatial(key layout.Key) Placement3D {
	fn, ok := spatialByCategory[key.Category]
	if !ok {
		fn = spatialMain
	}
	p := fn(key)
	p.Rotation.X += tilt(key)
	return p
}

func tilt(key layout.Key) float64 {
	switch key.Category {
	case layout.CategoryMain:
		return rowTilt[key.Position.Row]
	case layout.CategoryThumb:
		return thumbTilt
	default:
		return 0
	}
}

func basePosition(key layout.Key) Vec3 {
	return Vec3{
		X: key.Position.Col * KeySpacing,
		Z: -float64(key.Position.Row) * KeySpacing,
	}
}

func depthStagger(side layout.Side, col float64) float64 {
	return Stagger(side, int(math.Round(col))) * StaggerUnit
}

func spatialMain(key layout.Key) Placement3D {
	pos := basePosition(key)
	pos.Z += depthStagger(key.Side, key.Position.Col)
	return Placement3D{Position: pos}
}

func spatialExtra(key layout.Key) Placement3D {
	pos := basePosition(key)
	if key.Side == layout.SideLeft {
		pos.X = -KeySpacing
	} else {
		pos.X = 6 * KeySpacing
	}
	return Placement3D{Position: pos}
}

func spatialSpecial(key layout.Key) Placement3D {
	pos := basePosition(key)
	pos.Z += depthStagger(key.Side, key.Position.Col)
	if key.Side == layout.SideLeft {
		pos.X = 5 * KeySpacing
	} else {
		pos.X = 0
	}
	pos.Y += SpecialLift
	return Placement3D{Position: pos}
}

func spatialThumb(key layout.Key) Placement3D {
	col := key.Position.Col
	nudge := nudgeFor(key.Side, col)

	pos := Vec3{
		X: thumbBaseX[key.Side] + (col-layout.ThumbColMin)*KeySpacing*ThumbSpread,
		Z: ThumbDepth + depthStagger(key.Side, col),
	}
	pos = pos.Add(Vec3{X: nudge.dx * NudgeUnit, Y: nudge.dy * NudgeUnit})

	return Placement3D{
		Position: pos,
		Rotation: Vec3{Y: -nudge.rotation * math.Pi / 180},
	}
}
