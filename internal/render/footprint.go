package render

import (
	"math"

	"github.com/dshills/keycraft/internal/geometry"
	"github.com/dshills/keycraft/internal/layout"
)

// Board metrics shared by the terminal and image renderers, in board pixels.
const (
	// CableGap separates the two halves in the flat view.
	CableGap = 120
	// UnitPx is the size of one scene unit in the spatial view.
	UnitPx = geometry.KeySize
	// HalfOffset is the distance in scene units from the board center to
	// each half's origin in the spatial view.
	HalfOffset = 4.0
	// heightSkew lifts raised keys up the screen in the oblique projection.
	heightSkew = 0.5
)

// Footprint is a keycap's outline on the board plane.
// X and Y locate the top-left corner before rotation; Rotation is clockwise
// degrees around the center.
type Footprint struct {
	X, Y, W, H float64
	Rotation   float64
}

// Center returns the center of the footprint.
func (fp Footprint) Center() (float64, float64) {
	return fp.X + fp.W/2, fp.Y + fp.H/2
}

// Corners returns the rotated corners, clockwise from top-left.
func (fp Footprint) Corners() [4][2]float64 {
	cx, cy := fp.Center()
	sin, cos := math.Sincos(fp.Rotation * math.Pi / 180)
	hw, hh := fp.W/2, fp.H/2

	var out [4][2]float64
	for i, d := range [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}} {
		out[i] = [2]float64{
			cx + d[0]*cos - d[1]*sin,
			cy + d[0]*sin + d[1]*cos,
		}
	}
	return out
}

// Contains reports whether the board point (x, y) lies inside the footprint.
func (fp Footprint) Contains(x, y float64) bool {
	cx, cy := fp.Center()
	sin, cos := math.Sincos(-fp.Rotation * math.Pi / 180)
	dx, dy := x-cx, y-cy
	lx := dx*cos - dy*sin
	ly := dx*sin + dy*cos
	return math.Abs(lx) <= fp.W/2 && math.Abs(ly) <= fp.H/2
}

// Footprints projects every key in the frame onto the board plane.
// The result is parallel to f.Keys.
func Footprints(f Frame) []Footprint {
	out := make([]Footprint, len(f.Keys))
	for i, k := range f.Keys {
		if f.Mode == ModeSpatial {
			out[i] = spatialFootprint(k)
		} else {
			out[i] = flatFootprint(k)
		}
	}
	return out
}

func flatFootprint(k KeyView) Footprint {
	offset := 0.0
	if k.Side == layout.SideRight {
		offset = geometry.GridWidth + CableGap
	}
	return Footprint{
		X:        k.Flat.X + offset,
		Y:        k.Flat.Y,
		W:        geometry.KeySize,
		H:        geometry.KeySize,
		Rotation: k.Flat.Rotation,
	}
}

// spatialFootprint is an oblique top-down projection seen from the viewer's
// side: scene X to the right, Z (toward the viewer) down the screen, height
// nudging keys upward. Row tilt foreshortens the keycap.
func spatialFootprint(k KeyView) Footprint {
	p := k.Spatial
	offset := -HalfOffset
	if k.Side == layout.SideRight {
		offset = HalfOffset
	}
	h := UnitPx * math.Cos(p.Rotation.X)
	return Footprint{
		X:        (p.Position.X + offset) * UnitPx,
		Y:        (p.Position.Z-p.Position.Y*heightSkew)*UnitPx + (UnitPx-h)/2,
		W:        UnitPx,
		H:        h,
		Rotation: -p.Rotation.Y * 180 / math.Pi,
	}
}

// Bounds is an axis-aligned box on the board plane.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the box width.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the box height.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// BoundsOf returns the box enclosing every rotated footprint.
func BoundsOf(fps []Footprint) Bounds {
	if len(fps) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, fp := range fps {
		for _, c := range fp.Corners() {
			b.MinX = math.Min(b.MinX, c[0])
			b.MinY = math.Min(b.MinY, c[1])
			b.MaxX = math.Max(b.MaxX, c[0])
			b.MaxY = math.Max(b.MaxY, c[1])
		}
	}
	return b
}

// halfBounds returns the box enclosing the keys of one side.
func halfBounds(f Frame, fps []Footprint, side layout.Side) Bounds {
	var sub []Footprint
	for i, k := range f.Keys {
		if k.Side == side {
			sub = append(sub, fps[i])
		}
	}
	return BoundsOf(sub)
}

// CableEnds returns where the cable meets each half: the inner edge of the
// main keys, at the vertical middle of the main rows.
func CableEnds(f Frame, fps []Footprint) (x0, y0, x1, y1 float64, ok bool) {
	x0, x1 = math.Inf(-1), math.Inf(1)
	var sumY float64
	n := 0
	for i, k := range f.Keys {
		if k.Category != layout.CategoryMain {
			continue
		}
		fp := fps[i]
		_, cy := fp.Center()
		sumY += cy
		n++
		if k.Side == layout.SideLeft {
			x0 = math.Max(x0, fp.X+fp.W)
		} else {
			x1 = math.Min(x1, fp.X)
		}
	}
	if n == 0 || math.IsInf(x0, 0) || math.IsInf(x1, 0) {
		return 0, 0, 0, 0, false
	}
	y := sumY / float64(n)
	return x0, y, x1, y, true
}

// CablePath samples the cable as a gentle S-curve between its ends:
// two quadratic segments bowing up then down. steps must be at least 2.
func CablePath(x0, y0, x1, y1 float64, steps int) [][2]float64 {
	steps = max(steps, 2)
	span := x1 - x0
	amp := span * 0.2
	mx, my := (x0+x1)/2, (y0+y1)/2

	quad := func(ax, ay, cx, cy, bx, by, t float64) [2]float64 {
		u := 1 - t
		return [2]float64{
			u*u*ax + 2*u*t*cx + t*t*bx,
			u*u*ay + 2*u*t*cy + t*t*by,
		}
	}

	out := make([][2]float64, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		if t <= 0.5 {
			out = append(out, quad(x0, y0, x0+span*0.2, y0-amp, mx, my, t*2))
		} else {
			out = append(out, quad(mx, my, x0+span*0.8, y1+amp, x1, y1, t*2-1))
		}
	}
	return out
}
