package geometry

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/dshills/keycraft/internal/layout"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func mainKey(side layout.Side, row, col int) layout.Key {
	return layout.Key{
		ID:       "k",
		Category: layout.CategoryMain,
		Side:     side,
		Position: layout.Position{Row: row, Col: float64(col)},
	}
}

func TestStaggerIndex(t *testing.T) {
	tests := []struct {
		side layout.Side
		col  int
		want int
	}{
		{layout.SideLeft, -1, 0},
		{layout.SideLeft, 0, 0},
		{layout.SideLeft, 3, 3},
		{layout.SideLeft, 5, 5},
		{layout.SideLeft, 9, 5},
		{layout.SideRight, 0, 5},
		{layout.SideRight, 2, 3},
		{layout.SideRight, 5, 0},
		{layout.SideRight, 6, 0},
		{layout.SideRight, -3, 5},
	}
	for _, tt := range tests {
		if got := StaggerIndex(tt.side, tt.col); got != tt.want {
			t.Errorf("StaggerIndex(%v, %d) = %d, want %d", tt.side, tt.col, got, tt.want)
		}
	}
}

func TestFlatStaggerMirroring(t *testing.T) {
	for row := 0; row < layout.MainRows; row++ {
		for c := 0; c < layout.MainCols; c++ {
			left := Flat(mainKey(layout.SideLeft, row, c))
			right := Flat(mainKey(layout.SideRight, row, 5-c))
			if !approx(left.StaggerY, right.StaggerY) {
				t.Errorf("row %d col %d: left stagger %v != right stagger %v at col %d",
					row, c, left.StaggerY, right.StaggerY, 5-c)
			}
			if !approx(left.Y, right.Y) {
				t.Errorf("row %d col %d: left Y %v != right Y %v", row, c, left.Y, right.Y)
			}
		}
	}
}

func TestFlatStaggerMirroringProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := rapid.IntRange(0, 5).Draw(t, "col")
		row := rapid.IntRange(0, 2).Draw(t, "row")
		left := Flat(mainKey(layout.SideLeft, row, c))
		right := Flat(mainKey(layout.SideRight, row, 5-c))
		if !approx(left.StaggerY, right.StaggerY) {
			t.Fatalf("col %d: %v != %v", c, left.StaggerY, right.StaggerY)
		}
	})
}

func TestFlatMain(t *testing.T) {
	tests := []struct {
		name    string
		key     layout.Key
		column  int
		x, y    float64
		stagger float64
	}{
		{"left q", mainKey(layout.SideLeft, 0, 0), 1, 72, 0, 0},
		{"left r", mainKey(layout.SideLeft, 0, 3), 4, 288, -24, -24},
		{"left home pinky", mainKey(layout.SideLeft, 1, 1), 2, 144, 66, -6},
		{"right i", mainKey(layout.SideRight, 0, 2), 2, 144, -24, -24},
		{"right shift", mainKey(layout.SideRight, 2, 5), 5, 360, 144, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Flat(tt.key)
			if p.Column != tt.column {
				t.Errorf("Column = %d, want %d", p.Column, tt.column)
			}
			if !approx(p.X, tt.x) || !approx(p.Y, tt.y) {
				t.Errorf("(X, Y) = (%v, %v), want (%v, %v)", p.X, p.Y, tt.x, tt.y)
			}
			if !approx(p.StaggerY, tt.stagger) {
				t.Errorf("StaggerY = %v, want %v", p.StaggerY, tt.stagger)
			}
			if p.Rotation != 0 || p.Cluster != -1 {
				t.Errorf("grid key got Rotation %v Cluster %d", p.Rotation, p.Cluster)
			}
		})
	}
}

func TestFlatExtraAndSpecial(t *testing.T) {
	extraLeft := layout.Key{Category: layout.CategoryExtra, Side: layout.SideLeft, Position: layout.Position{Row: 1, Col: -1}}
	extraRight := layout.Key{Category: layout.CategoryExtra, Side: layout.SideRight, Position: layout.Position{Row: 1, Col: 6}}

	if p := Flat(extraLeft); p.Column != 0 || p.X != 0 {
		t.Errorf("left extra Column/X = %d/%v, want 0/0", p.Column, p.X)
	}
	if p := Flat(extraRight); p.Column != 6 || p.X != 6*Pitch {
		t.Errorf("right extra Column/X = %d/%v, want 6/%d", p.Column, p.X, 6*Pitch)
	}

	special := layout.Key{Category: layout.CategorySpecial, Side: layout.SideLeft, Position: layout.Position{Row: 1, Col: 5}}
	plain := special
	plain.Category = layout.CategoryMain
	if got, base := Flat(special).Y, Flat(plain).Y; !approx(got-base, SpecialNudge) {
		t.Errorf("special nudge = %v, want %d", got-base, SpecialNudge)
	}
}

func TestFlatThumbCluster(t *testing.T) {
	table := layout.Default()
	left := table.Left[18:]
	right := table.Right[18:]

	wantLeftRot := []float64{0, 10, 20}
	for i, k := range left {
		p := Flat(k)
		if p.Cluster != i {
			t.Errorf("%s Cluster = %d, want %d", k.ID, p.Cluster, i)
		}
		if p.Rotation != wantLeftRot[i] {
			t.Errorf("%s Rotation = %v, want %v", k.ID, p.Rotation, wantLeftRot[i])
		}
		mirror := Flat(right[2-i])
		if p.Rotation != -mirror.Rotation {
			t.Errorf("%s rotation %v not mirrored by %s (%v)", k.ID, p.Rotation, right[2-i].ID, mirror.Rotation)
		}
	}

	// Both clusters are pushed toward the center gap.
	l0, r0 := Flat(left[0]), Flat(right[0])
	if l0.X-r0.X != 2*ThumbShift {
		t.Errorf("cluster shift difference = %v, want %d", l0.X-r0.X, 2*ThumbShift)
	}

	// Left thumb 0: centered start 146 + 120 shift + 2 padding - 8 nudge.
	if !approx(l0.X, 260) || !approx(l0.Y, GridHeight+ThumbMargin-16) {
		t.Errorf("left thumb 0 = (%v, %v), want (260, %d)", l0.X, l0.Y, GridHeight+ThumbMargin-16)
	}
}

func TestSpatialMain(t *testing.T) {
	p := Spatial(mainKey(layout.SideLeft, 0, 0))
	if p.Position != (Vec3{}) {
		t.Errorf("left-main-0 position = %+v, want origin", p.Position)
	}
	if !approx(p.Rotation.X, -0.15) {
		t.Errorf("top row tilt = %v, want -0.15", p.Rotation.X)
	}

	p = Spatial(mainKey(layout.SideLeft, 2, 3))
	wantZ := -2*KeySpacing + -16*StaggerUnit
	if !approx(p.Position.X, 3*KeySpacing) || !approx(p.Position.Z, wantZ) {
		t.Errorf("left (2,3) = %+v, want X %v Z %v", p.Position, 3*KeySpacing, wantZ)
	}
	if !approx(p.Rotation.X, 0.10) {
		t.Errorf("bottom row tilt = %v, want 0.10", p.Rotation.X)
	}
}

func TestSpatialExtraAndSpecial(t *testing.T) {
	tests := []struct {
		name string
		key  layout.Key
		want Vec3
	}{
		{
			"left extra",
			layout.Key{Category: layout.CategoryExtra, Side: layout.SideLeft, Position: layout.Position{Row: 1, Col: -1}},
			Vec3{X: -KeySpacing, Z: -KeySpacing},
		},
		{
			"right extra",
			layout.Key{Category: layout.CategoryExtra, Side: layout.SideRight, Position: layout.Position{Row: 0, Col: 6}},
			Vec3{X: 6 * KeySpacing},
		},
		{
			"left special",
			layout.Key{Category: layout.CategorySpecial, Side: layout.SideLeft, Position: layout.Position{Row: 0, Col: 5}},
			Vec3{X: 5 * KeySpacing, Y: SpecialLift},
		},
		{
			"right special",
			layout.Key{Category: layout.CategorySpecial, Side: layout.SideRight, Position: layout.Position{Row: 0, Col: 0}},
			Vec3{X: 0, Y: SpecialLift},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Spatial(tt.key)
			got := p.Position
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) || !approx(got.Z, tt.want.Z) {
				t.Errorf("Position = %+v, want %+v", got, tt.want)
			}
			if p.Rotation != (Vec3{}) {
				t.Errorf("Rotation = %+v, want zero", p.Rotation)
			}
		})
	}
}

func TestSpatialThumb(t *testing.T) {
	table := layout.Default()

	p := Spatial(table.Left[18])
	want := Vec3{X: 3 - 0.08, Y: -0.16, Z: ThumbDepth - 12*StaggerUnit}
	if !approx(p.Position.X, want.X) || !approx(p.Position.Y, want.Y) || !approx(p.Position.Z, want.Z) {
		t.Errorf("left-thumb-0 position = %+v, want %+v", p.Position, want)
	}
	if !approx(p.Rotation.X, thumbTilt) || p.Rotation.Y != 0 {
		t.Errorf("left-thumb-0 rotation = %+v", p.Rotation)
	}

	p = Spatial(table.Right[20])
	want = Vec3{X: 0.5 + 2*KeySpacing*ThumbSpread + 0.08, Y: -0.16, Z: ThumbDepth - 4*StaggerUnit}
	if !approx(p.Position.X, want.X) || !approx(p.Position.Y, want.Y) || !approx(p.Position.Z, want.Z) {
		t.Errorf("right-thumb-2 position = %+v, want %+v", p.Position, want)
	}

	for i := 0; i < 3; i++ {
		l := Spatial(table.Left[18+i])
		r := Spatial(table.Right[20-i])
		if !approx(l.Rotation.Y, -r.Rotation.Y) {
			t.Errorf("thumb %d yaw %v not mirrored (%v)", i, l.Rotation.Y, r.Rotation.Y)
		}
		// Cluster yaw and profile tilt are both applied.
		if !approx(l.Rotation.X, thumbTilt) {
			t.Errorf("thumb %d tilt = %v, want %v", i, l.Rotation.X, thumbTilt)
		}
	}

	if y := Spatial(table.Left[19]).Rotation.Y; !approx(y, -10*math.Pi/180) {
		t.Errorf("left-thumb-1 yaw = %v, want %v", y, -10*math.Pi/180)
	}
}

// The two resolvers live in different unit systems; only the ordering of the
// stagger they apply has to agree.
func TestStaggerRankingAgrees(t *testing.T) {
	for _, side := range []layout.Side{layout.SideLeft, layout.SideRight} {
		for row := 0; row < layout.MainRows; row++ {
			for a := 0; a < layout.MainCols; a++ {
				for b := 0; b < layout.MainCols; b++ {
					ka, kb := mainKey(side, row, a), mainKey(side, row, b)
					flat := cmp(Flat(ka).StaggerY, Flat(kb).StaggerY)
					za := Spatial(ka).Position.Z - basePosition(ka).Z
					zb := Spatial(kb).Position.Z - basePosition(kb).Z
					if spatial := cmp(za, zb); flat != spatial {
						t.Errorf("%v row %d cols %d/%d: flat order %d, spatial order %d", side, row, a, b, flat, spatial)
					}
				}
			}
		}
	}
}

func cmp(a, b float64) int {
	switch {
	case approx(a, b):
		return 0
	case a < b:
		return -1
	default:
		return 1
	}
}

func TestResolversArePure(t *testing.T) {
	table := layout.Default()
	for _, k := range table.Keys() {
		before := k
		if Flat(k) != Flat(k) || Spatial(k) != Spatial(k) {
			t.Errorf("%s: resolver not deterministic", k.ID)
		}
		if k != before {
			t.Errorf("%s: key mutated", k.ID)
		}
	}
}

func TestThumbIndex(t *testing.T) {
	tests := []struct {
		col  float64
		want int
	}{
		{1.5, 0}, {2.5, 1}, {3.5, 2}, {0, 0}, {10, 2},
	}
	for _, tt := range tests {
		if got := ThumbIndex(tt.col); got != tt.want {
			t.Errorf("ThumbIndex(%v) = %d, want %d", tt.col, got, tt.want)
		}
	}
}
