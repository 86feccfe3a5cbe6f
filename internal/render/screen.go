package render

import (
	"fmt"
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/keycraft/internal/backend"
	"github.com/dshills/keycraft/internal/color"
	"github.com/dshills/keycraft/internal/layout"
	"github.com/dshills/keycraft/internal/theme"
)

// Terminal cell metrics, in board pixels per cell.
const (
	CellWidth  = 12
	CellHeight = 24

	// BoxCols and BoxRows size a keycap on screen.
	BoxCols = 5
	BoxRows = 3

	screenMargin = 2
	swatchCols   = 3
)

// HelpText lists the interactive bindings.
const HelpText = "click select  ctrl/shift+click multi  a all  esc clear  1-9 color  # hex  l label  " +
	"c cable  t theme  n next  v view  e export  k kle  r reset  q quit"

var upper = cases.Upper(language.Und)

// HitKind says what a screen position refers to.
type HitKind uint8

const (
	HitNone HitKind = iota
	HitKey
	HitKeycapSwatch
	HitCableSwatch
)

// Hit is the result of a screen lookup.
type Hit struct {
	Kind HitKind
	// ID is the key id for HitKey.
	ID string
	// Color is the swatch color for swatch hits.
	Color string
}

type hitBox struct {
	rect backend.Rect
	hit  Hit
}

// Layout records where things were drawn, for hit testing.
type Layout struct {
	boxes []hitBox
}

// Hit returns what is drawn at cell (x, y). Later boxes win, matching draw
// order.
func (l Layout) Hit(x, y int) Hit {
	for i := len(l.boxes) - 1; i >= 0; i-- {
		if l.boxes[i].rect.Contains(x, y) {
			return l.boxes[i].hit
		}
	}
	return Hit{}
}

// KeyRect returns the screen rectangle of key id.
func (l Layout) KeyRect(id string) (backend.Rect, bool) {
	for _, b := range l.boxes {
		if b.hit.Kind == HitKey && b.hit.ID == id {
			return b.rect, true
		}
	}
	return backend.Rect{}, false
}

func (l *Layout) add(r backend.Rect, h Hit) {
	l.boxes = append(l.boxes, hitBox{rect: r, hit: h})
}

// Chrome is the screen content around the keyboard.
type Chrome struct {
	Theme        theme.Theme
	CustomColors []string
	Status       string
}

type palette struct {
	background, surface, text, muted, accent string
}

func paletteOf(t theme.Theme) palette {
	pick := func(hex, fallback string) string {
		if color.Valid(hex) {
			return hex
		}
		return fallback
	}
	c := t.Colors
	return palette{
		background: pick(c.Background, "#111827"),
		surface:    pick(c.Surface, "#1f2937"),
		text:       pick(c.Text, color.TextLight),
		muted:      pick(c.TextMuted, "#9ca3af"),
		accent:     pick(c.Accent, "#60a5fa"),
	}
}

// Draw renders the frame and chrome to b and returns the hit layout.
func Draw(b backend.Backend, f Frame, c Chrome) Layout {
	var l Layout
	pal := paletteOf(c.Theme)
	bg := backend.ColorFromHex(pal.background)
	base := backend.DefaultStyle().WithBackground(bg).WithForeground(backend.ColorFromHex(pal.text))
	muted := base.WithForeground(backend.ColorFromHex(pal.muted))

	width, height := b.Size()
	b.Fill(backend.Rect{Right: width, Bottom: height}, backend.NewStyledCell(' ', base))

	title := fmt.Sprintf("keycraft  %s  %s", c.Theme.Name, upper.String(f.Mode.String()))
	backend.DrawString(b, screenMargin, 0, title, base.Bold())

	fps := Footprints(f)
	bounds := BoundsOf(fps)
	toCell := func(x, y float64) (int, int) {
		return screenMargin + int(math.Round((x-bounds.MinX)/CellWidth)),
			screenMargin + int(math.Round((y-bounds.MinY)/CellHeight))
	}

	if x0, y0, x1, y1, ok := CableEnds(f, fps); ok {
		cx0, cy := toCell(x0, y0)
		cx1, _ := toCell(x1, y1)
		drawCable(b, cx0, cx1, cy, f.CableColor, bg)
	}

	bottom := 0
	for i, k := range f.Keys {
		x, y := toCell(fps[i].X, fps[i].Y)
		r := backend.RectFromSize(x, y, BoxCols, BoxRows)
		drawKey(b, r, k, fps[i].Rotation, pal)
		l.add(r, Hit{Kind: HitKey, ID: k.ID})
		bottom = max(bottom, r.Bottom)
	}

	for _, side := range []layout.Side{layout.SideLeft, layout.SideRight} {
		hb := halfBounds(f, fps, side)
		if hb.Width() <= 0 {
			continue
		}
		left, _ := toCell(hb.MinX, hb.MinY)
		right, _ := toCell(hb.MaxX, hb.MinY)
		caption := upper.String(side.String())
		x := left + (right-left-backend.StringWidth(caption))/2
		backend.DrawString(b, x, bottom+1, caption, muted)
	}

	row := bottom + 3
	x := backend.DrawString(b, screenMargin, row, "keys  ", muted) + screenMargin
	for i, hex := range c.Theme.Colors.KeycapColors {
		mark := ""
		if i < 10 {
			mark = fmt.Sprint((i + 1) % 10)
		}
		r := drawSwatch(b, x, row, hex, mark)
		l.add(r, Hit{Kind: HitKeycapSwatch, Color: hex})
		x = r.Right + 1
	}
	if len(c.CustomColors) > 0 {
		x += backend.DrawString(b, x+1, row, "custom  ", muted) + 1
		for _, hex := range c.CustomColors {
			r := drawSwatch(b, x, row, hex, "")
			l.add(r, Hit{Kind: HitKeycapSwatch, Color: hex})
			x = r.Right + 1
		}
	}

	row++
	x = backend.DrawString(b, screenMargin, row, "cable ", muted) + screenMargin
	for _, hex := range c.Theme.Colors.CableColors {
		mark := ""
		if hex == f.CableColor {
			mark = "*"
		}
		r := drawSwatch(b, x, row, hex, mark)
		l.add(r, Hit{Kind: HitCableSwatch, Color: hex})
		x = r.Right + 1
	}

	if height >= 2 {
		backend.DrawString(b, screenMargin, height-2, HelpText, muted)
	}
	status := fmt.Sprintf("%d selected", f.SelectedCount())
	if c.Status != "" {
		status += "  " + c.Status
	}
	backend.DrawString(b, screenMargin, height-1, status, base)

	b.Show()
	return l
}

func drawKey(b backend.Backend, r backend.Rect, k KeyView, rotation float64, pal palette) {
	fill := color.Normalize(k.Color)
	style := backend.DefaultStyle().
		WithBackground(backend.ColorFromHex(fill)).
		WithForeground(backend.ColorFromHex(color.TextColor(fill)))
	b.Fill(r, backend.NewStyledCell(' ', style))

	if k.Selected {
		edge := style.WithForeground(backend.ColorFromHex(pal.accent)).Bold()
		for x := r.Left + 1; x < r.Right-1; x++ {
			b.SetCell(x, r.Top, backend.NewStyledCell('━', edge))
			b.SetCell(x, r.Bottom-1, backend.NewStyledCell('━', edge))
		}
		for y := r.Top + 1; y < r.Bottom-1; y++ {
			b.SetCell(r.Left, y, backend.NewStyledCell('┃', edge))
			b.SetCell(r.Right-1, y, backend.NewStyledCell('┃', edge))
		}
		b.SetCell(r.Left, r.Top, backend.NewStyledCell('┏', edge))
		b.SetCell(r.Right-1, r.Top, backend.NewStyledCell('┓', edge))
		b.SetCell(r.Left, r.Bottom-1, backend.NewStyledCell('┗', edge))
		b.SetCell(r.Right-1, r.Bottom-1, backend.NewStyledCell('┛', edge))
	} else if rotation != 0 {
		marker := '╲'
		if rotation < 0 {
			marker = '╱'
		}
		b.SetCell(r.Right-1, r.Bottom-1, backend.NewStyledCell(marker, style))
	}

	w := backend.StringWidth(k.Label)
	mid := r.Top + r.Height()/2
	backend.DrawString(b, r.Left+(r.Width()-w)/2, mid, k.Label, style.Bold())
}

func drawCable(b backend.Backend, x0, x1, y int, cable string, bg backend.Color) {
	if x1-x0 < 2 {
		return
	}
	plug := backend.DefaultStyle().WithBackground(bg).WithForeground(backend.ColorFromHex(color.Darken(cable, 20)))
	highlight := color.Lighten(cable, 20)
	span := float64(x1 - x0)
	for x := x0 + 1; x < x1; x++ {
		// Brightest at the middle of the run.
		t := 1 - math.Abs(2*float64(x-x0)/span-1)
		fg := backend.ColorFromHex(color.Mix(cable, highlight, t))
		b.SetCell(x, y, backend.NewStyledCell('━', plug.WithForeground(fg)))
	}
	b.SetCell(x0, y, backend.NewStyledCell('●', plug))
	b.SetCell(x1, y, backend.NewStyledCell('●', plug))
}

func drawSwatch(b backend.Backend, x, y int, hex, mark string) backend.Rect {
	fill := color.Normalize(hex)
	style := backend.DefaultStyle().
		WithBackground(backend.ColorFromHex(fill)).
		WithForeground(backend.ColorFromHex(color.TextColor(fill)))
	r := backend.RectFromSize(x, y, swatchCols, 1)
	b.Fill(r, backend.NewStyledCell(' ', style))
	if mark != "" {
		backend.DrawString(b, x+1, y, mark, style)
	}
	return r
}
