package render

import (
	"errors"
	"fmt"
	"image"
	imgcolor "image/color"
	"image/png"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/dshills/keycraft/internal/color"
	"github.com/dshills/keycraft/internal/layout"
)

// DefaultName is the export file name used when none is configured.
const DefaultName = "my-keyboard-design"

// Image metrics, in board pixels before scaling.
const (
	cableWidth    = 8
	plugRadius    = 6
	cornerRadius  = 6
	selectionRing = 3
	captionHeight = 32
)

// PNGOptions controls image export.
type PNGOptions struct {
	// Scale multiplies every board pixel.
	Scale      float64
	Padding    float64
	Background string
	Accent     string
	Muted      string
	Captions   bool
}

// DefaultPNGOptions returns 2x export with side captions.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Scale:      2,
		Padding:    32,
		Background: "#111827",
		Accent:     "#60a5fa",
		Muted:      "#9ca3af",
		Captions:   true,
	}
}

// ExportPNG encodes the frame as a PNG image.
func ExportPNG(w io.Writer, f Frame, opts PNGOptions) error {
	if err := png.Encode(w, Rasterize(f, opts)); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// SavePNG writes the frame to path as a PNG image.
func SavePNG(path string, f Frame, opts PNGOptions) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return ExportPNG(file, f, opts)
}

// ExportPath returns dir/name+ext, or a name with a short random suffix when
// that file already exists.
func ExportPath(dir, name, ext string) string {
	if name == "" {
		name = DefaultName
	}
	p := filepath.Join(dir, name+ext)
	if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
		return p
	}
	return filepath.Join(dir, name+"-"+uuid.NewString()[:8]+ext)
}

type canvas struct {
	img   *image.RGBA
	scale float64
	dx    float64
	dy    float64
}

// pt maps a board point to image pixels.
func (c canvas) pt(x, y float64) (float64, float64) {
	return (x + c.dx) * c.scale, (y + c.dy) * c.scale
}

// Rasterize draws the frame into a new image.
func Rasterize(f Frame, opts PNGOptions) *image.RGBA {
	if opts.Scale <= 0 {
		opts.Scale = 2
	}
	fps := Footprints(f)
	bounds := BoundsOf(fps)

	extra := 0.0
	if opts.Captions {
		extra = captionHeight
	}
	w := int(math.Ceil((bounds.Width() + 2*opts.Padding) * opts.Scale))
	h := int(math.Ceil((bounds.Height() + 2*opts.Padding + extra) * opts.Scale))

	c := canvas{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		scale: opts.Scale,
		dx:    opts.Padding - bounds.MinX,
		dy:    opts.Padding - bounds.MinY,
	}
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(rgba(opts.Background)), image.Point{}, draw.Src)

	if x0, y0, x1, y1, ok := CableEnds(f, fps); ok {
		c.cable(x0, y0, x1, y1, f.CableColor)
	}

	for i, k := range f.Keys {
		fp := fps[i]
		fill := color.Normalize(k.Color)
		if k.Selected {
			ring := fp
			ring.X -= selectionRing
			ring.Y -= selectionRing
			ring.W += 2 * selectionRing
			ring.H += 2 * selectionRing
			c.fill(ring, cornerRadius+selectionRing, rgba(opts.Accent))
		}
		c.fill(fp, cornerRadius, rgba(fill))
		cx, cy := fp.Center()
		c.text(k.Label, cx, cy, rgba(color.TextColor(fill)))
	}

	if opts.Captions {
		for _, side := range []layout.Side{layout.SideLeft, layout.SideRight} {
			hb := halfBounds(f, fps, side)
			if hb.Width() <= 0 {
				continue
			}
			c.text(upper.String(side.String()), (hb.MinX+hb.MaxX)/2, bounds.MaxY+captionHeight/2, rgba(opts.Muted))
		}
	}
	return c.img
}

// fill paints a rotated rounded rectangle.
func (c canvas) fill(fp Footprint, radius float64, col imgcolor.RGBA) {
	x, y := c.pt(fp.X, fp.Y)
	s := Footprint{X: x, Y: y, W: fp.W * c.scale, H: fp.H * c.scale, Rotation: fp.Rotation}
	r := math.Min(radius*c.scale, math.Min(s.W, s.H)/2)

	box := BoundsOf([]Footprint{s})
	cx, cy := s.Center()
	sin, cos := math.Sincos(-s.Rotation * math.Pi / 180)
	hw, hh := s.W/2, s.H/2

	rect := image.Rect(int(box.MinX), int(box.MinY), int(math.Ceil(box.MaxX)), int(math.Ceil(box.MaxY))).
		Intersect(c.img.Bounds())
	for py := rect.Min.Y; py < rect.Max.Y; py++ {
		for px := rect.Min.X; px < rect.Max.X; px++ {
			dx, dy := float64(px)+0.5-cx, float64(py)+0.5-cy
			lx := math.Abs(dx*cos - dy*sin)
			ly := math.Abs(dx*sin + dy*cos)
			if lx > hw || ly > hh {
				continue
			}
			qx, qy := lx-(hw-r), ly-(hh-r)
			if qx > 0 && qy > 0 && qx*qx+qy*qy > r*r {
				continue
			}
			c.img.SetRGBA(px, py, col)
		}
	}
}

func (c canvas) disc(x, y, radius float64, col imgcolor.RGBA) {
	rect := image.Rect(int(x-radius), int(y-radius), int(math.Ceil(x+radius)), int(math.Ceil(y+radius))).
		Intersect(c.img.Bounds())
	for py := rect.Min.Y; py < rect.Max.Y; py++ {
		for px := rect.Min.X; px < rect.Max.X; px++ {
			dx, dy := float64(px)+0.5-x, float64(py)+0.5-y
			if dx*dx+dy*dy <= radius*radius {
				c.img.SetRGBA(px, py, col)
			}
		}
	}
}

// cable strokes the connector with a highlight toward its middle and darker
// plugs at both ends.
func (c canvas) cable(x0, y0, x1, y1 float64, cable string) {
	highlight := color.Lighten(cable, 20)
	path := CablePath(x0, y0, x1, y1, 96)
	for i, p := range path {
		t := 1 - math.Abs(2*float64(i)/float64(len(path)-1)-1)
		px, py := c.pt(p[0], p[1])
		c.disc(px, py, cableWidth/2*c.scale, rgba(color.Mix(cable, highlight, t)))
	}

	plug := rgba(color.Darken(cable, 20))
	for _, p := range [][2]float64{{x0, y0}, {x1, y1}} {
		px, py := c.pt(p[0], p[1])
		c.disc(px, py, plugRadius*c.scale, plug)
	}
}

// text draws s centered on the board point (x, y). The bitmap face is
// rendered at its native size and scaled up with the image.
func (c canvas) text(s string, x, y float64, col imgcolor.RGBA) {
	if s == "" {
		return
	}
	face := basicfont.Face7x13
	adv := font.MeasureString(face, s).Ceil()
	metrics := face.Metrics()
	th := metrics.Height.Ceil()

	tmp := image.NewRGBA(image.Rect(0, 0, adv, th))
	d := font.Drawer{
		Dst:  tmp,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(s)

	px, py := c.pt(x, y)
	w, h := float64(adv)*c.scale, float64(th)*c.scale
	dst := image.Rect(int(px-w/2), int(py-h/2), int(px+w/2), int(py+h/2))
	draw.NearestNeighbor.Scale(c.img, dst, tmp, tmp.Bounds(), draw.Over, nil)
}

func rgba(hex string) imgcolor.RGBA {
	r, g, b := color.MustParse(hex).RGB255()
	return imgcolor.RGBA{R: r, G: g, B: b, A: 0xff}
}
