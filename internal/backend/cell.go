package backend

import (
	"fmt"

	"github.com/rivo/uniseg"

	"github.com/dshills/keycraft/internal/color"
)

// Attribute represents text attributes.
type Attribute uint8

// Text attribute flags.
const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrDim                 // Faint text
	AttrUnderline           // Underlined text
	AttrReverse             // Swap fg/bg
)

// Has returns true if the attribute set contains attr.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Color is a true color or the terminal's default color.
type Color struct {
	R, G, B uint8
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromHex converts a hex string to a Color.
// Invalid input yields the neutral fallback gray.
func ColorFromHex(hex string) Color {
	c, err := color.Parse(hex)
	if err != nil {
		c = color.MustParse(color.Fallback)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}
}

// IsDefault returns true if this is the default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Style represents the visual style of a cell.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the default terminal style.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// Bold returns a new style with bold added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Underline returns a new style with underline added.
func (s Style) Underline() Style {
	s.Attributes |= AttrUnderline
	return s
}

// Reverse returns a new style with reverse video added.
func (s Style) Reverse() Style {
	s.Attributes |= AttrReverse
	return s
}

// Cell represents a single terminal cell.
type Cell struct {
	Rune  rune
	Style Style
}

// EmptyCell returns a blank cell with default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Style: DefaultStyle()}
}

// NewStyledCell creates a cell with the given rune and style.
func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Style: style}
}

// Rect is a screen rectangle, Left/Top inclusive and Right/Bottom exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// RectFromSize creates a rect from its origin and size.
func RectFromSize(x, y, width, height int) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// Contains reports whether (x, y) is inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Width returns the rect width.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the rect height.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// DrawString writes s starting at (x, y) and returns the number of columns
// used. Wide graphemes occupy two columns.
func DrawString(b Backend, x, y int, s string, style Style) int {
	col := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		b.SetCell(x+col, y, NewStyledCell(runes[0], style))
		w := g.Width()
		for i := 1; i < w; i++ {
			b.SetCell(x+col+i, y, NewStyledCell(0, style))
		}
		col += w
	}
	return col
}

// StringWidth returns the display width of s in terminal columns.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}
