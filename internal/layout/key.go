// Package layout defines the fixed geometry of a split Corne-style keyboard.
//
// The layout table is pure data: which keys exist on each half, their logical
// row/column slot, their functional category and their default label. Visual
// placement of those keys lives in the geometry package.
package layout

import "github.com/rivo/uniseg"

// MaxLabelLength is the maximum number of characters a key label may hold.
const MaxLabelLength = 3

// Category is the functional class of a key.
type Category uint8

const (
	// CategoryMain is a key of the 3x6 QWERTY grid.
	CategoryMain Category = iota
	// CategoryThumb is a key of the thumb cluster.
	CategoryThumb
	// CategoryExtra is an auxiliary key on the outer column.
	CategoryExtra
	// CategorySpecial is an auxiliary key on the inner column.
	CategorySpecial
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMain:
		return "main"
	case CategoryThumb:
		return "thumb"
	case CategoryExtra:
		return "extra"
	case CategorySpecial:
		return "special"
	default:
		return "unknown"
	}
}

// Side identifies a keyboard half.
type Side uint8

const (
	// SideLeft is the left half.
	SideLeft Side = iota
	// SideRight is the right half.
	SideRight
)

// String returns the side name.
func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Position is a logical slot on one half.
// Col is fractional for thumb keys (1.5, 2.5, 3.5) and integral otherwise.
type Position struct {
	Row int
	Col float64
}

// Key is a single keycap.
//
// ID, Category, Position and Side are fixed when the layout table is built.
// Label and Color are the only mutable fields and are changed exclusively
// through the store package.
type Key struct {
	ID       string
	Category Category
	Position Position
	Side     Side
	Label    string
	Color    string
}

// SlotKey identifies a key by its (category, row, col) slot within a half.
type SlotKey struct {
	Category Category
	Row      int
	Col      float64
}

// Slot returns the slot identity of the key.
func (k Key) Slot() SlotKey {
	return SlotKey{Category: k.Category, Row: k.Position.Row, Col: k.Position.Col}
}

// TruncateLabel shortens a label to at most MaxLabelLength user-perceived
// characters. Grapheme clusters are never split.
func TruncateLabel(label string) string {
	if len(label) <= MaxLabelLength {
		return label
	}

	var out []byte
	count := 0
	gr := uniseg.NewGraphemes(label)
	for gr.Next() {
		if count == MaxLabelLength {
			break
		}
		out = append(out, gr.Bytes()...)
		count++
	}
	return string(out)
}
