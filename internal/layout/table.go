package layout

import "fmt"

// Grid dimensions of one half.
const (
	MainRows    = 3
	MainCols    = 6
	ThumbKeys   = 3
	ThumbRow    = 3
	ThumbColMin = 1.5
)

// Default colors.
const (
	DefaultKeyColor   = "#374151"
	DefaultCableColor = "#000000"
)

// labelTable holds the default Corne QWERTY labels per side.
type labelTable struct {
	main  [MainRows][MainCols]string
	thumb [ThumbKeys]string
}

var corneLabels = map[Side]labelTable{
	SideLeft: {
		main: [MainRows][MainCols]string{
			{"Q", "W", "E", "R", "T", "Y"},
			{"A", "S", "D", "F", "G", "H"},
			{"Z", "X", "C", "V", "B", "N"},
		},
		thumb: [ThumbKeys]string{"GUI", "LWR", "SPC"},
	},
	SideRight: {
		main: [MainRows][MainCols]string{
			{"Y", "U", "I", "O", "P", "["},
			{"H", "J", "K", "L", ";", "'"},
			{"N", "M", ",", ".", "/", "SHFT"},
		},
		thumb: [ThumbKeys]string{"ENT", "RSE", "ALT"},
	},
}

// DefaultLabel returns the default label for a slot, or "" if unmapped.
func DefaultLabel(side Side, category Category, row int, col float64) string {
	table, ok := corneLabels[side]
	if !ok {
		return ""
	}

	switch category {
	case CategoryMain:
		c := int(col)
		if float64(c) != col || row < 0 || row >= MainRows || c < 0 || c >= MainCols {
			return ""
		}
		return table.main[row][c]
	case CategoryThumb:
		idx := col - ThumbColMin
		i := int(idx)
		if float64(i) != idx || row != ThumbRow || i < 0 || i >= ThumbKeys {
			return ""
		}
		return table.thumb[i]
	default:
		return ""
	}
}

// KeyID builds the stable identifier of a key.
func KeyID(side Side, category Category, index int) string {
	return fmt.Sprintf("%s-%s-%d", side, category, index)
}

// Half builds the default key list for one side: 18 main keys followed by
// 3 thumb keys.
func Half(side Side) []Key {
	keys := make([]Key, 0, MainRows*MainCols+ThumbKeys)

	for i := 0; i < MainRows*MainCols; i++ {
		pos := Position{Row: i / MainCols, Col: float64(i % MainCols)}
		keys = append(keys, newKey(side, CategoryMain, i, pos))
	}

	for i := 0; i < ThumbKeys; i++ {
		pos := Position{Row: ThumbRow, Col: float64(i) + ThumbColMin}
		keys = append(keys, newKey(side, CategoryThumb, i, pos))
	}

	return keys
}

func newKey(side Side, category Category, index int, pos Position) Key {
	return Key{
		ID:       KeyID(side, category, index),
		Category: category,
		Position: pos,
		Side:     side,
		Label:    TruncateLabel(DefaultLabel(side, category, pos.Row, pos.Col)),
		Color:    DefaultKeyColor,
	}
}

// Table is the complete two-half layout.
type Table struct {
	Left  []Key
	Right []Key
}

// Default returns a freshly built default table.
// Every call returns independent slices with identical contents.
func Default() Table {
	return Table{
		Left:  Half(SideLeft),
		Right: Half(SideRight),
	}
}

// Keys returns all keys in layout order: left half first, then right.
func (t Table) Keys() []Key {
	all := make([]Key, 0, len(t.Left)+len(t.Right))
	all = append(all, t.Left...)
	all = append(all, t.Right...)
	return all
}

// Find returns the key at the given slot on a side.
func (t Table) Find(side Side, slot SlotKey) (Key, bool) {
	keys := t.Left
	if side == SideRight {
		keys = t.Right
	}
	for _, k := range keys {
		if k.Slot() == slot {
			return k, true
		}
	}
	return Key{}, false
}
