package store

// PaletteSize is the maximum number of remembered custom colors.
const PaletteSize = 12

// Palette is the custom color history, most recent first.
type Palette struct {
	colors []string
}

// Add returns a palette with color prepended.
// A color that is already present leaves the palette unchanged, in place.
// The oldest entry is evicted once PaletteSize is exceeded.
func (p Palette) Add(color string) Palette {
	if p.Contains(color) {
		return p
	}

	n := len(p.colors) + 1
	if n > PaletteSize {
		n = PaletteSize
	}
	next := make([]string, 0, n)
	next = append(next, color)
	next = append(next, p.colors[:n-1]...)
	return Palette{colors: next}
}

// Contains reports whether color is in the history.
func (p Palette) Contains(color string) bool {
	for _, c := range p.colors {
		if c == color {
			return true
		}
	}
	return false
}

// Colors returns a copy of the history.
func (p Palette) Colors() []string {
	out := make([]string, len(p.colors))
	copy(out, p.colors)
	return out
}

// Len returns the number of colors held.
func (p Palette) Len() int {
	return len(p.colors)
}
