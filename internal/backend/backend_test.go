package backend

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestNullBackendSetGetCell(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	cell := NewStyledCell('X', DefaultStyle().WithForeground(ColorFromRGB(255, 0, 0)))
	b.SetCell(10, 5, cell)

	if got := b.GetCell(10, 5); got != cell {
		t.Errorf("GetCell() = %+v, want %+v", got, cell)
	}

	// Out of bounds should be ignored/return empty
	b.SetCell(-1, 0, cell)
	b.SetCell(100, 0, cell)
	if got := b.GetCell(-1, 0); got != EmptyCell() {
		t.Error("out of bounds should return empty cell")
	}
}

func TestNullBackendFillClear(t *testing.T) {
	b := NewNullBackend(40, 10)
	b.Init()

	dot := NewStyledCell('.', DefaultStyle())
	b.Fill(RectFromSize(5, 2, 10, 3), dot)

	if b.GetCell(7, 3) != dot {
		t.Error("cell inside rect should be filled")
	}
	if b.GetCell(15, 3) == dot {
		t.Error("right edge is exclusive")
	}
	if b.GetCell(0, 0) == dot {
		t.Error("cell outside rect should not be filled")
	}

	// Negative origin is clipped, not a panic
	b.Fill(Rect{Left: -3, Top: -3, Right: 2, Bottom: 2}, dot)
	if b.GetCell(0, 0) != dot {
		t.Error("clipped fill should cover (0,0)")
	}

	b.Clear()
	if b.GetCell(7, 3) != EmptyCell() {
		t.Error("Clear() should reset all cells")
	}
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(10, 10)
	b.Init()

	b.PostEvent(Event{Type: EventKey, Key: KeyRune, Rune: 'a'})
	b.Resize(20, 5)

	if ev := b.PollEvent(); ev.Type != EventKey || ev.Rune != 'a' {
		t.Errorf("first event = %+v, want key 'a'", ev)
	}
	if ev := b.PollEvent(); ev.Type != EventResize || ev.Width != 20 || ev.Height != 5 {
		t.Errorf("second event = %+v, want resize 20x5", ev)
	}
	if w, h := b.Size(); w != 20 || h != 5 {
		t.Errorf("Size() = (%d, %d), want (20, 5)", w, h)
	}
}

func TestDrawString(t *testing.T) {
	b := NewNullBackend(20, 2)
	b.Init()

	n := DrawString(b, 1, 0, "Q日W", DefaultStyle())
	if n != 4 {
		t.Errorf("DrawString() width = %d, want 4", n)
	}
	if got, want := b.Row(0), " Q日W"+strings.Repeat(" ", 15); got != want {
		t.Errorf("Row(0) = %q", got)
	}
	if StringWidth("日本") != 4 {
		t.Errorf("StringWidth(日本) = %d, want 4", StringWidth("日本"))
	}
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex  string
		want Color
	}{
		{"#ff0000", ColorFromRGB(255, 0, 0)},
		{"#374151", ColorFromRGB(0x37, 0x41, 0x51)},
		{"nope", ColorFromRGB(0x80, 0x80, 0x80)},
	}
	for _, tt := range tests {
		if got := ColorFromHex(tt.hex); got != tt.want {
			t.Errorf("ColorFromHex(%q) = %v, want %v", tt.hex, got, tt.want)
		}
	}
}

func TestConvertStyleRoundTrip(t *testing.T) {
	s := DefaultStyle().
		WithForeground(ColorFromRGB(10, 20, 30)).
		WithBackground(ColorFromRGB(200, 100, 50)).
		Bold().Reverse()

	if got := convertTcellStyle(convertStyle(s)); got != s {
		t.Errorf("style round trip = %+v, want %+v", got, s)
	}
	if got := convertTcellStyle(convertStyle(DefaultStyle())); got != DefaultStyle() {
		t.Errorf("default style round trip = %+v", got)
	}
}

func TestConvertEvent(t *testing.T) {
	tests := []struct {
		name string
		in   tcell.Event
		want Event
	}{
		{
			"rune",
			tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone),
			Event{Type: EventKey, Key: KeyRune, Rune: 'n'},
		},
		{
			"escape",
			tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
			Event{Type: EventKey, Key: KeyEscape},
		},
		{
			"ctrl click",
			tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModCtrl),
			Event{Type: EventMouse, MouseX: 3, MouseY: 4, MouseButton: MouseLeft, Mod: ModCtrl},
		},
		{
			"interrupt",
			tcell.NewEventInterrupt("reload"),
			Event{Type: EventInterrupt, Data: "reload"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertEvent(tt.in)
			// Key events carry their rune on non-rune keys too; compare fields.
			if got.Type != tt.want.Type || got.Key != tt.want.Key || got.Mod != tt.want.Mod ||
				got.MouseX != tt.want.MouseX || got.MouseY != tt.want.MouseY ||
				got.MouseButton != tt.want.MouseButton || got.Data != tt.want.Data {
				t.Errorf("convertEvent() = %+v, want %+v", got, tt.want)
			}
			if tt.want.Key == KeyRune && got.Rune != tt.want.Rune {
				t.Errorf("Rune = %q, want %q", got.Rune, tt.want.Rune)
			}
		})
	}
}

func TestModMaskRoundTrip(t *testing.T) {
	for _, m := range []ModMask{ModNone, ModShift, ModCtrl | ModAlt, ModMeta | ModShift} {
		if got := convertMod(convertToTcellMod(m)); got != m {
			t.Errorf("convertMod(convertToTcellMod(%d)) = %d", m, got)
		}
	}
}
