package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/keycraft/internal/backend"
	"github.com/dshills/keycraft/internal/config"
	"github.com/dshills/keycraft/internal/render"
	"github.com/dshills/keycraft/internal/theme"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Themes.Dir = t.TempDir()
	cfg.Themes.Watch = false
	cfg.Export.Dir = t.TempDir()
	return cfg
}

func newTestApp(t *testing.T, cfg config.Config) (*Application, *backend.NullBackend) {
	t.Helper()
	b := backend.NewNullBackend(140, 40)
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	app, err := New(Options{Config: cfg, Backend: b})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(app.Close)
	app.redraw()
	return app, b
}

func press(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
}

func special(k backend.Key) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k}
}

func typeText(t *testing.T, app *Application, s string) {
	t.Helper()
	for _, r := range s {
		if err := app.HandleEvent(press(r)); err != nil {
			t.Fatalf("HandleEvent(%q) = %v", r, err)
		}
	}
}

// clickAt sends a left press and release at (x, y).
func clickAt(t *testing.T, app *Application, x, y int, mod backend.ModMask) {
	t.Helper()
	for _, btn := range []backend.MouseButton{backend.MouseLeft, backend.MouseNone} {
		ev := backend.Event{Type: backend.EventMouse, MouseX: x, MouseY: y, MouseButton: btn, Mod: mod}
		if err := app.HandleEvent(ev); err != nil {
			t.Fatalf("HandleEvent(mouse) = %v", err)
		}
	}
}

func clickKey(t *testing.T, app *Application, id string, mod backend.ModMask) {
	t.Helper()
	r, ok := app.layout.KeyRect(id)
	if !ok {
		t.Fatalf("key %s not on screen", id)
	}
	clickAt(t, app, r.Left+1, r.Top+1, mod)
}

// findHit scans the screen for the first position of the given kind.
func findHit(t *testing.T, app *Application, b *backend.NullBackend, kind render.HitKind) (int, int, render.Hit) {
	t.Helper()
	w, h := b.Size()
	for y := range h {
		for x := range w {
			if hit := app.layout.Hit(x, y); hit.Kind == kind {
				return x, y, hit
			}
		}
	}
	t.Fatalf("no hit of kind %v on screen", kind)
	return 0, 0, render.Hit{}
}

func selected(app *Application) []string {
	return app.Store().Selection().IDs()
}

func TestNew(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))

	if app.Theme().ID != "nord" {
		t.Errorf("Theme().ID = %q, want nord", app.Theme().ID)
	}
	if app.View() != render.ModeFlat {
		t.Errorf("View() = %v, want 2d", app.View())
	}
	if app.Session() == "" {
		t.Error("expected a session id")
	}
	if app.IsRunning() {
		t.Error("expected IsRunning() to be false before Run()")
	}
}

func TestNewUnknownThemeFallsBack(t *testing.T) {
	cfg := testConfig(t)
	cfg.UI.Theme = "nope"
	app, _ := newTestApp(t, cfg)
	if app.Theme().ID != theme.DefaultID {
		t.Errorf("Theme().ID = %q, want %s", app.Theme().ID, theme.DefaultID)
	}
}

func TestNewBadMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.UI.Mode = "4d"
	_, err := New(Options{Config: cfg})
	var ie *InitError
	if !errors.As(err, &ie) || ie.Component != "view" {
		t.Errorf("New(bad mode) error = %v, want view InitError", err)
	}
}

func TestNewApplyUnknownTheme(t *testing.T) {
	cfg := testConfig(t)
	cfg.UI.Theme = "nope"
	_, err := New(Options{Config: cfg, ApplyTheme: true})
	var ie *InitError
	if !errors.As(err, &ie) || ie.Component != "theme" {
		t.Fatalf("New(unknown theme) error = %v, want theme InitError", err)
	}
	if !errors.Is(err, theme.ErrThemeNotFound) {
		t.Errorf("New(unknown theme) error = %v, want ErrThemeNotFound", err)
	}
}

func TestNewApplyTheme(t *testing.T) {
	cfg := testConfig(t)
	cfg.UI.Theme = "gruvbox"
	app, err := New(Options{Config: cfg, ApplyTheme: true})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	gruv := app.Theme()
	keys := app.Store().Config().Keys()
	for i, k := range keys[:3] {
		if k.Color != gruv.KeycapColor(i) {
			t.Errorf("key %s color = %s, want %s", k.ID, k.Color, gruv.KeycapColor(i))
		}
	}
	if got := app.Store().Config().CableColor; got != gruv.CableColor(0) {
		t.Errorf("cable = %s, want %s", got, gruv.CableColor(0))
	}
}

func TestClickSelection(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))

	clickKey(t, app, "left-main-0", backend.ModNone)
	if got := selected(app); len(got) != 1 || got[0] != "left-main-0" {
		t.Fatalf("after click selection = %v", got)
	}

	clickKey(t, app, "right-main-3", backend.ModCtrl)
	if got := selected(app); len(got) != 2 {
		t.Fatalf("after ctrl-click selection = %v, want 2 keys", got)
	}

	clickKey(t, app, "left-main-0", backend.ModShift)
	if got := selected(app); len(got) != 1 || got[0] != "right-main-3" {
		t.Fatalf("after shift-click toggle selection = %v", got)
	}

	clickKey(t, app, "left-main-5", backend.ModNone)
	if got := selected(app); len(got) != 1 || got[0] != "left-main-5" {
		t.Errorf("plain click should replace selection, got %v", got)
	}
}

func TestClickActsOnPressOnly(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))
	r, _ := app.layout.KeyRect("left-main-0")

	down := backend.Event{Type: backend.EventMouse, MouseX: r.Left, MouseY: r.Top, MouseButton: backend.MouseLeft}
	for range 3 {
		if err := app.HandleEvent(down); err != nil {
			t.Fatal(err)
		}
	}
	if !app.Store().IsSelected("left-main-0") {
		t.Error("expected the key to stay selected while the button is held")
	}
}

func TestClickEmptySpace(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))
	app.Store().SelectAll()
	clickAt(t, app, 0, 0, backend.ModNone)
	if app.Store().Selection().IsEmpty() {
		t.Error("clicking nothing should not change the selection")
	}
}

func TestKeyBindings(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))
	total := len(app.Store().Config().Keys())

	typeText(t, app, "a")
	if n := app.Store().Selection().Len(); n != total {
		t.Errorf("after 'a' selected %d, want %d", n, total)
	}

	typeText(t, app, "2")
	want := app.Theme().Colors.KeycapColors[1]
	for _, k := range app.Store().Config().Keys() {
		if k.Color != want {
			t.Fatalf("after '2' key %s color = %s, want %s", k.ID, k.Color, want)
		}
	}

	if err := app.HandleEvent(special(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}
	if !app.Store().Selection().IsEmpty() {
		t.Error("Escape should clear the selection")
	}

	typeText(t, app, "r")
	if app.Store().Config().Keys()[0].Color == want {
		t.Error("'r' should restore default colors")
	}

	typeText(t, app, "v")
	if app.View() != render.ModeSpatial {
		t.Errorf("after 'v' View() = %v, want 3d", app.View())
	}
}

func TestSwatchWithoutSelection(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))
	before := app.Store().Config()

	typeText(t, app, "1")
	if !strings.Contains(app.Status(), ErrNoSelection.Error()) {
		t.Errorf("Status() = %q, want no selection message", app.Status())
	}
	if app.Store().Config().Keys()[0] != before.Keys()[0] {
		t.Error("swatch without selection changed a key")
	}
}

func TestQuitKeys(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))
	if err := app.HandleEvent(press('q')); !errors.Is(err, ErrQuit) {
		t.Errorf("'q' = %v, want ErrQuit", err)
	}
	if err := app.HandleEvent(special(backend.KeyCtrlC)); !errors.Is(err, ErrQuit) {
		t.Errorf("Ctrl-C = %v, want ErrQuit", err)
	}
}

func TestLabelPrompt(t *testing.T) {
	app, b := newTestApp(t, testConfig(t))

	typeText(t, app, "l")
	if app.input != inputNormal {
		t.Fatal("label prompt should need a selection")
	}

	app.Store().ToggleSelection("left-main-0", false)
	typeText(t, app, "lFnq")
	if err := app.HandleEvent(special(backend.KeyBackspace)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.Row(39), "label: Fn_") {
		t.Errorf("status row = %q, want the prompt", strings.TrimSpace(b.Row(39)))
	}
	if err := app.HandleEvent(special(backend.KeyEnter)); err != nil {
		t.Fatal(err)
	}

	k, _ := app.Store().Key("left-main-0")
	if k.Label != "Fn" {
		t.Errorf("label = %q, want Fn", k.Label)
	}
	if app.input != inputNormal {
		t.Error("Enter should leave the prompt")
	}
}

func TestLabelPromptCancel(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))
	app.Store().ToggleSelection("left-main-0", false)
	before, _ := app.Store().Key("left-main-0")

	typeText(t, app, "lXY")
	if err := app.HandleEvent(special(backend.KeyEscape)); err != nil {
		t.Fatal(err)
	}
	after, _ := app.Store().Key("left-main-0")
	if after.Label != before.Label {
		t.Errorf("label = %q after cancel, want %q", after.Label, before.Label)
	}
	if !app.Store().IsSelected("left-main-0") {
		t.Error("cancelling the prompt should keep the selection")
	}
}

func TestHexPrompt(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))
	app.Store().ToggleSelection("right-main-3", false)

	typeText(t, app, "#FF00zz00")
	if app.buffer != "#FF0000" {
		t.Errorf("buffer = %q, want #FF0000", app.buffer)
	}
	if err := app.HandleEvent(special(backend.KeyEnter)); err != nil {
		t.Fatal(err)
	}

	k, _ := app.Store().Key("right-main-3")
	if k.Color != "#ff0000" {
		t.Errorf("color = %q, want #ff0000", k.Color)
	}
	if cc := app.Store().CustomColors(); len(cc) != 1 || cc[0] != "#ff0000" {
		t.Errorf("CustomColors() = %v", cc)
	}
}

func TestHexPromptInvalid(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))
	app.Store().ToggleSelection("right-main-3", false)
	before, _ := app.Store().Key("right-main-3")

	typeText(t, app, "#12")
	if err := app.HandleEvent(special(backend.KeyEnter)); err != nil {
		t.Fatal(err)
	}
	after, _ := app.Store().Key("right-main-3")
	if after.Color != before.Color {
		t.Errorf("invalid hex changed color to %s", after.Color)
	}
	if !strings.Contains(app.Status(), "invalid hex") {
		t.Errorf("Status() = %q", app.Status())
	}
	if len(app.Store().CustomColors()) != 0 {
		t.Error("invalid hex added to custom colors")
	}
}

func TestThemeKeys(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))

	typeText(t, app, "n")
	if app.Theme().ID != "catppuccin" {
		t.Fatalf("after 'n' theme = %s, want catppuccin", app.Theme().ID)
	}
	first := app.Store().Config().Keys()[0]
	if first.Color != app.Theme().KeycapColor(0) {
		t.Errorf("first key color = %s, want %s", first.Color, app.Theme().KeycapColor(0))
	}

	typeText(t, app, "c")
	if got := app.Store().Config().CableColor; got != app.Theme().CableColor(1) {
		t.Errorf("after 'c' cable = %s, want %s", got, app.Theme().CableColor(1))
	}
	typeText(t, app, "t")
	if got := app.Store().Config().CableColor; got != app.Theme().CableColor(0) {
		t.Errorf("after 't' cable = %s, want %s", got, app.Theme().CableColor(0))
	}
}

func TestSwatchClicks(t *testing.T) {
	app, b := newTestApp(t, testConfig(t))
	app.Store().ToggleSelection("left-thumb-0", false)

	x, y, hit := findHit(t, app, b, render.HitKeycapSwatch)
	clickAt(t, app, x, y, backend.ModNone)
	if k, _ := app.Store().Key("left-thumb-0"); k.Color != hit.Color {
		t.Errorf("key color = %s, want swatch %s", k.Color, hit.Color)
	}

	x, y, hit = findHit(t, app, b, render.HitCableSwatch)
	clickAt(t, app, x, y, backend.ModNone)
	if got := app.Store().Config().CableColor; got != hit.Color {
		t.Errorf("cable = %s, want %s", got, hit.Color)
	}
}

func TestExportKeys(t *testing.T) {
	cfg := testConfig(t)
	app, _ := newTestApp(t, cfg)

	typeText(t, app, "e")
	typeText(t, app, "e")
	typeText(t, app, "k")

	pngs, _ := filepath.Glob(filepath.Join(cfg.Export.Dir, "*.png"))
	if len(pngs) != 2 {
		t.Errorf("png files = %v, want 2", pngs)
	}
	data, err := os.ReadFile(filepath.Join(cfg.Export.Dir, cfg.Export.Name+".json"))
	if err != nil {
		t.Fatal(err)
	}
	if n := gjson.GetBytes(data, "keys.#").Int(); n != 42 {
		t.Errorf("kle keys = %d, want 42", n)
	}
	if got := app.Metrics().Snapshot().ExportCount; got != 3 {
		t.Errorf("ExportCount = %d, want 3", got)
	}
}

func TestExportError(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))
	_, err := app.ExportPNG(filepath.Join(t.TempDir(), "missing", "x.png"))
	var oe *OperationError
	if !errors.As(err, &oe) || oe.Op != "export png" {
		t.Errorf("ExportPNG(bad dir) error = %v, want OperationError", err)
	}
}

func TestBatchUse(t *testing.T) {
	app, err := New(Options{Config: testConfig(t)})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if err := app.Run(); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Run() without backend = %v, want ErrNoBackend", err)
	}

	app.Store().ToggleSelection("left-main-0", false)
	doc, err := app.DumpJSON()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(doc, []byte("\n  ")) {
		t.Error("DumpJSON() should be indented")
	}
	if !gjson.GetBytes(doc, `keys.#(id=="left-main-0").selected`).Bool() {
		t.Error("selected key missing from dump")
	}
}

func TestRun(t *testing.T) {
	app, b := newTestApp(t, testConfig(t))
	shows := b.Shows()

	b.PostEvent(press('a'))
	b.PostEvent(backend.Event{Type: backend.EventResize, Width: 140, Height: 40})
	b.PostEvent(press('q'))
	if err := app.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	if app.Store().Selection().Len() != 42 {
		t.Error("events before quit were not handled")
	}
	if b.Shows() <= shows {
		t.Error("Run() did not draw")
	}
	if s := app.Metrics().Snapshot(); s.EventCount < 3 || s.DrawCount == 0 {
		t.Errorf("metrics = %+v", s)
	}
}

func TestShutdown(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))

	done := make(chan error, 1)
	go func() { done <- app.Run() }()

	deadline := time.Now().Add(5 * time.Second)
	for !app.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("Run() did not start")
		}
		time.Sleep(time.Millisecond)
	}
	app.Shutdown()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown() did not stop Run()")
	}
}

func TestThemeReloadInterrupt(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))
	ev := backend.Event{Type: backend.EventInterrupt, Data: themesReloaded{loaded: 2}}
	if err := app.HandleEvent(ev); err != nil {
		t.Fatal(err)
	}
	if app.Status() != "reloaded 2 themes" {
		t.Errorf("Status() = %q", app.Status())
	}
}

func TestThemeReloadDropsCurrentTheme(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(cfg.Themes.Dir, "solar.yaml")
	if err := os.WriteFile(path, []byte(solarTheme), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.UI.Theme = "solar"
	app, _ := newTestApp(t, cfg)
	if app.Theme().ID != "solar" {
		t.Fatalf("Theme().ID = %q, want solar", app.Theme().ID)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	n, errs := app.Themes().LoadDir(cfg.Themes.Dir)
	ev := backend.Event{Type: backend.EventInterrupt, Data: themesReloaded{loaded: n, errs: errs}}
	if err := app.HandleEvent(ev); err != nil {
		t.Fatal(err)
	}
	if app.themeID != theme.DefaultID {
		t.Errorf("themeID = %q after removal, want %s", app.themeID, theme.DefaultID)
	}
}

const solarTheme = `name: Solar
colors:
  background: "#002b36"
  keycapColors: ["#073642", "#586e75"]
  cableColors: ["#cb4b16"]
`

func TestThemeWatcher(t *testing.T) {
	cfg := testConfig(t)
	cfg.Themes.Watch = true
	app, b := newTestApp(t, cfg)
	if app.watcher == nil {
		t.Fatal("expected a theme watcher")
	}

	if err := os.WriteFile(filepath.Join(cfg.Themes.Dir, "solar.yaml"), []byte(solarTheme), 0644); err != nil {
		t.Fatal(err)
	}

	events := make(chan backend.Event, 1)
	deadline := time.After(5 * time.Second)
	for {
		go func() { events <- b.PollEvent() }()
		select {
		case ev := <-events:
			if err := app.HandleEvent(ev); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("theme was not reloaded")
		}
		if _, err := app.Themes().Get("solar"); err == nil {
			break
		}
	}
	if err := app.ApplyTheme("solar"); err != nil {
		t.Errorf("ApplyTheme(solar) = %v", err)
	}
}

func TestDropLastGrapheme(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"ab", "a"},
		{"é", ""},
		{"a👍🏽", "a"},
	}
	for _, tt := range tests {
		if got := dropLastGrapheme(tt.in); got != tt.want {
			t.Errorf("dropLastGrapheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
