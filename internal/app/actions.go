package app

import (
	"fmt"
	"strings"

	"github.com/dshills/keycraft/internal/color"
	"github.com/dshills/keycraft/internal/render"
	"github.com/dshills/keycraft/internal/store"
	"github.com/dshills/keycraft/internal/theme"
)

// Frame returns the render records for the current view.
func (app *Application) Frame() render.Frame {
	return render.Build(app.store, app.view)
}

// View returns the current view mode.
func (app *Application) View() render.Mode {
	return app.view
}

// ToggleView switches between the flat and spatial views.
func (app *Application) ToggleView() {
	app.view = app.view.Toggle()
	app.setStatus("%s view", strings.ToUpper(app.view.String()))
}

// Theme returns the current theme. If it was removed from the registry the
// default theme is returned.
func (app *Application) Theme() theme.Theme {
	t, err := app.themes.Get(app.themeID)
	if err != nil {
		t, _ = app.themes.Get(theme.DefaultID)
	}
	return t
}

// ApplyTheme colors every key from theme id and makes it current.
func (app *Application) ApplyTheme(id string) error {
	t, err := app.themes.Get(id)
	if err != nil {
		return NewOperationError("apply theme", id, err)
	}
	if err := theme.Apply(app.store, t); err != nil {
		return NewOperationError("apply theme", id, err)
	}
	app.themeID = id
	app.cableIndex = 0
	app.logger.Debug("applied theme %s", id)
	app.setStatus("applied %s", t.Name)
	return nil
}

// NextTheme applies the theme after the current one.
func (app *Application) NextTheme() error {
	return app.ApplyTheme(app.themes.Next(app.themeID))
}

// CycleCable sets the cable to the next cable color of the current theme.
func (app *Application) CycleCable() {
	t := app.Theme()
	app.cableIndex = (app.cableIndex + 1) % max(len(t.Colors.CableColors), 1)
	c := t.CableColor(app.cableIndex)
	app.store.UpdateCableColor(c)
	app.setStatus("cable %s", c)
}

// SetCable sets the cable color.
func (app *Application) SetCable(hex string) {
	app.store.UpdateCableColor(hex)
	app.setStatus("cable %s", hex)
}

// ApplySwatch paints the selected keys with keycap color i of the current
// theme. Out-of-range indexes are ignored.
func (app *Application) ApplySwatch(i int) error {
	colors := app.Theme().Colors.KeycapColors
	if i < 0 || i >= len(colors) {
		return nil
	}
	return app.Paint(colors[i])
}

// Paint sets the color of every selected key.
func (app *Application) Paint(hex string) error {
	n := app.store.Selection().Len()
	if n == 0 {
		return ErrNoSelection
	}
	app.store.UpdateSelectedKeys(store.ColorUpdate(hex))
	app.setStatus("painted %d keys %s", n, hex)
	return nil
}

// PaintCustom validates hex, remembers it in the custom colors and paints
// the selected keys with it.
func (app *Application) PaintCustom(hex string) error {
	if !color.Valid(hex) {
		return fmt.Errorf("%q: %w", hex, color.ErrInvalidHex)
	}
	hex = color.Normalize(hex)
	app.store.AddCustomColor(hex)
	return app.Paint(hex)
}

// SetLabel relabels every selected key.
func (app *Application) SetLabel(label string) error {
	n := app.store.Selection().Len()
	if n == 0 {
		return ErrNoSelection
	}
	app.store.UpdateSelectedKeys(store.LabelUpdate(label))
	app.setStatus("labeled %d keys %q", n, label)
	return nil
}

// Reset restores the default layout colors and labels.
func (app *Application) Reset() {
	app.store.ResetToDefault()
	app.cableIndex = 0
	app.setStatus("reset to defaults")
}

// pngOptions derives export options from the settings and current theme.
func (app *Application) pngOptions() render.PNGOptions {
	opts := render.DefaultPNGOptions()
	opts.Scale = app.cfg.Export.Scale
	c := app.Theme().Colors
	if color.Valid(c.Background) {
		opts.Background = c.Background
	}
	if color.Valid(c.Accent) {
		opts.Accent = c.Accent
	}
	if color.Valid(c.TextMuted) {
		opts.Muted = c.TextMuted
	}
	return opts
}

// ExportPNG writes the current view as a PNG image and returns the path
// written. An empty path picks a free name in the export directory.
func (app *Application) ExportPNG(path string) (string, error) {
	if path == "" {
		path = render.ExportPath(app.cfg.Export.Dir, app.cfg.Export.Name, ".png")
	}
	if err := render.SavePNG(path, app.Frame(), app.pngOptions()); err != nil {
		return "", NewOperationError("export png", path, err)
	}
	app.exported(path)
	return path, nil
}

// ExportKLE writes the flat layout in keyboard-layout-editor form and
// returns the path written. An empty path picks a free name in the export
// directory.
func (app *Application) ExportKLE(path string) (string, error) {
	if path == "" {
		path = render.ExportPath(app.cfg.Export.Dir, app.cfg.Export.Name, ".json")
	}
	opts := render.KLEOptions{
		Name:       app.cfg.Export.Name,
		Author:     "keycraft",
		Background: app.Theme().Colors.Background,
	}
	if err := render.SaveKLE(path, render.Build(app.store, render.ModeFlat), opts); err != nil {
		return "", NewOperationError("export kle", path, err)
	}
	app.exported(path)
	return path, nil
}

func (app *Application) exported(path string) {
	app.metrics.RecordExport()
	app.logger.Info("exported %s", path)
	app.setStatus("saved %s", path)
}

// DumpJSON returns the current frame as indented JSON.
func (app *Application) DumpJSON() ([]byte, error) {
	return app.Frame().PrettyJSON()
}

func (app *Application) setStatus(format string, args ...any) {
	app.status = fmt.Sprintf(format, args...)
	app.dirty.Store(true)
}

// Status returns the last status message.
func (app *Application) Status() string {
	return app.status
}

// statusLine is the status shown on screen; it echoes pending input.
func (app *Application) statusLine() string {
	switch app.input {
	case inputLabel:
		return "label: " + app.buffer + "_"
	case inputHex:
		return "color: " + app.buffer + "_"
	}
	return app.status
}
