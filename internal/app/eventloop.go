package app

import (
	"errors"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/keycraft/internal/backend"
	"github.com/dshills/keycraft/internal/render"
	"github.com/dshills/keycraft/internal/theme"
)

// Interrupt payloads posted to the backend by other goroutines.
type (
	quitRequest    struct{}
	themesReloaded struct {
		loaded int
		errs   []error
	}
)

const maxHexInput = len("#rrggbb")

// HandleEvent processes one backend event and redraws if anything changed.
// It returns ErrQuit when the application should exit.
func (app *Application) HandleEvent(ev backend.Event) error {
	timer := StartTimer()
	err := app.handleBackendEvent(ev)
	app.metrics.RecordEvent(timer.Elapsed())

	if err != nil && !errors.Is(err, ErrQuit) {
		app.logger.Warn("%v", err)
		app.setStatus("%v", err)
		err = nil
	}
	if err == nil && app.dirty.Load() {
		app.redraw()
	}
	return err
}

// handleBackendEvent routes an event by type.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.dirty.Store(true)
		return nil
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		return app.handleMouseEvent(ev)
	case backend.EventInterrupt:
		return app.handleInterrupt(ev)
	default:
		return nil
	}
}

// handleKeyEvent dispatches a key press according to the input mode.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	if ev.Key == backend.KeyCtrlC {
		return ErrQuit
	}
	switch app.input {
	case inputLabel, inputHex:
		return app.handlePromptKey(ev)
	}

	switch ev.Key {
	case backend.KeyEscape:
		app.store.ClearSelection()
		return nil
	case backend.KeyRune:
	default:
		return nil
	}

	switch r := ev.Rune; {
	case r == 'q':
		return ErrQuit
	case r == 'a':
		app.store.SelectAll()
	case r == 'r':
		app.Reset()
	case r == 't':
		return app.ApplyTheme(app.themeID)
	case r == 'n':
		return app.NextTheme()
	case r == 'c':
		app.CycleCable()
	case r == 'v':
		app.ToggleView()
	case r == 'e':
		_, err := app.ExportPNG("")
		return err
	case r == 'k':
		_, err := app.ExportKLE("")
		return err
	case r >= '1' && r <= '9':
		return app.ApplySwatch(int(r - '1'))
	case r == '0':
		return app.ApplySwatch(9)
	case r == 'l':
		return app.startPrompt(inputLabel, "")
	case r == '#':
		return app.startPrompt(inputHex, "#")
	}
	return nil
}

// startPrompt switches to text entry for the selected keys.
func (app *Application) startPrompt(mode inputMode, initial string) error {
	if app.store.Selection().IsEmpty() {
		return ErrNoSelection
	}
	app.input = mode
	app.buffer = initial
	app.dirty.Store(true)
	return nil
}

// handlePromptKey edits the prompt buffer; Enter commits, Escape cancels.
func (app *Application) handlePromptKey(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyEscape:
		app.endPrompt()
		app.setStatus("cancelled")
		return nil
	case backend.KeyEnter:
		mode, text := app.input, app.buffer
		app.endPrompt()
		if mode == inputHex {
			return app.PaintCustom(text)
		}
		return app.SetLabel(text)
	case backend.KeyBackspace:
		app.buffer = dropLastGrapheme(app.buffer)
		if app.input == inputHex && app.buffer == "" {
			app.buffer = "#"
		}
	case backend.KeyRune:
		if app.input == inputHex {
			if len(app.buffer) >= maxHexInput || !strings.ContainsRune("0123456789abcdefABCDEF", ev.Rune) {
				return nil
			}
		}
		app.buffer += string(ev.Rune)
	default:
		return nil
	}
	app.dirty.Store(true)
	return nil
}

func (app *Application) endPrompt() {
	app.input = inputNormal
	app.buffer = ""
	app.dirty.Store(true)
}

// dropLastGrapheme removes the last user-perceived character of s.
func dropLastGrapheme(s string) string {
	last := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		last, _ = g.Positions()
	}
	return s[:last]
}

// handleMouseEvent acts on the press transition of the left button only, so
// drags and releases do not repeat a click.
func (app *Application) handleMouseEvent(ev backend.Event) error {
	pressed := ev.MouseButton == backend.MouseLeft && app.lastButton != backend.MouseLeft
	app.lastButton = ev.MouseButton
	if !pressed {
		return nil
	}

	hit := app.layout.Hit(ev.MouseX, ev.MouseY)
	switch hit.Kind {
	case render.HitKey:
		multi := ev.Mod.Has(backend.ModCtrl) || ev.Mod.Has(backend.ModMeta) || ev.Mod.Has(backend.ModShift)
		app.store.ToggleSelection(hit.ID, multi)
	case render.HitKeycapSwatch:
		return app.Paint(hit.Color)
	case render.HitCableSwatch:
		app.SetCable(hit.Color)
	}
	return nil
}

// handleInterrupt handles events posted from other goroutines.
func (app *Application) handleInterrupt(ev backend.Event) error {
	switch data := ev.Data.(type) {
	case quitRequest:
		return ErrQuit
	case themesReloaded:
		log := app.logger.WithComponent("themes")
		for _, err := range data.errs {
			log.Warn("reload: %v", err)
		}
		log.Info("reloaded %d themes", data.loaded)
		if _, err := app.themes.Get(app.themeID); err != nil {
			log.Warn("%v, using %s", err, theme.DefaultID)
			app.themeID = theme.DefaultID
		}
		app.setStatus("reloaded %d themes", data.loaded)
	}
	return nil
}
