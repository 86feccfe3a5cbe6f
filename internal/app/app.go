// Package app is the keycraft composition root. It owns the keyboard store,
// the theme registry and the terminal backend, and maps user input onto
// store operations.
package app

import (
	"errors"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keycraft/internal/backend"
	"github.com/dshills/keycraft/internal/config"
	"github.com/dshills/keycraft/internal/render"
	"github.com/dshills/keycraft/internal/store"
	"github.com/dshills/keycraft/internal/theme"
)

// inputMode selects how key presses are interpreted.
type inputMode uint8

const (
	inputNormal inputMode = iota
	inputLabel
	inputHex
)

// Application coordinates the store, themes, rendering and input.
// Apart from Shutdown, its methods must be called from the goroutine
// running the event loop.
type Application struct {
	cfg     config.Config
	store   *store.Store
	themes  *theme.Registry
	watcher *theme.Watcher
	backend backend.Backend
	logger  *Logger
	metrics *Metrics
	session string

	sub   *store.Subscription
	dirty atomic.Bool

	themeID    string
	view       render.Mode
	layout     render.Layout
	status     string
	input      inputMode
	buffer     string
	cableIndex int
	lastButton backend.MouseButton

	initOrder []string
	running   atomic.Bool
}

// Options configures the application.
type Options struct {
	// Config holds the loaded settings.
	Config config.Config

	// Backend is the terminal. Nil for batch use (dump and exports).
	Backend backend.Backend

	// Logger receives diagnostics. Nil discards them.
	Logger *Logger

	// ApplyTheme colors the keys with the configured theme at startup
	// instead of keeping the layout defaults.
	ApplyTheme bool
}

// New creates an Application. Components are started in order; if one
// fails the ones already started are released.
func New(opts Options) (*Application, error) {
	view, err := render.ParseMode(opts.Config.UI.Mode)
	if err != nil {
		return nil, &InitError{Component: "view", Err: err}
	}

	session := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = NullLogger
	}

	app := &Application{
		cfg:     opts.Config,
		backend: opts.Backend,
		logger:  logger.WithField("session", session[:8]),
		metrics: NewMetrics(),
		session: session,
		view:    view,
	}

	if err := app.bootstrap(opts); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap starts each component in dependency order.
func (app *Application) bootstrap(opts Options) error {
	if err := app.initThemes(opts.ApplyTheme); err != nil {
		return &InitError{Component: "theme", Err: err}
	}
	app.initStore()

	if opts.ApplyTheme {
		if err := app.ApplyTheme(app.themeID); err != nil {
			return &InitError{Component: "theme", Err: err}
		}
	}

	if err := app.initWatcher(); err != nil {
		return &InitError{Component: "theme watcher", Err: err}
	}
	return nil
}

// initThemes builds the registry from the built-ins and the theme directory
// and picks the configured theme. A theme that must be applied has to
// exist; otherwise an unknown theme falls back to the default.
func (app *Application) initThemes(required bool) error {
	log := app.logger.WithComponent("themes")

	app.themes = theme.NewRegistry()
	if dir := app.cfg.Themes.Dir; dir != "" {
		n, errs := app.themes.LoadDir(dir)
		for _, err := range errs {
			log.Warn("skipping theme: %v", err)
		}
		if n > 0 {
			log.Info("loaded %d themes from %s", n, dir)
		}
	}

	app.themeID = app.cfg.UI.Theme
	if _, err := app.themes.Get(app.themeID); err != nil {
		if required {
			return err
		}
		log.Warn("%v, using %s", err, theme.DefaultID)
		app.themeID = theme.DefaultID
	}
	app.initOrder = append(app.initOrder, "themes")
	return nil
}

// initStore creates the store and marks the screen dirty on every change.
func (app *Application) initStore() {
	app.store = store.New()
	log := app.logger.WithComponent("store")
	app.sub = app.store.Subscribe(func(c store.Change) {
		app.metrics.RecordChange()
		app.dirty.Store(true)
		log.Debug("%s changed %v", c.Kind, c.IDs)
	})
	app.initOrder = append(app.initOrder, "store")
}

// initWatcher reloads themes from disk while the interactive loop runs.
// Reloads reach the loop as interrupt events.
func (app *Application) initWatcher() error {
	dir := app.cfg.Themes.Dir
	if app.backend == nil || !app.cfg.Themes.Watch || dir == "" {
		return nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		app.logger.WithComponent("themes").Debug("not watching %s", dir)
		return nil
	}

	b := app.backend
	w, err := theme.NewWatcher(app.themes, dir, theme.WithReloadFunc(func(loaded int, errs []error) {
		b.PostEvent(backend.Event{
			Type: backend.EventInterrupt,
			Data: themesReloaded{loaded: loaded, errs: errs},
		})
	}))
	if err != nil {
		return err
	}
	app.watcher = w
	app.initOrder = append(app.initOrder, "watcher")
	return nil
}

// Close releases the components in reverse start order.
// It is safe to call Close more than once.
func (app *Application) Close() {
	for i := len(app.initOrder) - 1; i >= 0; i-- {
		switch app.initOrder[i] {
		case "watcher":
			if err := app.watcher.Close(); err != nil {
				app.logComponentError("themes", err)
			}
			app.watcher = nil
		case "store":
			app.sub.Unsubscribe()
		}
	}
	app.initOrder = nil
}

// Run initializes the backend and processes events until the user quits or
// Shutdown is called. The backend is shut down on return.
func (app *Application) Run() error {
	if app.backend == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	app.logger.Info("started with theme %s in %s view", app.themeID, app.view)
	app.redraw()
	err := app.eventLoop()

	s := app.metrics.Snapshot()
	app.logger.Info("stopped after %s: %d events, %d changes, %d draws (avg %s)",
		s.Uptime.Round(time.Millisecond), s.EventCount, s.ChangeCount, s.DrawCount, s.AvgDraw())
	return err
}

// eventLoop polls the backend until an event handler requests exit.
func (app *Application) eventLoop() error {
	for {
		err := app.HandleEvent(app.backend.PollEvent())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Shutdown asks a running event loop to exit. Safe from any goroutine.
func (app *Application) Shutdown() {
	if app.backend != nil && app.running.Load() {
		app.backend.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: quitRequest{}})
	}
}

// IsRunning returns true if the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// redraw draws the current frame and records the hit layout.
func (app *Application) redraw() {
	app.dirty.Store(false)
	if app.backend == nil {
		return
	}
	timer := StartTimer()
	app.layout = render.Draw(app.backend, app.Frame(), render.Chrome{
		Theme:        app.Theme(),
		CustomColors: app.store.CustomColors(),
		Status:       app.statusLine(),
	})
	app.metrics.RecordDraw(timer.Elapsed())
}

// Config returns the settings the application was built with.
func (app *Application) Config() config.Config {
	return app.cfg
}

// Store returns the keyboard store.
func (app *Application) Store() *store.Store {
	return app.store
}

// Themes returns the theme registry.
func (app *Application) Themes() *theme.Registry {
	return app.themes
}

// Session returns the id of this run.
func (app *Application) Session() string {
	return app.session
}
