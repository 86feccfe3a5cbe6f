// Package main is the entry point for keycraft, a split keyboard designer.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tidwall/pretty"
	"golang.org/x/term"

	"github.com/dshills/keycraft/internal/app"
	"github.com/dshills/keycraft/internal/backend"
	"github.com/dshills/keycraft/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cliOptions holds the parsed command line.
type cliOptions struct {
	configPath string
	theme      string
	mode       string
	logLevel   string
	dump       bool
	exportPNG  string
	exportKLE  string
	listThemes bool
	version    bool
}

// batch reports whether the command runs without the interactive UI.
func (o cliOptions) batch() bool {
	return o.dump || o.exportPNG != "" || o.exportKLE != "" || o.listThemes
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("keycraft", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.theme, "theme", "", "Theme to apply at startup")
	fs.StringVar(&opts.mode, "mode", "", "Initial view (2d or 3d)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.dump, "dump", false, "Print the render frame as JSON and exit")
	fs.StringVar(&opts.exportPNG, "export", "", "Write a PNG image to `file` and exit")
	fs.StringVar(&opts.exportKLE, "kle", "", "Write a keyboard-layout-editor JSON to `file` and exit")
	fs.BoolVar(&opts.listThemes, "themes", false, "List available themes and exit")
	fs.BoolVar(&opts.version, "version", false, "Show version information")
	fs.BoolVar(&opts.version, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "keycraft - split ergonomic keyboard designer\n\n")
		fmt.Fprintf(stderr, "Usage: keycraft [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nEnvironment:\n  %s\n", strings.Join(config.EnvVars(), "\n  "))
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  keycraft                          Design interactively\n")
		fmt.Fprintf(stderr, "  keycraft -theme gruvbox -mode 3d  Start with a theme in the 3D view\n")
		fmt.Fprintf(stderr, "  keycraft -export board.png        Render the default board to an image\n")
		fmt.Fprintf(stderr, "  keycraft -dump | jq .keys[0]      Inspect the render records\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

// loadConfig layers the command-line flags over the file and environment
// settings and validates the result.
func loadConfig(opts cliOptions) (config.Config, error) {
	cfg, err := config.Read(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.theme != "" {
		cfg.UI.Theme = opts.theme
	}
	if opts.mode != "" {
		cfg.UI.Mode = strings.ToLower(opts.mode)
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	return cfg, cfg.Validate()
}

// newLogger writes to stderr in batch mode. The interactive UI owns the
// terminal, so it logs to the configured file or nowhere.
func newLogger(cfg config.Config, batch bool, stderr io.Writer) (*app.Logger, io.Closer, error) {
	out := stderr
	var closer io.Closer
	switch {
	case cfg.Logging.File != "":
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out, closer = f, f
	case !batch:
		return app.NullLogger, nil, nil
	}
	return app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(cfg.Logging.Level),
		Output: out,
		Prefix: config.AppName,
	}), closer, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "keycraft %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, closer, err := newLogger(cfg, opts.batch(), stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if closer != nil {
		defer closer.Close()
	}

	if opts.batch() {
		return runBatch(opts, cfg, logger, stdout, stderr)
	}
	return runInteractive(opts, cfg, logger, stderr)
}

// runBatch performs the requested non-interactive outputs.
func runBatch(opts cliOptions, cfg config.Config, logger *app.Logger, stdout, stderr io.Writer) int {
	application, err := app.New(app.Options{
		Config:     cfg,
		Logger:     logger,
		ApplyTheme: opts.theme != "",
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	if opts.listThemes {
		for _, id := range application.Themes().IDs() {
			t, _ := application.Themes().Get(id)
			fmt.Fprintf(stdout, "%-12s %s\n", id, t.Name)
		}
	}

	if opts.dump {
		doc, err := application.DumpJSON()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if isTerminal(stdout) {
			doc = pretty.Color(doc, nil)
		}
		if _, err := stdout.Write(doc); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.exportPNG != "" {
		if _, err := application.ExportPNG(opts.exportPNG); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	if opts.exportKLE != "" {
		if _, err := application.ExportKLE(opts.exportKLE); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}

func runInteractive(opts cliOptions, cfg config.Config, logger *app.Logger, stderr io.Writer) int {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(stderr, "Error: interactive mode needs a terminal (try -export or -dump)\n")
		return 1
	}

	// Create terminal backend
	terminal, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	application, err := app.New(app.Options{
		Config:     cfg,
		Backend:    terminal,
		Logger:     logger,
		ApplyTheme: opts.theme != "",
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
