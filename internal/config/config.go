// Package config loads keycraft settings.
//
// Settings come from three layers, lowest first: built-in defaults, a TOML
// file and KEYCRAFT_* environment variables. Command-line flags are applied
// on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// AppName names the configuration directory.
const AppName = "keycraft"

// Config holds all keycraft settings.
type Config struct {
	UI      UIConfig      `toml:"ui"`
	Themes  ThemesConfig  `toml:"themes"`
	Export  ExportConfig  `toml:"export"`
	Logging LoggingConfig `toml:"logging"`
}

// UIConfig holds interactive view settings.
type UIConfig struct {
	// Theme is the id of the theme applied at startup.
	Theme string `toml:"theme"`
	// Mode is the initial view, "2d" or "3d".
	Mode string `toml:"mode"`
}

// ThemesConfig locates user theme files.
type ThemesConfig struct {
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"`
}

// ExportConfig controls image and layout exports.
type ExportConfig struct {
	Dir   string  `toml:"dir"`
	Name  string  `toml:"name"`
	Scale float64 `toml:"scale"`
}

// LoggingConfig controls the log output.
type LoggingConfig struct {
	Level string `toml:"level"`
	// File receives log output; empty discards it in interactive mode.
	File string `toml:"file"`
}

// Dir returns the keycraft configuration directory.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, AppName)
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		UI: UIConfig{
			Theme: "nord",
			Mode:  "2d",
		},
		Themes: ThemesConfig{
			Dir:   filepath.Join(Dir(), "themes"),
			Watch: true,
		},
		Export: ExportConfig{
			Dir:   ".",
			Name:  "my-keyboard-design",
			Scale: 2,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load is Read followed by Validate.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Read builds the configuration from defaults, the file at path (the
// default path when empty) and the environment without validating it, so
// callers can layer further overrides first. A missing file is not an
// error.
func Read(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if err := cfg.MergeFile(path); err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// MergeFile overlays the settings in a TOML file. Keys absent from the file
// keep their current values. A missing file is not an error.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, not an error
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return c.merge(path, data)
}

func (c *Config) merge(source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(c); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		var serr *toml.StrictMissingError
		switch {
		case errors.As(err, &derr):
			pe.Line, pe.Column = derr.Position()
		case errors.As(err, &serr) && len(serr.Errors) > 0:
			pe.Line, pe.Column = serr.Errors[0].Position()
			pe.Message = "unknown setting " + strings.Join(serr.Errors[0].Key(), ".")
		}
		return pe
	}
	return nil
}

// Validate checks every setting and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	invalid := func(path string, value any, msg string) {
		errs = append(errs, &ValidationError{Path: path, Value: value, Message: msg})
	}

	if strings.TrimSpace(c.UI.Theme) == "" {
		invalid("ui.theme", c.UI.Theme, "must not be empty")
	}
	switch strings.ToLower(c.UI.Mode) {
	case "2d", "3d":
	default:
		invalid("ui.mode", c.UI.Mode, `must be "2d" or "3d"`)
	}

	if c.Export.Scale <= 0 || c.Export.Scale > 8 {
		invalid("export.scale", c.Export.Scale, "must be in (0, 8]")
	}
	if c.Export.Name == "" || strings.ContainsAny(c.Export.Name, `/\`) {
		invalid("export.name", c.Export.Name, "must be a plain file name")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		invalid("logging.level", c.Logging.Level, "must be debug, info, warn or error")
	}

	return errors.Join(errs...)
}
