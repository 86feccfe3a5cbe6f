// Package theme provides color themes for keyboard designs.
//
// A theme supplies an ordered list of keycap colors and cable colors plus the
// surface colors used by the renderers. Themes come from the built-in table
// or from YAML, TOML and JSON files in a themes directory.
package theme

import (
	"errors"
	"fmt"
)

// ErrThemeNotFound is returned when a theme id is not registered.
var ErrThemeNotFound = errors.New("theme not found")

// ErrInvalidTheme is returned when a theme has no usable colors.
var ErrInvalidTheme = errors.New("invalid theme")

// Colors holds the palette of a theme.
type Colors struct {
	Background   string   `yaml:"background" toml:"background"`
	Surface      string   `yaml:"surface" toml:"surface"`
	Border       string   `yaml:"border" toml:"border"`
	Text         string   `yaml:"text" toml:"text"`
	TextMuted    string   `yaml:"textMuted" toml:"textMuted"`
	Accent       string   `yaml:"accent" toml:"accent"`
	KeycapColors []string `yaml:"keycapColors" toml:"keycapColors"`
	CableColors  []string `yaml:"cableColors" toml:"cableColors"`
}

// Theme is a named palette.
type Theme struct {
	// ID is the registry key. Built-in themes use fixed ids; file themes
	// use the file name without extension.
	ID          string `yaml:"-" toml:"-"`
	Name        string `yaml:"name" toml:"name"`
	Description string `yaml:"description" toml:"description"`
	Colors      Colors `yaml:"colors" toml:"colors"`
}

// Validate checks that the theme can be applied.
func (t Theme) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTheme)
	}
	if len(t.Colors.KeycapColors) == 0 {
		return fmt.Errorf("%w: %s has no keycap colors", ErrInvalidTheme, t.Name)
	}
	if len(t.Colors.CableColors) == 0 {
		return fmt.Errorf("%w: %s has no cable colors", ErrInvalidTheme, t.Name)
	}
	return nil
}

// KeycapColor returns the keycap color for index i, wrapping round-robin.
func (t Theme) KeycapColor(i int) string {
	n := len(t.Colors.KeycapColors)
	if n == 0 {
		return ""
	}
	return t.Colors.KeycapColors[((i%n)+n)%n]
}

// CableColor returns the cable color for index i, wrapping round-robin.
func (t Theme) CableColor(i int) string {
	n := len(t.Colors.CableColors)
	if n == 0 {
		return ""
	}
	return t.Colors.CableColors[((i%n)+n)%n]
}
