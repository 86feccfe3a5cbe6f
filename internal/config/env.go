package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "KEYCRAFT_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type envSetter func(c *Config, val string) error

// envMapping maps environment variables to settings.
var envMapping = map[string]envSetter{
	"KEYCRAFT_THEME":      func(c *Config, v string) error { c.UI.Theme = v; return nil },
	"KEYCRAFT_MODE":       func(c *Config, v string) error { c.UI.Mode = strings.ToLower(v); return nil },
	"KEYCRAFT_LOG_LEVEL":  func(c *Config, v string) error { c.Logging.Level = v; return nil },
	"KEYCRAFT_LOG_FILE":   func(c *Config, v string) error { c.Logging.File = v; return nil },
	"KEYCRAFT_THEMES_DIR": func(c *Config, v string) error { c.Themes.Dir = v; return nil },
	"KEYCRAFT_EXPORT_DIR": func(c *Config, v string) error { c.Export.Dir = v; return nil },
	"KEYCRAFT_THEMES_WATCH": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.Themes.Watch = b
		return nil
	},
	"KEYCRAFT_EXPORT_SCALE": func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		c.Export.Scale = f
		return nil
	},
}

// EnvVars returns the supported environment variable names, sorted.
func EnvVars() []string {
	return slices.Sorted(maps.Keys(envMapping))
}

// ApplyEnv overlays environment overrides found through lookup.
// Empty values are treated as unset.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	for name, set := range envMapping {
		val, ok := lookup(name)
		if !ok || val == "" {
			continue
		}
		if err := set(c, val); err != nil {
			return fmt.Errorf("environment %s=%q: %w", name, val, err)
		}
	}
	return nil
}
