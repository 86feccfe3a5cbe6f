package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// LoadError describes a theme file that could not be loaded.
type LoadError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("theme %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("theme %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Supported reports whether path has a theme file extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".toml", ".json":
		return true
	default:
		return false
	}
}

// LoadFile reads a theme from a YAML, TOML or JSON file.
// The theme id is the file name without its extension.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, &LoadError{Path: path, Message: "reading file", Err: err}
	}

	t, err := Parse(filepath.Ext(path), data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return Theme{}, le
		}
		return Theme{}, &LoadError{Path: path, Message: err.Error(), Err: err}
	}

	t.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return t, nil
}

// Parse decodes theme data in the format named by ext.
func Parse(ext string, data []byte) (Theme, error) {
	var (
		t   Theme
		err error
	)

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &t)
		if err != nil {
			err = &LoadError{Path: "<yaml>", Message: err.Error(), Err: err}
		}
	case ".toml":
		err = toml.Unmarshal(data, &t)
		if err != nil {
			le := &LoadError{Path: "<toml>", Message: err.Error(), Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				le.Line, le.Column = derr.Position()
			}
			err = le
		}
	case ".json":
		t, err = parseJSON(data)
	default:
		err = fmt.Errorf("unsupported theme format %q", ext)
	}
	if err != nil {
		return Theme{}, err
	}

	if err := t.Validate(); err != nil {
		return Theme{}, &LoadError{Path: "<" + strings.TrimPrefix(ext, ".") + ">", Message: err.Error(), Err: err}
	}
	return t, nil
}

// parseJSON reads the same document shape as the YAML and TOML forms.
func parseJSON(data []byte) (Theme, error) {
	if !gjson.ValidBytes(data) {
		return Theme{}, &LoadError{Path: "<json>", Message: "malformed JSON", Err: ErrInvalidTheme}
	}

	doc := gjson.ParseBytes(data)
	colors := doc.Get("colors")
	strs := func(r gjson.Result) []string {
		var out []string
		r.ForEach(func(_, v gjson.Result) bool {
			out = append(out, v.String())
			return true
		})
		return out
	}

	return Theme{
		Name:        doc.Get("name").String(),
		Description: doc.Get("description").String(),
		Colors: Colors{
			Background:   colors.Get("background").String(),
			Surface:      colors.Get("surface").String(),
			Border:       colors.Get("border").String(),
			Text:         colors.Get("text").String(),
			TextMuted:    colors.Get("textMuted").String(),
			Accent:       colors.Get("accent").String(),
			KeycapColors: strs(colors.Get("keycapColors")),
			CableColors:  strs(colors.Get("cableColors")),
		},
	}, nil
}

// LoadDir loads every supported theme file in dir, sorted by file name.
// Files that fail to load are reported in the returned error slice and
// skipped.
func LoadDir(dir string) ([]Theme, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{fmt.Errorf("reading theme dir %s: %w", dir, err)}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var (
		themes []Theme
		errs   []error
	)
	for _, name := range names {
		t, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		themes = append(themes, t)
	}
	return themes, errs
}
