// Package render turns keyboard state into something a person can look at:
// per-key render records, a terminal screen, a PNG image and a KLE file.
//
// Renderers never mutate the store. They pull a snapshot through Build and
// resolve placement on demand from the geometry package.
package render

import (
	"fmt"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/keycraft/internal/geometry"
	"github.com/dshills/keycraft/internal/layout"
	"github.com/dshills/keycraft/internal/store"
)

// Mode selects the flat or spatial rendering.
type Mode uint8

const (
	ModeFlat Mode = iota
	ModeSpatial
)

func (m Mode) String() string {
	if m == ModeSpatial {
		return "3d"
	}
	return "2d"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeSpatial {
		return ModeFlat
	}
	return ModeSpatial
}

// ParseMode parses "2d" or "3d" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2d", "flat":
		return ModeFlat, nil
	case "3d", "spatial":
		return ModeSpatial, nil
	default:
		return ModeFlat, fmt.Errorf("unknown view mode %q", s)
	}
}

// KeyView is the render record for one key.
// Only the placement matching the frame's mode is populated.
type KeyView struct {
	ID       string
	Category layout.Category
	Side     layout.Side
	Label    string
	Color    string
	Selected bool

	Flat    geometry.Placement2D
	Spatial geometry.Placement3D
}

// Frame is everything a renderer needs for one draw.
type Frame struct {
	Mode       Mode
	CableColor string
	// Keys are in layout order: left half, then right half.
	Keys []KeyView
}

// Source is the read side of the store.
type Source interface {
	Config() store.KeyboardConfig
	Selection() store.Selection
}

// Build snapshots src and resolves placement for mode.
func Build(src Source, mode Mode) Frame {
	cfg := src.Config()
	sel := src.Selection()

	keys := cfg.Keys()
	f := Frame{
		Mode:       mode,
		CableColor: cfg.CableColor,
		Keys:       make([]KeyView, 0, len(keys)),
	}
	for _, k := range keys {
		kv := KeyView{
			ID:       k.ID,
			Category: k.Category,
			Side:     k.Side,
			Label:    k.Label,
			Color:    k.Color,
			Selected: sel.Has(k.ID),
		}
		if mode == ModeSpatial {
			kv.Spatial = geometry.Spatial(k)
		} else {
			kv.Flat = geometry.Flat(k)
		}
		f.Keys = append(f.Keys, kv)
	}
	return f
}

// Find returns the view for id.
func (f Frame) Find(id string) (KeyView, bool) {
	for _, k := range f.Keys {
		if k.ID == id {
			return k, true
		}
	}
	return KeyView{}, false
}

// SelectedCount returns the number of selected keys in the frame.
func (f Frame) SelectedCount() int {
	n := 0
	for _, k := range f.Keys {
		if k.Selected {
			n++
		}
	}
	return n
}

// JSON encodes the frame as a JSON document.
func (f Frame) JSON() ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err == nil {
			doc, err = sjson.SetBytes(doc, path, v)
		}
	}
	set("mode", f.Mode.String())
	set("cableColor", f.CableColor)
	if err == nil {
		doc, err = sjson.SetRawBytes(doc, "keys", []byte(`[]`))
	}

	for _, k := range f.Keys {
		if err != nil {
			break
		}
		var obj []byte
		obj, err = keyJSON(f.Mode, k)
		if err == nil {
			doc, err = sjson.SetRawBytes(doc, "keys.-1", obj)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	return doc, nil
}

type jsonField struct {
	path string
	v    any
}

func keyJSON(mode Mode, k KeyView) ([]byte, error) {
	obj := []byte(`{}`)
	fields := []jsonField{
		{"id", k.ID},
		{"category", k.Category.String()},
		{"side", k.Side.String()},
		{"label", k.Label},
		{"color", k.Color},
		{"selected", k.Selected},
	}
	if mode == ModeSpatial {
		p := k.Spatial
		fields = append(fields, []jsonField{
			{"position.x", p.Position.X},
			{"position.y", p.Position.Y},
			{"position.z", p.Position.Z},
			{"rotation.x", p.Rotation.X},
			{"rotation.y", p.Rotation.Y},
			{"rotation.z", p.Rotation.Z},
		}...)
	} else {
		p := k.Flat
		fields = append(fields, []jsonField{
			{"x", p.X},
			{"y", p.Y},
			{"stagger", p.StaggerY},
			{"rotation", p.Rotation},
			{"column", p.Column},
			{"cluster", p.Cluster},
		}...)
	}

	var err error
	for _, fld := range fields {
		obj, err = sjson.SetBytes(obj, fld.path, fld.v)
		if err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// PrettyJSON encodes the frame as indented JSON.
func (f Frame) PrettyJSON() ([]byte, error) {
	doc, err := f.JSON()
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(doc), nil
}
