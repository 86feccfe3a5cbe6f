package render

import (
	"fmt"
	"math"
	"os"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/keycraft/internal/color"
	"github.com/dshills/keycraft/internal/geometry"
)

// KLEOptions sets the metadata of a keyboard-layout-editor export.
type KLEOptions struct {
	Name       string
	Author     string
	Background string
}

// ExportKLE encodes the frame in the deserialized keyboard-layout-editor
// form: a metadata object and a flat list of keys in key units.
// One key unit is the flat key pitch.
func ExportKLE(f Frame, opts KLEOptions) ([]byte, error) {
	name := opts.Name
	if name == "" {
		name = DefaultName
	}

	doc := []byte(`{"meta":{},"keys":[]}`)
	var err error
	set := func(path string, v any) {
		if err == nil {
			doc, err = sjson.SetBytes(doc, path, v)
		}
	}
	set("meta.name", name)
	set("meta.author", opts.Author)
	set("meta.backcolor", color.Normalize(opts.Background))
	set("meta.notes", "split "+f.Mode.String()+" layout")

	fps := Footprints(f)
	bounds := BoundsOf(fps)
	for i, k := range f.Keys {
		if err != nil {
			break
		}
		fp := fps[i]
		fill := color.Normalize(k.Color)
		cx, cy := fp.Center()

		key := []byte(`{}`)
		for _, fld := range []jsonField{
			{"color", fill},
			{"labels", []string{k.Label}},
			{"textColor", []string{color.TextColor(fill)}},
			{"x", units(fp.X - bounds.MinX)},
			{"y", units(fp.Y - bounds.MinY)},
			{"width", units(fp.W + geometry.KeyGap)},
			{"height", units(fp.H + geometry.KeyGap)},
			{"rotation_x", units(cx - bounds.MinX)},
			{"rotation_y", units(cy - bounds.MinY)},
			{"rotation_angle", round3(fp.Rotation)},
			{"profile", k.Category.String()},
		} {
			if key, err = sjson.SetBytes(key, fld.path, fld.v); err != nil {
				break
			}
		}
		if err == nil {
			doc, err = sjson.SetRawBytes(doc, "keys.-1", key)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("encoding kle: %w", err)
	}
	return pretty.Pretty(doc), nil
}

// SaveKLE writes the KLE export to path.
func SaveKLE(path string, f Frame, opts KLEOptions) error {
	data, err := ExportKLE(f, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func units(px float64) float64 {
	return round3(px / geometry.Pitch)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
