package theme

import "github.com/dshills/keycraft/internal/store"

// Target is the subset of the store a theme is applied through.
type Target interface {
	Config() store.KeyboardConfig
	UpdateKey(id string, u store.Update)
	UpdateCableColor(color string)
}

// Apply colors every key round-robin from the theme's keycap colors, in
// layout order, and sets the cable to the theme's first cable color.
// Labels are untouched.
func Apply(target Target, t Theme) error {
	if err := t.Validate(); err != nil {
		return err
	}

	for i, k := range target.Config().Keys() {
		target.UpdateKey(k.ID, store.ColorUpdate(t.KeycapColor(i)))
	}
	target.UpdateCableColor(t.CableColor(0))
	return nil
}
