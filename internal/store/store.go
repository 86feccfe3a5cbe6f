// Package store holds the mutable state of a keyboard design.
//
// The Store owns per-key labels and colors, the cable color, the selection
// set and the custom color history. Every mutation replaces the affected
// values wholesale, so readers always observe a consistent snapshot. Ids that
// do not belong to the layout are ignored silently; there is no error path.
package store

import (
	"sync"

	"github.com/dshills/keycraft/internal/layout"
)

// KeyboardConfig is the aggregate design state.
type KeyboardConfig struct {
	LeftKeys   []layout.Key
	RightKeys  []layout.Key
	CableColor string
}

// DefaultConfig builds a config from the layout table defaults.
func DefaultConfig() KeyboardConfig {
	table := layout.Default()
	return KeyboardConfig{
		LeftKeys:   table.Left,
		RightKeys:  table.Right,
		CableColor: layout.DefaultCableColor,
	}
}

// Keys returns all keys in layout order, left half first.
func (c KeyboardConfig) Keys() []layout.Key {
	all := make([]layout.Key, 0, len(c.LeftKeys)+len(c.RightKeys))
	all = append(all, c.LeftKeys...)
	all = append(all, c.RightKeys...)
	return all
}

func (c KeyboardConfig) clone() KeyboardConfig {
	return KeyboardConfig{
		LeftKeys:   append([]layout.Key(nil), c.LeftKeys...),
		RightKeys:  append([]layout.Key(nil), c.RightKeys...),
		CableColor: c.CableColor,
	}
}

// Update is a partial key update. Nil fields are left untouched.
type Update struct {
	Label *string
	Color *string
}

// LabelUpdate returns an update that sets the label.
func LabelUpdate(label string) Update {
	return Update{Label: &label}
}

// ColorUpdate returns an update that sets the color.
func ColorUpdate(color string) Update {
	return Update{Color: &color}
}

// WithLabel returns u with the label set.
func (u Update) WithLabel(label string) Update {
	u.Label = &label
	return u
}

// WithColor returns u with the color set.
func (u Update) WithColor(color string) Update {
	u.Color = &color
	return u
}

// IsEmpty returns true if the update changes nothing.
func (u Update) IsEmpty() bool {
	return u.Label == nil && u.Color == nil
}

// apply returns k with the update applied. Labels are truncated here so no
// mutation path can store an over-length label.
func (u Update) apply(k layout.Key) layout.Key {
	if u.Label != nil {
		k.Label = layout.TruncateLabel(*u.Label)
	}
	if u.Color != nil {
		k.Color = *u.Color
	}
	return k
}

// Store is the single owner of design state.
type Store struct {
	mu sync.RWMutex

	config    KeyboardConfig
	selection Selection
	palette   Palette

	// universe is fixed at construction; keys are never added or removed.
	universe map[string]struct{}

	notifier *notifier
}

// New creates a store seeded from the layout defaults.
func New() *Store {
	cfg := DefaultConfig()
	universe := make(map[string]struct{}, len(cfg.LeftKeys)+len(cfg.RightKeys))
	for _, k := range cfg.Keys() {
		universe[k.ID] = struct{}{}
	}

	return &Store{
		config:    cfg,
		selection: NewSelection(),
		universe:  universe,
		notifier:  newNotifier(),
	}
}

// Subscribe registers an observer called after every committed change.
func (s *Store) Subscribe(obs Observer) *Subscription {
	return s.notifier.subscribe(obs)
}

// Config returns a snapshot of the keyboard config.
func (s *Store) Config() KeyboardConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.clone()
}

// Key returns the current record for id.
func (s *Store) Key(id string) (layout.Key, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, k := range s.config.Keys() {
		if k.ID == id {
			return k, true
		}
	}
	return layout.Key{}, false
}

// Selection returns the current selection set.
func (s *Store) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// IsSelected reports whether id is selected.
func (s *Store) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection.Has(id)
}

// CustomColors returns the custom color history, most recent first.
func (s *Store) CustomColors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.palette.Colors()
}

// ToggleSelection applies a click on a key.
// Without multi the selection becomes exactly {id}; with multi, id is
// toggled and all other ids keep their state.
func (s *Store) ToggleSelection(id string, multi bool) {
	s.mu.Lock()
	if _, ok := s.universe[id]; !ok {
		s.mu.Unlock()
		return
	}
	s.setSelection(s.selection.Toggle(id, multi))
}

// SelectAll selects every key of both halves.
func (s *Store) SelectAll() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.universe))
	for id := range s.universe {
		ids = append(ids, id)
	}
	s.setSelection(NewSelection(ids...))
}

// ClearSelection empties the selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	s.setSelection(NewSelection())
}

// setSelection replaces the selection and releases s.mu. Observers are only
// told when the set of ids actually changed.
func (s *Store) setSelection(next Selection) {
	changed := !next.Equal(s.selection)
	s.selection = next
	s.mu.Unlock()

	if changed {
		s.notifier.notify(Change{Kind: ChangeSelection})
	}
}

// UpdateKey applies u to the key with id. Unknown ids are ignored.
func (s *Store) UpdateKey(id string, u Update) {
	changed := s.updateWhere(u, func(k layout.Key, _ Selection) bool { return k.ID == id })
	if len(changed) > 0 {
		s.notifier.notify(Change{Kind: ChangeKeys, IDs: changed})
	}
}

// UpdateSelectedKeys applies u to every selected key in one replacement.
func (s *Store) UpdateSelectedKeys(u Update) {
	changed := s.updateWhere(u, func(k layout.Key, sel Selection) bool { return sel.Has(k.ID) })
	if len(changed) > 0 {
		s.notifier.notify(Change{Kind: ChangeKeys, IDs: changed})
	}
}

// updateWhere replaces the config with a copy where every key matching
// pred has u applied. pred sees the selection held under the same lock.
// It returns the ids of the matched keys.
func (s *Store) updateWhere(u Update, pred func(layout.Key, Selection) bool) []string {
	if u.IsEmpty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []string
	mapKeys := func(keys []layout.Key) []layout.Key {
		out := make([]layout.Key, len(keys))
		for i, k := range keys {
			if pred(k, s.selection) {
				k = u.apply(k)
				changed = append(changed, k.ID)
			}
			out[i] = k
		}
		return out
	}

	next := KeyboardConfig{
		LeftKeys:   mapKeys(s.config.LeftKeys),
		RightKeys:  mapKeys(s.config.RightKeys),
		CableColor: s.config.CableColor,
	}
	if len(changed) > 0 {
		s.config = next
	}
	return changed
}

// UpdateCableColor replaces the cable color.
func (s *Store) UpdateCableColor(color string) {
	s.mu.Lock()
	next := s.config.clone()
	next.CableColor = color
	s.config = next
	s.mu.Unlock()

	s.notifier.notify(Change{Kind: ChangeCable})
}

// SelectedKeysConfig returns the full records of the selected keys in
// layout order.
func (s *Store) SelectedKeysConfig() []layout.Key {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []layout.Key
	for _, k := range s.config.Keys() {
		if s.selection.Has(k.ID) {
			out = append(out, k)
		}
	}
	return out
}

// AddCustomColor records color in the custom color history.
func (s *Store) AddCustomColor(color string) {
	s.mu.Lock()
	contained := s.palette.Contains(color)
	s.palette = s.palette.Add(color)
	s.mu.Unlock()

	if !contained {
		s.notifier.notify(Change{Kind: ChangePalette})
	}
}

// ResetToDefault rebuilds the config from the layout defaults and clears
// the selection. The custom color history is kept.
func (s *Store) ResetToDefault() {
	s.mu.Lock()
	s.config = DefaultConfig()
	s.selection = NewSelection()
	s.mu.Unlock()

	s.notifier.notify(Change{Kind: ChangeReset})
}
