package theme

import (
	"fmt"
	"slices"
	"sync"
)

// Registry holds the available themes in a stable order.
// Built-in themes come first, then file themes in load order. A file theme
// with the id of an existing theme replaces it in place.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	themes  map[string]Theme
	builtin map[string]Theme
	files   map[string]bool
}

// NewRegistry creates a registry preloaded with the built-in themes.
func NewRegistry() *Registry {
	r := &Registry{
		themes:  make(map[string]Theme),
		builtin: make(map[string]Theme),
		files:   make(map[string]bool),
	}
	for _, t := range Builtin() {
		r.builtin[t.ID] = t
		r.add(t)
	}
	return r
}

// Register adds or replaces a theme.
func (r *Registry) Register(t Theme) error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTheme)
	}
	if err := t.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(t)
	return nil
}

func (r *Registry) add(t Theme) {
	if _, ok := r.themes[t.ID]; !ok {
		r.order = append(r.order, t.ID)
	}
	r.themes[t.ID] = t
}

// remove unregisters a file theme. A file theme that shadowed a built-in
// gives way to the built-in again. Callers hold r.mu.
func (r *Registry) remove(id string) {
	delete(r.files, id)
	if b, ok := r.builtin[id]; ok {
		r.themes[id] = b
		return
	}
	if _, ok := r.themes[id]; !ok {
		return
	}
	delete(r.themes, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
}

// Get returns the theme with id.
func (r *Registry) Get(id string) (Theme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.themes[id]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %s", ErrThemeNotFound, id)
	}
	return t, nil
}

// IDs returns the registered theme ids in order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of registered themes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Next returns the id following id, wrapping around.
// An unknown id yields the first theme.
func (r *Registry) Next(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return ""
	}
	for i, cur := range r.order {
		if cur == id {
			return r.order[(i+1)%len(r.order)]
		}
	}
	return r.order[0]
}

// LoadDir syncs the registry with the theme files in dir: every valid file
// theme is registered and themes from files that are gone are removed.
// It returns the number of themes registered and any per-file errors.
func (r *Registry) LoadDir(dir string) (int, []error) {
	themes, errs := LoadDir(dir)
	valid := themes[:0:0]
	for _, t := range themes {
		if t.ID == "" {
			errs = append(errs, fmt.Errorf("%w: missing id", ErrInvalidTheme))
			continue
		}
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		valid = append(valid, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(valid))
	for _, t := range valid {
		seen[t.ID] = true
	}
	for id := range r.files {
		if !seen[id] {
			r.remove(id)
		}
	}
	for _, t := range valid {
		r.add(t)
		r.files[t.ID] = true
	}
	return len(valid), errs
}
