package store

import "sort"

// Selection is an immutable set of key ids.
// Every transition returns a new Selection; the receiver is never modified.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection creates a selection holding ids.
func NewSelection(ids ...string) Selection {
	s := Selection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s Selection) Len() int {
	return len(s.ids)
}

// IsEmpty returns true if nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.ids) == 0
}

// IDs returns the selected ids in sorted order.
func (s Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Toggle applies a click on id.
//
// Without multi the result is exactly {id}. With multi, id is added if absent
// and removed if present; every other id keeps its state.
func (s Selection) Toggle(id string, multi bool) Selection {
	if !multi {
		return NewSelection(id)
	}

	next := s.clone()
	if _, ok := next.ids[id]; ok {
		delete(next.ids, id)
	} else {
		next.ids[id] = struct{}{}
	}
	return next
}

// Equal reports whether both selections hold the same ids.
func (s Selection) Equal(other Selection) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for id := range s.ids {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

func (s Selection) clone() Selection {
	c := Selection{ids: make(map[string]struct{}, len(s.ids)+1)}
	for id := range s.ids {
		c.ids[id] = struct{}{}
	}
	return c
}
