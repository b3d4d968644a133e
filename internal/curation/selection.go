package curation

import "slices"

// Selection is an ordered set of quote IDs. The zero value is empty and ready
// to use.
type Selection struct {
	ids []string
}

// NewSelection builds a selection from ids, dropping blanks and duplicates.
func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add appends id if absent and reports whether it was added.
func (s *Selection) Add(id string) bool {
	if id == "" || s.Contains(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove drops id and reports whether it was present.
func (s *Selection) Remove(id string) bool {
	idx := slices.Index(s.ids, id)
	if idx < 0 {
		return false
	}
	s.ids = slices.Delete(s.ids, idx, idx+1)
	return true
}

// Toggle flips membership of id and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	if s.Remove(id) {
		return false
	}
	return s.Add(id)
}

// SelectAll replaces the selection with ids in order.
func (s *Selection) SelectAll(ids []string) {
	s.Clear()
	for _, id := range ids {
		s.Add(id)
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

// IDs returns the selected ids in selection order. Never nil.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Retain drops ids not present in available and returns how many were
// dropped.
func (s *Selection) Retain(available []string) int {
	before := len(s.ids)
	s.ids = slices.DeleteFunc(s.ids, func(id string) bool {
		return !slices.Contains(available, id)
	})
	return before - len(s.ids)
}
