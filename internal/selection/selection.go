// Package selection tracks which questions a user has picked while browsing the bank.
//
// A Set keeps selection order so the ids can be handed straight to paper creation.
// It belongs to a single session and is not safe for concurrent use.
package selection

import (
	"strconv"
	"strings"
)

// Set is an ordered set of question ids.
type Set struct {
	order []int64
	index map[int64]struct{}
}

// New returns a set pre-populated with ids (duplicates collapse to their first position).
func New(ids ...int64) *Set {
	s := &Set{index: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *Set) ensure() {
	if s.index == nil {
		s.index = make(map[int64]struct{})
	}
}

// Add selects id and reports whether it was newly added.
func (s *Set) Add(id int64) bool {
	s.ensure()
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Remove deselects id and reports whether it was selected.
func (s *Set) Remove(id int64) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Toggle flips the selection of id and reports whether it is selected afterwards.
func (s *Set) Toggle(id int64) bool {
	if s.Remove(id) {
		return false
	}
	s.Add(id)
	return true
}

// SelectAll mirrors the "select all" control of a result page: when every visible id
// is already selected the selection is cleared, otherwise it becomes exactly the visible ids.
func (s *Set) SelectAll(visible []int64) {
	if s.Len() == len(visible) && s.ContainsAll(visible) {
		s.Clear()
		return
	}
	s.Clear()
	for _, id := range visible {
		s.Add(id)
	}
}

// Contains reports whether id is selected.
func (s *Set) Contains(id int64) bool {
	_, ok := s.index[id]
	return ok
}

// ContainsAll reports whether every id is selected.
func (s *Set) ContainsAll(ids []int64) bool {
	for _, id := range ids {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

// Len returns the number of selected ids.
func (s *Set) Len() int {
	return len(s.order)
}

// Clear deselects everything.
func (s *Set) Clear() {
	s.order = nil
	s.index = make(map[int64]struct{})
}

// IDs returns the selected ids in selection order.
func (s *Set) IDs() []int64 {
	return append([]int64{}, s.order...)
}

// ExcludeParam renders the selection as the comma-separated excludeIds query value,
// used to hide already-picked questions from further result pages.
func (s *Set) ExcludeParam() string {
	parts := make([]string, len(s.order))
	for i, id := range s.order {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
