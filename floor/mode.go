package floor

import "sort"

// Mode is the per-screen interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEdit
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeDelete:
		return "delete"
	}
	return "normal"
}

// Selection holds the current mode and the ids picked in delete mode.
// The zero value is a Normal selection with nothing picked.
type Selection struct {
	mode     Mode
	selected map[int64]struct{}
}

func (s *Selection) Mode() Mode { return s.mode }

// ToggleMode enters m, or returns to Normal when m is already active.
// Any change of mode clears the picked ids.
func (s *Selection) ToggleMode(m Mode) Mode {
	if s.mode == m || m == ModeNormal {
		s.Reset()
		return s.mode
	}
	s.mode = m
	s.selected = nil
	return s.mode
}

// Toggle adds id when absent and removes it when present. It reports whether
// id is selected afterwards.
func (s *Selection) Toggle(id int64) (bool, error) {
	if s.mode != ModeDelete {
		return false, precondition(ErrNotInDeleteMode)
	}
	if s.selected == nil {
		s.selected = make(map[int64]struct{})
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return false, nil
	}
	s.selected[id] = struct{}{}
	return true, nil
}

func (s *Selection) Selected(id int64) bool {
	_, ok := s.selected[id]
	return ok
}

// IDs returns the picked ids in ascending order.
func (s *Selection) IDs() []int64 {
	ids := make([]int64, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Reset leaves any mode and drops the picked ids.
func (s *Selection) Reset() {
	s.mode = ModeNormal
	s.selected = nil
}
