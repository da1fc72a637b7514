// Package selection tracks the single selected body.
package selection

// State holds at most one selected body id. Every change bumps the generation so
// that asynchronous work started for an older selection can be recognised as stale.
type State struct {
	id         string
	generation uint64
}

// Select replaces the current selection and returns the new generation.
func (s *State) Select(id string) uint64 {
	s.id = id
	s.generation++
	return s.generation
}

// Clear removes the selection.
func (s *State) Clear() {
	if s.id == "" {
		return
	}
	s.id = ""
	s.generation++
}

// Selected returns the selected id, if any.
func (s *State) Selected() (string, bool) {
	return s.id, s.id != ""
}

// Is reports whether id is the selected body.
func (s *State) Is(id string) bool {
	return s.id != "" && s.id == id
}

// Generation returns the current generation.
func (s *State) Generation() uint64 {
	return s.generation
}

// IsCurrent reports whether gen still identifies the active selection.
func (s *State) IsCurrent(gen uint64) bool {
	return s.id != "" && gen == s.generation
}
