// Package selection holds the ordered frame selection an animation is
// exported from, and maps Aseprite tags and legacy frame lists onto it.
package selection

import (
	"github.com/sheetanim/sheetanim/spritegrid"
)

// Selection is an ordered list of grid positions. Order is playback order and
// the same cell may appear more than once.
type Selection struct {
	order []spritegrid.Position
	count map[spritegrid.Position]int
}

func New() *Selection {
	return &Selection{count: make(map[spritegrid.Position]int)}
}

// Add appends pos to the end of the selection.
func (s *Selection) Add(pos spritegrid.Position) {
	s.order = append(s.order, pos)
	s.count[pos]++
}

// Remove drops every occurrence of pos and reports whether any was present.
func (s *Selection) Remove(pos spritegrid.Position) bool {
	if s.count[pos] == 0 {
		return false
	}
	kept := s.order[:0]
	for _, p := range s.order {
		if p != pos {
			kept = append(kept, p)
		}
	}
	s.order = kept
	delete(s.count, pos)
	return true
}

// Toggle removes pos if it is selected and appends it otherwise. It returns
// whether pos is selected afterwards.
func (s *Selection) Toggle(pos spritegrid.Position) bool {
	if s.Remove(pos) {
		return false
	}
	s.Add(pos)
	return true
}

func (s *Selection) Contains(pos spritegrid.Position) bool { return s.count[pos] > 0 }

func (s *Selection) Len() int { return len(s.order) }

// Positions returns a copy of the selection in order.
func (s *Selection) Positions() []spritegrid.Position {
	out := make([]spritegrid.Position, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Selection) Clear() {
	s.order = s.order[:0]
	clear(s.count)
}

// SelectAll replaces the selection with every cell of g in row-major order.
func (s *Selection) SelectAll(g *spritegrid.Grid) {
	s.Clear()
	for _, c := range g.Cells() {
		s.Add(c.Position)
	}
}

// Prune drops positions that are no longer addressable in g, for instance
// after the grid was reconfigured. It returns how many entries were removed.
func (s *Selection) Prune(g *spritegrid.Grid) int {
	kept := s.order[:0]
	removed := 0
	for _, p := range s.order {
		if g.Contains(p.Row, p.Col) {
			kept = append(kept, p)
			continue
		}
		removed++
		if s.count[p]--; s.count[p] == 0 {
			delete(s.count, p)
		}
	}
	s.order = kept
	return removed
}
