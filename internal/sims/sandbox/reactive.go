package sandbox

import (
	"mad-sand/internal/material"
	"mad-sand/internal/world"
)

var cardinals = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// react applies the first catalog reaction that fires between the cell and a
// cardinal neighbour. It reports whether the cell itself changed material.
func (s *Simulation) react(x, y int) bool {
	w := s.world
	self := w.Material(x, y)
	if !s.cat.Reactive(self) {
		return false
	}
	for _, d := range cardinals {
		nx, ny := x+d[0], y+d[1]
		other := w.Material(nx, ny)
		r, ok := s.cat.Reaction(self, other)
		if !ok || !w.Chance(r.Chance) {
			continue
		}
		if r.OutB != other {
			w.SetMaterial(nx, ny, r.OutB)
		}
		if r.OutA != self {
			w.SetMaterial(x, y, r.OutA)
		}
		s.emit(self, other, r.OutA, r.OutB)
		return r.OutA != self
	}
	return false
}

// ignite sets flammable cardinal neighbours alight. It reports whether a
// blast replaced the igniting cell itself.
func (s *Simulation) ignite(x, y int) bool {
	w := s.world
	self := w.Material(x, y)
	for _, d := range cardinals {
		nx, ny := x+d[0], y+d[1]
		n := w.Def(nx, ny)
		if n.Flammability <= 0 || !w.Chance(n.Flammability) {
			continue
		}
		if n.BlastRadius > 0 {
			s.explode(nx, ny, n)
			s.emit(self, n.ID, w.Material(x, y), n.BurnsInto)
			if w.Material(x, y) != self {
				return true
			}
			continue
		}
		w.SetMaterial(nx, ny, n.BurnsInto)
		s.emit(self, n.ID, self, n.BurnsInto)
	}
	return false
}

// explode turns every non-solid cell within the blast radius into the
// explosive's burn product. Flammable solids burn too; everything else
// solid survives.
func (s *Simulation) explode(cx, cy int, def *material.Def) {
	w := s.world
	r := def.BlastRadius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			x, y := cx+dx, cy+dy
			if !w.InBounds(x, y) {
				continue
			}
			d := w.Def(x, y)
			if d.Indestructible || (d.State == material.StateSolid && d.Flammability == 0) {
				continue
			}
			w.SetMaterial(x, y, def.BurnsInto)
		}
	}
}

// decay counts a cell's lifetime down with the given percent chance per
// tick and replaces it with its residue at zero. It reports whether the
// cell was replaced.
func (s *Simulation) decay(x, y int, percent int) bool {
	w := s.world
	def := w.Def(x, y)
	if def.Lifetime == 0 {
		return false
	}
	c := w.CellRef(x, y)
	left := c.Lifetime()
	if left == 0 {
		w.SetMaterial(x, y, def.Residue)
		return true
	}
	if !w.Chance(percent) {
		return false
	}
	if left == 1 {
		w.SetMaterial(x, y, def.Residue)
		return true
	}
	c.SetLifetime(left - 1)
	return false
}

// corrode dissolves one corrodible neighbour, sometimes using up the acid.
// It reports whether the acid cell was consumed.
func (s *Simulation) corrode(x, y int) bool {
	w := s.world
	self := w.Material(x, y)
	for _, d := range [4][2]int{{0, 1}, {-1, 0}, {1, 0}, {0, -1}} {
		nx, ny := x+d[0], y+d[1]
		n := w.Def(nx, ny)
		if !n.Corrodible || n.Indestructible || n.ID == self {
			continue
		}
		if !w.Chance(s.cfg.Params.AcidChance) {
			continue
		}
		w.SetMaterial(nx, ny, material.Empty)
		consumed := w.RandomBool()
		out := self
		if consumed {
			out = material.Empty
			w.SetMaterial(x, y, material.Empty)
		}
		s.emit(self, n.ID, out, material.Empty)
		return consumed
	}
	return false
}

func (s *Simulation) hurt(c *world.Cell, dmg int) {
	h := int(c.Health()) - dmg
	if h < 0 {
		h = 0
	}
	c.SetHealth(uint8(h))
}
