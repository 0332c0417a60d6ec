package sandbox

import "mad-sand/internal/material"

// CanPlace reports whether the user may paint id. Erasing is always allowed.
func (s *Simulation) CanPlace(id material.ID) bool {
	if id == material.Empty {
		return true
	}
	def, ok := s.cat.Def(id)
	if !ok || id == material.Boundary || !def.Placeable {
		return false
	}
	if s.canPlace != nil && !s.canPlace(id) {
		return false
	}
	return true
}

// Paint fills a disc of the given radius centred on (cx, cy) with id. Only
// empty cells receive material; painting Empty erases. It returns the number
// of cells changed.
func (s *Simulation) Paint(cx, cy, radius int, id material.ID) int {
	if !s.CanPlace(id) {
		return 0
	}
	w := s.world
	radius = max(radius, 0)
	n := 0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			x, y := cx+dx, cy+dy
			if !w.InBounds(x, y) {
				continue
			}
			cur := w.Material(x, y)
			if id == material.Empty {
				if cur == material.Empty {
					continue
				}
				if def, ok := s.cat.Def(cur); ok && def.Indestructible {
					continue
				}
			} else if cur != material.Empty {
				continue
			}
			w.SetMaterial(x, y, id)
			n++
		}
	}
	return n
}

// Brushes lists the materials the user may paint, in catalog order.
func (s *Simulation) Brushes() []material.ID {
	var out []material.ID
	for _, d := range s.cat.Defs() {
		if d.ID != material.Empty && s.CanPlace(d.ID) {
			out = append(out, d.ID)
		}
	}
	return out
}
