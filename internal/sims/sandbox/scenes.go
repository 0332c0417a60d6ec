package sandbox

import (
	"fmt"
	"sort"
)

type scene func(s *Simulation)

var scenes = map[string]scene{
	"empty": func(*Simulation) {},
	"demo":  demoScene,
	"box":   boxScene,
}

// Scenes lists the names accepted by Config.Scene.
func Scenes() []string {
	names := make([]string, 0, len(scenes))
	for n := range scenes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Simulation) buildScene(name string) error {
	if name == "" {
		name = "empty"
	}
	build, ok := scenes[name]
	if !ok {
		return fmt.Errorf("unknown scene %q", name)
	}
	build(s)
	return nil
}

// fill sets a rectangle to the named material. Names missing from the
// catalog are skipped so scenes work with trimmed catalogs.
func (s *Simulation) fill(name string, x0, y0, x1, y1 int) {
	id, ok := s.cat.Lookup(name)
	if !ok {
		return
	}
	for y := max(y0, 0); y < min(y1, s.world.Height()); y++ {
		for x := max(x0, 0); x < min(x1, s.world.Width()); x++ {
			s.world.SetMaterial(x, y, id)
		}
	}
}

// boxScene walls in the world edge.
func boxScene(s *Simulation) {
	w, h := s.world.Width(), s.world.Height()
	s.fill("wall", 0, h-1, w, h)
	s.fill("wall", 0, 0, w, 1)
	s.fill("wall", 0, 0, 1, h)
	s.fill("wall", w-1, 0, w, h)
}

func demoScene(s *Simulation) {
	w, h := s.world.Width(), s.world.Height()
	floor := h - h/8

	s.fill("stone", 0, floor, w, h)

	// Basin on the left holding water with a sand heap above it.
	bx0, bx1 := w/16, w/16+w/4
	s.fill("stone", bx0, floor-h/6, bx0+2, floor)
	s.fill("stone", bx1-2, floor-h/6, bx1, floor)
	s.fill("water", bx0+2, floor-h/8, bx1-2, floor)
	s.fill("sand", bx0+w/16, h/8, bx0+w/16+w/10, h/8+h/10)

	// Wood pile with a spark on top.
	wx := w/2 - w/16
	s.fill("wood", wx, floor-h/10, wx+w/8, floor)
	s.fill("fire", wx+w/16, floor-h/10-1, wx+w/16+1, floor-h/10)

	// Lava pocket next to an oil slick.
	lx := w - w/4
	s.fill("stone", lx-2, floor-h/8, lx, floor)
	s.fill("lava", lx, floor-h/16, lx+w/16, floor)
	s.fill("oil", lx+w/16, floor-h/24, lx+w/8, floor)

	// A few people wandering the floor.
	for i := 0; i < 4; i++ {
		x := w/3 + i*w/24
		s.fill("person", x, floor-1, x+1, floor)
	}

	// Gunpowder cache and an ice block.
	gx := w/2 + w/8
	s.fill("gunpowder", gx, floor-h/20, gx+w/24, floor)
	s.fill("ice", gx-w/12, floor-h/16, gx-w/24, floor)
}
