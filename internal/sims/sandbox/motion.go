package sandbox

import "mad-sand/internal/material"

// gravity is +1 (down) for ordinary material and -1 for negative density.
func gravity(def *material.Def) int {
	if def.Density < 0 {
		return -1
	}
	return 1
}

// fall moves the cell along dir, accelerating one cell per tick up to
// MaxFallSpeed. The whole displacement is a single move so the cell is the
// source of at most one move per tick.
func (s *Simulation) fall(x, y, dir int) bool {
	w := s.world
	c := w.CellRef(x, y)
	v := int(c.Velocity())
	if v < 0 {
		v = -v
	}
	speed := min(v+1, max(s.cfg.Params.MaxFallSpeed, 1))

	// Only the adjacent cell may be displaced; further travel needs empty space.
	ty := y
	for i := 1; i <= speed; i++ {
		ny := y + dir*i
		if i > 1 && w.Material(x, ny) != material.Empty {
			break
		}
		if !w.CanMoveTo(x, y, x, ny) {
			break
		}
		ty = ny
		if w.Material(x, ny) != material.Empty {
			break
		}
	}
	if ty == y {
		c.SetVelocity(0)
		return false
	}
	c.SetVelocity(int8(ty - y))
	return w.TryMove(x, y, x, ty)
}

// slide tries both diagonals along dir, breaking ties with the PRNG.
func (s *Simulation) slide(x, y, dir int) bool {
	w := s.world
	left := w.CanMoveTo(x, y, x-1, y+dir)
	right := w.CanMoveTo(x, y, x+1, y+dir)
	switch {
	case left && right:
		if w.RandomBool() {
			return w.TryMove(x, y, x+1, y+dir)
		}
		return w.TryMove(x, y, x-1, y+dir)
	case left:
		return w.TryMove(x, y, x-1, y+dir)
	case right:
		return w.TryMove(x, y, x+1, y+dir)
	}
	return false
}

func (s *Simulation) movePowder(x, y int, def *material.Def) bool {
	dir := gravity(def)
	if s.fall(x, y, dir) {
		return true
	}
	return s.slide(x, y, dir)
}

func (s *Simulation) moveLiquid(x, y int, def *material.Def) bool {
	dir := gravity(def)
	if s.fall(x, y, dir) || s.slide(x, y, dir) {
		return true
	}
	return s.flow(x, y, dir, def)
}

// flow spreads a liquid sideways along its persisted flow direction,
// flipping it when that side is blocked. A liquid resting on another liquid
// levels out freely; one resting on anything else only moves toward a drop.
func (s *Simulation) flow(x, y, dir int, def *material.Def) bool {
	w := s.world
	c := w.CellRef(x, y)
	reach := max(def.Dispersion, 1)
	onLiquid := w.Catalog().State(w.Material(x, y+dir)) == material.StateLiquid

	right := c.FlowRight()
	for attempt := 0; attempt < 2; attempt++ {
		dx := -1
		if right {
			dx = 1
		}
		if tx, ok := s.flowTarget(x, y, dx, dir, reach, onLiquid); ok {
			c.SetFlowRight(right)
			return w.TryMove(x, y, tx, y)
		}
		right = !right
		c.SetFlowRight(right)
	}
	return false
}

func (s *Simulation) flowTarget(x, y, dx, dir, reach int, onLiquid bool) (int, bool) {
	w := s.world
	last := x
	for i := 1; i <= reach; i++ {
		nx := x + dx*i
		if !w.CanMoveTo(x, y, nx, y) {
			break
		}
		last = nx
		if w.CanMoveTo(x, y, nx, y+dir) {
			return nx, true
		}
	}
	if onLiquid && last != x {
		return last, true
	}
	return x, false
}

// moveGas rises (or sinks, for gases denser than the neutral baseline) one
// cell per tick, spilling diagonally and drifting sideways when blocked.
func (s *Simulation) moveGas(x, y int, def *material.Def) bool {
	w := s.world
	dir := -1
	if def.Density > s.cfg.Params.GasNeutralDensity {
		dir = 1
	}
	if w.TryMove(x, y, x, y+dir) {
		return true
	}
	if def.CondensesInto != material.Empty && w.ChancePermille(s.cfg.Params.CondenseChance) {
		w.SetMaterial(x, y, def.CondensesInto)
		return true
	}
	if s.slide(x, y, dir) {
		return true
	}

	dx := -1
	if w.RandomBool() {
		dx = 1
	}
	target := x
	for i := 1; i <= max(def.Dispersion, 1); i++ {
		if !w.CanMoveTo(x, y, x+dx*i, y) {
			break
		}
		target = x + dx*i
	}
	if target == x {
		return false
	}
	return w.TryMove(x, y, target, y)
}
