package sandbox

import (
	"mad-sand/internal/material"
	"mad-sand/internal/world"
)

// AgentState is the behavior an agent cell is in this tick, derived from its
// health and surroundings.
type AgentState uint8

const (
	AgentFalling AgentState = iota
	AgentGrounded
	AgentSwimming
	AgentBurning
	AgentDead
)

func (a AgentState) String() string {
	switch a {
	case AgentFalling:
		return "falling"
	case AgentGrounded:
		return "grounded"
	case AgentSwimming:
		return "swimming"
	case AgentBurning:
		return "burning"
	case AgentDead:
		return "dead"
	}
	return "unknown"
}

// AgentStateAt classifies the agent at (x, y). Precedence: dead, burning,
// swimming, falling, grounded.
func (s *Simulation) AgentStateAt(x, y int) AgentState {
	w := s.world
	c, _ := w.Cell(x, y)
	if c.Health() == 0 {
		return AgentDead
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if (dx != 0 || dy != 0) && w.Def(x+dx, y+dy).Burning {
				return AgentBurning
			}
		}
	}
	for _, d := range cardinals {
		if s.cat.State(w.Material(x+d[0], y+d[1])) == material.StateLiquid {
			return AgentSwimming
		}
	}
	if w.CanMoveTo(x, y, x, y+1) {
		return AgentFalling
	}
	return AgentGrounded
}

func ruleAgent(s *Simulation, x, y int) {
	w := s.world
	c := w.CellRef(x, y)
	p := s.cfg.Params

	switch s.AgentStateAt(x, y) {
	case AgentDead:
		w.SetMaterial(x, y, w.Def(x, y).Residue)
	case AgentBurning:
		s.hurt(c, p.BurnDamage)
		if c.Health() == 0 {
			return
		}
		if !w.TryMove(x, y, x, y+1) {
			s.walk(x, y, c)
		}
	case AgentSwimming:
		submerged := s.cat.State(w.Material(x, y-1)) == material.StateLiquid
		if submerged {
			s.hurt(c, p.DrownDamage)
			if c.Health() == 0 {
				return
			}
			if w.TryMove(x, y, x, y-1) {
				return
			}
		}
		s.walk(x, y, c)
	case AgentFalling:
		w.TryMove(x, y, x, y+1)
	case AgentGrounded:
		s.breed(x, y, c)
		s.walk(x, y, c)
	}
}

// walk steps the agent along its facing, climbing one cell if needed, and
// turns it around when blocked. c must be the cell at (x, y).
func (s *Simulation) walk(x, y int, c *world.Cell) bool {
	w := s.world
	dx := -1
	if c.FacingRight() {
		dx = 1
	}
	if w.TryMove(x, y, x+dx, y) {
		return true
	}
	if w.Material(x, y-1) == material.Empty && w.TryMove(x, y, x+dx, y-1) {
		return true
	}
	c.SetFacingRight(!c.FacingRight())
	return false
}

// breed spawns a new agent above a grounded pair once the cooldown has run
// out. c must be the cell at (x, y).
func (s *Simulation) breed(x, y int, c *world.Cell) {
	w := s.world
	if cd := c.Cooldown(); cd > 0 {
		c.SetCooldown(cd - 1)
		return
	}
	self := c.Material
	if w.Material(x-1, y) != self && w.Material(x+1, y) != self {
		return
	}
	if w.Material(x, y-1) != material.Empty {
		return
	}
	if !w.ChancePermille(s.cfg.Params.ReproduceChance) {
		return
	}
	w.SetMaterial(x, y-1, self)
	c.SetCooldown(world.CounterMax)
	s.emit(self, self, self, self)
}
