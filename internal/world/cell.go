package world

import "mad-sand/internal/material"

// Flag layout. Bit 1 and bits 2-7 are shared between material categories:
// only the accessors for the occupying material's category may be used.
const (
	flagUpdated   uint8 = 1 << 0
	flagDirection uint8 = 1 << 1

	counterShift       = 2
	counterMask  uint8 = 0x3f << counterShift

	// CounterMax is the largest value the 6-bit counter can hold.
	CounterMax = 63
	// HealthMax is the largest packed agent health.
	HealthMax = 127
)

// Cell is the smallest mutable unit of the world.
type Cell struct {
	Material material.ID
	Flags    uint8
	VelY     int8
}

// NewCell returns a freshly placed cell of def: all contextual state zeroed,
// then seeded with the def's initial counter and health.
func NewCell(def *material.Def) Cell {
	c := Cell{Material: def.ID}
	if def.Lifetime > 0 {
		c.setCounter(def.Lifetime)
	}
	if def.Health > 0 {
		c.SetHealth(def.Health)
	}
	return c
}

// Updated reports whether the cell already moved this tick.
func (c Cell) Updated() bool { return c.Flags&flagUpdated != 0 }

func (c *Cell) markUpdated()  { c.Flags |= flagUpdated }
func (c *Cell) clearUpdated() { c.Flags &^= flagUpdated }

func (c Cell) direction() bool { return c.Flags&flagDirection != 0 }

func (c *Cell) setDirection(right bool) {
	if right {
		c.Flags |= flagDirection
		return
	}
	c.Flags &^= flagDirection
}

func (c Cell) counter() uint8 { return (c.Flags & counterMask) >> counterShift }

func (c *Cell) setCounter(v uint8) {
	if v > CounterMax {
		v = CounterMax
	}
	c.Flags = (c.Flags &^ counterMask) | v<<counterShift
}

// Liquids.

// FlowRight reports a liquid's persisted horizontal flow direction.
func (c Cell) FlowRight() bool { return c.direction() }

// SetFlowRight stores a liquid's horizontal flow direction.
func (c *Cell) SetFlowRight(right bool) { c.setDirection(right) }

// Decaying materials.

// Lifetime returns the remaining ticks of a decaying material.
func (c Cell) Lifetime() uint8 { return c.counter() }

// SetLifetime stores the remaining lifetime, clamped to CounterMax.
func (c *Cell) SetLifetime(v uint8) { c.setCounter(v) }

// Movers.

// Velocity is the signed vertical speed of falling or rising material.
func (c Cell) Velocity() int8 { return c.VelY }

// SetVelocity stores the vertical speed.
func (c *Cell) SetVelocity(v int8) { c.VelY = v }

// Agents.

// FacingRight reports which way an agent walks.
func (c Cell) FacingRight() bool { return c.direction() }

// SetFacingRight stores an agent's facing.
func (c *Cell) SetFacingRight(right bool) { c.setDirection(right) }

// Cooldown returns the ticks until an agent may reproduce again.
func (c Cell) Cooldown() uint8 { return c.counter() }

// SetCooldown stores the reproduction cooldown, clamped to CounterMax.
func (c *Cell) SetCooldown(v uint8) { c.setCounter(v) }

// Health returns an agent's packed health.
func (c Cell) Health() uint8 {
	if c.VelY < 0 {
		return 0
	}
	return uint8(c.VelY)
}

// SetHealth stores an agent's health, clamped to 0..HealthMax.
func (c *Cell) SetHealth(v uint8) {
	if v > HealthMax {
		v = HealthMax
	}
	c.VelY = int8(v)
}
