package world

import "mad-sand/internal/material"

const (
	// ChunkSize is the edge length of a chunk in cells.
	ChunkSize = 64
	// ChunkArea is the number of cells in a chunk.
	ChunkArea = ChunkSize * ChunkSize

	chunkShift = 6
	chunkMask  = ChunkSize - 1
)

// Chunk is a fixed 64x64 block of cells plus its scheduling state. Only the
// World and the scheduler change the scheduling fields.
type Chunk struct {
	cells  [ChunkArea]Cell
	active bool
	sleep  int
}

func localIndex(lx, ly int) int { return ly<<chunkShift | lx }

// Cell returns the cell at local coordinates (0..63, 0..63).
func (c *Chunk) Cell(lx, ly int) *Cell { return &c.cells[localIndex(lx, ly)] }

// Active reports whether the scheduler visits this chunk.
func (c *Chunk) Active() bool { return c.active }

// SleepCounter is the number of consecutive visited ticks without movement.
func (c *Chunk) SleepCounter() int { return c.sleep }

// Wake marks the chunk active and resets its sleep counter.
func (c *Chunk) Wake() {
	c.active = true
	c.sleep = 0
}

// Doze records a tick without movement. Once the counter reaches threshold
// the chunk goes inactive. It reports whether the chunk is still active.
func (c *Chunk) Doze(threshold int) bool {
	c.sleep++
	if c.sleep >= threshold {
		c.active = false
	}
	return c.active
}

// Materials copies the material of every cell into dst.
func (c *Chunk) Materials(dst *[ChunkArea]material.ID) {
	for i := range c.cells {
		dst[i] = c.cells[i].Material
	}
}

// Changed reports whether any cell's material differs from before.
func (c *Chunk) Changed(before *[ChunkArea]material.ID) bool {
	for i := range c.cells {
		if c.cells[i].Material != before[i] {
			return true
		}
	}
	return false
}

func (c *Chunk) reset() {
	c.cells = [ChunkArea]Cell{}
	c.active = false
	c.sleep = 0
}
