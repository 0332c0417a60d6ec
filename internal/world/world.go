package world

import (
	"mad-sand/internal/core"
	"mad-sand/internal/material"
)

// World owns the chunk grid and the PRNG stream. All cell access goes through
// it so chunk activation is never missed.
type World struct {
	w, h   int
	cw, ch int
	chunks []Chunk
	dirty  []bool

	cat *material.Catalog
	rng *core.XorShift32

	tracer func(x, y, nx, ny int)
	moves  uint64
}

// New allocates an empty world. Every chunk starts inactive.
func New(width, height int, cat *material.Catalog, seed uint32) *World {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	cw := (width + ChunkSize - 1) / ChunkSize
	ch := (height + ChunkSize - 1) / ChunkSize
	return &World{
		w:      width,
		h:      height,
		cw:     cw,
		ch:     ch,
		chunks: make([]Chunk, cw*ch),
		dirty:  make([]bool, cw*ch),
		cat:    cat,
		rng:    core.NewXorShift32(seed),
	}
}

// Width returns the world width in cells.
func (w *World) Width() int { return w.w }

// Height returns the world height in cells.
func (w *World) Height() int { return w.h }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Catalog returns the material table the world was built with.
func (w *World) Catalog() *material.Catalog { return w.cat }

// ChunksX is the number of chunk columns.
func (w *World) ChunksX() int { return w.cw }

// ChunksY is the number of chunk rows.
func (w *World) ChunksY() int { return w.ch }

// Chunk returns the chunk at chunk coordinates, or nil if out of range.
func (w *World) Chunk(cx, cy int) *Chunk {
	if cx < 0 || cy < 0 || cx >= w.cw || cy >= w.ch {
		return nil
	}
	return &w.chunks[cy*w.cw+cx]
}

// InBounds reports whether (x, y) addresses a real cell.
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < w.w && y < w.h
}

func (w *World) ref(x, y int) *Cell {
	ci := (y>>chunkShift)*w.cw + x>>chunkShift
	return &w.chunks[ci].cells[localIndex(x&chunkMask, y&chunkMask)]
}

func (w *World) markDirty(x, y int) {
	w.dirty[(y>>chunkShift)*w.cw+x>>chunkShift] = true
}

// Material returns the material at (x, y). Coordinates outside the world
// read as material.Boundary.
func (w *World) Material(x, y int) material.ID {
	if !w.InBounds(x, y) {
		return material.Boundary
	}
	return w.ref(x, y).Material
}

// Def returns the definition of the material at (x, y).
func (w *World) Def(x, y int) *material.Def {
	d, ok := w.cat.Def(w.Material(x, y))
	if !ok {
		d, _ = w.cat.Def(material.Boundary)
	}
	return d
}

// Cell returns a copy of the cell at (x, y).
func (w *World) Cell(x, y int) (Cell, bool) {
	if !w.InBounds(x, y) {
		return Cell{Material: material.Boundary}, false
	}
	return *w.ref(x, y), true
}

// CellRef returns the cell at (x, y) for in-place edits of its contextual
// state, or nil outside the world. Changing Material through it bypasses
// activation; use SetMaterial for that.
func (w *World) CellRef(x, y int) *Cell {
	if !w.InBounds(x, y) {
		return nil
	}
	return w.ref(x, y)
}

// SetMaterial places a fresh cell of id at (x, y) and wakes every chunk whose
// boundary the cell touches. Out-of-range coordinates and ids unknown to the
// catalog are ignored.
func (w *World) SetMaterial(x, y int, id material.ID) {
	if !w.InBounds(x, y) || id == material.Boundary {
		return
	}
	def, ok := w.cat.Def(id)
	if !ok {
		return
	}
	*w.ref(x, y) = NewCell(def)
	if id != material.Empty {
		w.markDirty(x, y)
	}
	w.activateAround(x, y)
}

// RestoreCell writes a cell verbatim, e.g. when loading a snapshot. The
// updated bit is always cleared.
func (w *World) RestoreCell(x, y int, c Cell) {
	if !w.InBounds(x, y) {
		return
	}
	c.clearUpdated()
	*w.ref(x, y) = c
	if c.Material != material.Empty {
		w.markDirty(x, y)
	}
	w.activateAround(x, y)
}

// CanMoveTo reports whether the material at (x, y) may move into
// (nx, ny). Solids are never displaced; otherwise denser material sinks and
// lighter material rises. Equal densities never pass each other.
func (w *World) CanMoveTo(x, y, nx, ny int) bool {
	if !w.InBounds(x, y) || !w.InBounds(nx, ny) || (x == nx && y == ny) {
		return false
	}
	src := w.ref(x, y).Material
	if src == material.Empty {
		return false
	}
	dst := w.ref(nx, ny).Material
	if dst == material.Empty {
		return true
	}
	dd, ok := w.cat.Def(dst)
	if !ok || dd.State == material.StateSolid {
		return false
	}
	sd, ok := w.cat.Def(src)
	if !ok {
		return false
	}
	switch {
	case ny > y:
		return sd.Density > dd.Density
	case ny < y:
		return sd.Density < dd.Density
	}
	return false
}

// TryMove moves the cell at (x, y) to (nx, ny) if legal and if neither cell
// has already moved this tick. The destination is marked updated.
func (w *World) TryMove(x, y, nx, ny int) bool {
	if !w.CanMoveTo(x, y, nx, ny) {
		return false
	}
	if w.ref(x, y).Updated() || w.ref(nx, ny).Updated() {
		return false
	}
	w.Swap(x, y, nx, ny)
	w.ref(nx, ny).markUpdated()
	w.ActivateAt(nx, ny)
	w.moves++
	if w.tracer != nil {
		w.tracer(x, y, nx, ny)
	}
	return true
}

// Swap exchanges two cells wholesale: material, flags and velocity.
func (w *World) Swap(x1, y1, x2, y2 int) {
	if !w.InBounds(x1, y1) || !w.InBounds(x2, y2) {
		return
	}
	a, b := w.ref(x1, y1), w.ref(x2, y2)
	*a, *b = *b, *a
	w.markDirty(x1, y1)
	w.markDirty(x2, y2)
}

// ActivateChunk wakes the chunk at chunk coordinates; out of range is a no-op.
func (w *World) ActivateChunk(cx, cy int) {
	if c := w.Chunk(cx, cy); c != nil {
		c.Wake()
	}
}

// ActivateAt wakes the chunk containing (x, y).
func (w *World) ActivateAt(x, y int) {
	if !w.InBounds(x, y) {
		return
	}
	w.ActivateChunk(x>>chunkShift, y>>chunkShift)
}

func (w *World) activateAround(x, y int) {
	cx, cy := x>>chunkShift, y>>chunkShift
	lx, ly := x&chunkMask, y&chunkMask
	dx0, dx1, dy0, dy1 := 0, 0, 0, 0
	if lx == 0 {
		dx0 = -1
	}
	if lx == ChunkSize-1 {
		dx1 = 1
	}
	if ly == 0 {
		dy0 = -1
	}
	if ly == ChunkSize-1 {
		dy1 = 1
	}
	for dy := dy0; dy <= dy1; dy++ {
		for dx := dx0; dx <= dx1; dx++ {
			w.ActivateChunk(cx+dx, cy+dy)
		}
	}
}

// RestoreSchedule sets a chunk's scheduling state as saved by a snapshot.
// Out-of-range chunks are ignored.
func (w *World) RestoreSchedule(cx, cy int, active bool, sleep int) {
	if c := w.Chunk(cx, cy); c != nil {
		c.active = active
		c.sleep = max(sleep, 0)
	}
}

// ActivateAll wakes every chunk.
func (w *World) ActivateAll() {
	for i := range w.chunks {
		w.chunks[i].Wake()
	}
}

// ActiveChunks counts the chunks the scheduler will visit next tick.
func (w *World) ActiveChunks() int {
	n := 0
	for i := range w.chunks {
		if w.chunks[i].active {
			n++
		}
	}
	return n
}

// RandomInt draws the next value from the world's xorshift32 stream.
func (w *World) RandomInt() uint32 { return w.rng.Next() }

// Intn draws a value in [0, n).
func (w *World) Intn(n int) int { return w.rng.Intn(n) }

// RandomBool draws a fair coin.
func (w *World) RandomBool() bool { return w.rng.Next()&1 == 1 }

// Chance draws once and reports success with the given percent probability.
func (w *World) Chance(percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return w.rng.Intn(100) < percent
}

// ChancePermille is Chance with tenth-of-a-percent resolution.
func (w *World) ChancePermille(permille int) bool {
	if permille <= 0 {
		return false
	}
	if permille >= 1000 {
		return true
	}
	return w.rng.Intn(1000) < permille
}

// Seed resets the PRNG stream.
func (w *World) Seed(seed uint32) { w.rng.Seed(seed) }

// RNGState exposes the PRNG state so snapshots can resume the stream.
func (w *World) RNGState() uint32 { return w.rng.State() }

// ClearUpdatedFlags clears the updated bit on every cell of every active
// chunk. Inactive chunks had no movement and hold no updated bits.
func (w *World) ClearUpdatedFlags() {
	for i := range w.chunks {
		c := &w.chunks[i]
		if !c.active {
			continue
		}
		for j := range c.cells {
			c.cells[j].clearUpdated()
		}
	}
}

// Clear empties the world and deactivates every chunk. Only chunks that are
// active or have ever held material are touched.
func (w *World) Clear() {
	for i := range w.chunks {
		if !w.chunks[i].active && !w.dirty[i] {
			continue
		}
		w.chunks[i].reset()
		w.dirty[i] = false
	}
}

// Count returns how many cells hold id.
func (w *World) Count(id material.ID) int {
	n := 0
	w.Each(func(_, _ int, c Cell) {
		if c.Material == id {
			n++
		}
	})
	return n
}

// NonEmpty returns how many cells hold any material.
func (w *World) NonEmpty() int {
	return w.w*w.h - w.Count(material.Empty)
}

// Each visits every in-bounds cell in row-major order.
func (w *World) Each(fn func(x, y int, c Cell)) {
	for y := 0; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			fn(x, y, *w.ref(x, y))
		}
	}
}

// Moves is the running total of successful TryMove calls.
func (w *World) Moves() uint64 { return w.moves }

// SetMoveTracer installs a callback invoked after every successful TryMove.
// Pass nil to remove it.
func (w *World) SetMoveTracer(fn func(x, y, nx, ny int)) { w.tracer = fn }
