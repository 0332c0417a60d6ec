package world

import (
	"testing"

	"mad-sand/internal/material"
)

type ids struct {
	sand, water, steam, stone, smoke, person material.ID
}

func testWorld(t *testing.T, w, h int) (*World, ids) {
	t.Helper()
	cat, err := material.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	lookup := func(name string) material.ID {
		id, ok := cat.Lookup(name)
		if !ok {
			t.Fatalf("material %q missing", name)
		}
		return id
	}
	return New(w, h, cat, 7), ids{
		sand:   lookup("sand"),
		water:  lookup("water"),
		steam:  lookup("steam"),
		stone:  lookup("stone"),
		smoke:  lookup("smoke"),
		person: lookup("person"),
	}
}

func TestChunkGridDimensions(t *testing.T) {
	w, _ := testWorld(t, 130, 64)
	if w.ChunksX() != 3 || w.ChunksY() != 1 {
		t.Fatalf("got %dx%d chunks, want 3x1", w.ChunksX(), w.ChunksY())
	}
	if w.Chunk(3, 0) != nil || w.Chunk(0, -1) != nil {
		t.Fatal("out of range chunk lookups must return nil")
	}
}

func TestOutOfBoundsReadsAsBoundary(t *testing.T) {
	w, m := testWorld(t, 8, 8)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}} {
		if got := w.Material(p[0], p[1]); got != material.Boundary {
			t.Fatalf("Material(%d,%d) = %d, want boundary", p[0], p[1], got)
		}
	}
	w.SetMaterial(-1, 3, m.sand)
	w.SetMaterial(8, 3, m.sand)
	if w.NonEmpty() != 0 {
		t.Fatal("out of range writes must be ignored")
	}
}

func TestTryMoveOutOfBoundsIsRefused(t *testing.T) {
	w, m := testWorld(t, 4, 4)
	w.SetMaterial(0, 3, m.sand)
	before := *w.CellRef(0, 3)
	for _, p := range [][2]int{{-1, 3}, {0, 4}, {-1, 4}} {
		if w.TryMove(0, 3, p[0], p[1]) {
			t.Fatalf("move to (%d,%d) should fail", p[0], p[1])
		}
	}
	if *w.CellRef(0, 3) != before {
		t.Fatal("refused move mutated the source")
	}
}

func TestCanMoveToDensityRules(t *testing.T) {
	w, m := testWorld(t, 4, 4)
	w.SetMaterial(1, 1, m.sand)
	w.SetMaterial(1, 2, m.water)
	w.SetMaterial(2, 1, m.stone)
	w.SetMaterial(0, 1, m.water)

	if !w.CanMoveTo(1, 1, 1, 0) {
		t.Fatal("any material may enter empty space")
	}
	if !w.CanMoveTo(1, 1, 1, 2) {
		t.Fatal("sand should sink into water")
	}
	w.SetMaterial(1, 0, m.water)
	if w.CanMoveTo(1, 1, 1, 0) {
		t.Fatal("sand must not rise into lighter water")
	}
	if w.CanMoveTo(1, 0, 1, 1) {
		t.Fatal("water must not sink into denser sand")
	}
	if w.CanMoveTo(1, 1, 2, 1) {
		t.Fatal("solids are never displaced")
	}
	if w.CanMoveTo(1, 1, 0, 1) {
		t.Fatal("sideways moves only enter empty cells")
	}

	w.SetMaterial(3, 3, m.water)
	w.SetMaterial(3, 2, m.water)
	if w.CanMoveTo(3, 2, 3, 3) {
		t.Fatal("equal densities never pass each other")
	}

	w.SetMaterial(0, 3, m.steam)
	w.SetMaterial(0, 2, m.water)
	if !w.CanMoveTo(0, 3, 0, 2) {
		t.Fatal("steam should rise through water")
	}
}

func TestTryMoveMarksDestinationOnce(t *testing.T) {
	w, m := testWorld(t, 4, 4)
	w.SetMaterial(1, 0, m.sand)
	if !w.TryMove(1, 0, 1, 1) {
		t.Fatal("expected sand to move")
	}
	c, _ := w.Cell(1, 1)
	if c.Material != m.sand || !c.Updated() {
		t.Fatalf("destination should hold updated sand, got %+v", c)
	}
	if w.TryMove(1, 1, 1, 2) {
		t.Fatal("a cell that already moved this tick must not move again")
	}
	w.ClearUpdatedFlags()
	if !w.TryMove(1, 1, 1, 2) {
		t.Fatal("after clearing flags the cell may move again")
	}
}

func TestTryMoveRefusesMovedDestination(t *testing.T) {
	w, m := testWorld(t, 4, 4)
	w.SetMaterial(1, 2, m.steam)
	w.SetMaterial(1, 0, m.water)
	if !w.TryMove(1, 2, 1, 1) {
		t.Fatal("expected steam to rise")
	}
	if w.TryMove(1, 0, 1, 1) {
		t.Fatal("water must not displace steam that already moved this tick")
	}
	if got := w.Material(1, 1); got != m.steam {
		t.Fatalf("(1,1) holds %d, want steam", got)
	}
	w.ClearUpdatedFlags()
	if !w.TryMove(1, 0, 1, 1) {
		t.Fatal("after clearing flags water may sink through steam")
	}
}

func TestSwapCarriesContextualState(t *testing.T) {
	w, m := testWorld(t, 4, 4)
	w.SetMaterial(0, 0, m.smoke)
	w.SetMaterial(1, 0, m.water)
	w.CellRef(0, 0).SetLifetime(9)
	w.CellRef(1, 0).SetFlowRight(true)
	w.CellRef(1, 0).SetVelocity(3)

	w.Swap(0, 0, 1, 0)

	a, _ := w.Cell(0, 0)
	b, _ := w.Cell(1, 0)
	if a.Material != m.water || !a.FlowRight() || a.Velocity() != 3 {
		t.Fatalf("water state lost in swap: %+v", a)
	}
	if b.Material != m.smoke || b.Lifetime() != 9 {
		t.Fatalf("smoke state lost in swap: %+v", b)
	}
}

func TestSetMaterialResetsContextualState(t *testing.T) {
	w, m := testWorld(t, 4, 4)
	w.SetMaterial(2, 2, m.smoke)
	c := w.CellRef(2, 2)
	c.SetLifetime(3)
	c.SetVelocity(-4)

	w.SetMaterial(2, 2, m.water)
	got, _ := w.Cell(2, 2)
	if got.Flags != 0 || got.VelY != 0 {
		t.Fatalf("stale state survived placement: %+v", got)
	}

	w.SetMaterial(2, 2, m.person)
	got, _ = w.Cell(2, 2)
	if got.Health() == 0 || got.Cooldown() == 0 {
		t.Fatalf("agent should be seeded with health and cooldown: %+v", got)
	}
}

func TestSetMaterialWakesTouchedChunks(t *testing.T) {
	w, m := testWorld(t, 192, 192)
	w.SetMaterial(70, 70, m.sand)
	if !w.Chunk(1, 1).Active() {
		t.Fatal("containing chunk must wake")
	}
	if w.ActiveChunks() != 1 {
		t.Fatalf("interior edit woke %d chunks, want 1", w.ActiveChunks())
	}

	w.Clear()
	w.SetMaterial(64, 127, m.sand)
	for _, p := range [][2]int{{1, 1}, {0, 1}, {1, 2}, {0, 2}} {
		if !w.Chunk(p[0], p[1]).Active() {
			t.Fatalf("corner edit should wake chunk %v", p)
		}
	}
	if w.Chunk(2, 1).Active() {
		t.Fatal("chunk not touched by the edit must stay asleep")
	}
}

func TestChunkDozeThreshold(t *testing.T) {
	var c Chunk
	c.Wake()
	for i := 1; i < 120; i++ {
		if !c.Doze(120) {
			t.Fatalf("chunk slept early after %d ticks", i)
		}
	}
	if c.Doze(120) {
		t.Fatal("chunk should sleep on the 120th idle tick")
	}
	c.Wake()
	if !c.Active() || c.SleepCounter() != 0 {
		t.Fatal("wake must reset the counter")
	}
}

func TestClearEmptiesSleepingMaterial(t *testing.T) {
	w, m := testWorld(t, 128, 128)
	w.SetMaterial(10, 10, m.sand)
	w.SetMaterial(100, 100, m.stone)
	w.Chunk(0, 0).Doze(1)
	if w.Chunk(0, 0).Active() {
		t.Fatal("setup: chunk should be asleep")
	}

	w.Clear()
	if w.NonEmpty() != 0 {
		t.Fatalf("clear left %d cells", w.NonEmpty())
	}
	if w.ActiveChunks() != 0 {
		t.Fatal("clear must deactivate every chunk")
	}
}

func TestClearUpdatedFlagsOnActiveChunks(t *testing.T) {
	w, m := testWorld(t, 128, 64)
	w.SetMaterial(1, 0, m.sand)
	w.TryMove(1, 0, 1, 1)
	w.ClearUpdatedFlags()
	if c, _ := w.Cell(1, 1); c.Updated() {
		t.Fatal("active chunk flags must clear")
	}
}

func TestMoveTracerSeesSuccessfulMoves(t *testing.T) {
	w, m := testWorld(t, 4, 4)
	var moves [][4]int
	w.SetMoveTracer(func(x, y, nx, ny int) { moves = append(moves, [4]int{x, y, nx, ny}) })
	w.SetMaterial(0, 0, m.sand)
	w.TryMove(0, 0, 0, 1)
	w.TryMove(0, 1, -1, 1)
	if len(moves) != 1 || moves[0] != [4]int{0, 0, 0, 1} {
		t.Fatalf("tracer saw %v", moves)
	}
}
