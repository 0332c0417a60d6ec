package ui

import (
	"image"
	"testing"

	"mad-sand/internal/material"
	"mad-sand/internal/world"
)

func TestActiveChunkRectsClipToGrid(t *testing.T) {
	cat, err := material.Default()
	if err != nil {
		t.Fatal(err)
	}
	w := world.New(100, 70, cat, 1)
	w.Clear()
	w.ActivateChunk(1, 1)

	rects := ActiveChunkRects(w, 2)
	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1", len(rects))
	}
	want := image.Rect(128, 128, 200, 140)
	if rects[0].Rect != want {
		t.Fatalf("rect %v, want %v", rects[0].Rect, want)
	}
}

func TestHeatMaskGlowsAroundBurningCells(t *testing.T) {
	cat, err := material.Default()
	if err != nil {
		t.Fatal(err)
	}
	lava, _ := cat.Lookup("lava")
	sand, _ := cat.Lookup("sand")

	const width = 5
	cells := make([]uint8, width*4)
	cells[1*width+1] = uint8(lava)
	cells[3*width+4] = uint8(sand)
	mask := make([]float32, len(cells))
	mask[3*width+4] = 0.9

	HeatMask(cat, cells, width, mask)

	if mask[1*width+1] != 1 {
		t.Fatalf("lava cell %v, want 1", mask[1*width+1])
	}
	if mask[0] == 0 || mask[2*width+2] == 0 {
		t.Fatal("neighbours of lava should glow")
	}
	if mask[1*width+3] != 0 || mask[3*width+4] != 0 {
		t.Fatal("cells away from heat must be cleared")
	}
}

func TestSwatchLayout(t *testing.T) {
	const width = 120
	perRow := swatchesPerRow(width)
	if perRow < 2 {
		t.Fatalf("expected several swatches per row, got %d", perRow)
	}
	first := swatchRect(0, width)
	next := swatchRect(perRow, width)
	if next.Min.X != first.Min.X || next.Min.Y != first.Max.Y+swatchGap {
		t.Fatalf("row wrap misplaced: %v after %v", next, first)
	}
	if got := swatchRows(perRow+1, width); got != 2 {
		t.Fatalf("rows %d, want 2", got)
	}

	mid := swatchRect(3, width)
	if i, ok := swatchAt(mid.Min.X+1, mid.Min.Y+1, 10, width); !ok || i != 3 {
		t.Fatalf("hit test returned %d %v", i, ok)
	}
	if _, ok := swatchAt(first.Max.X, first.Min.Y+1, 10, width); ok {
		t.Fatal("gap between swatches should not hit")
	}
	if _, ok := swatchAt(0, 0, 10, width); ok {
		t.Fatal("header should not hit a swatch")
	}
}
