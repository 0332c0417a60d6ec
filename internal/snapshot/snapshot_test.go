package snapshot

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"mad-sand/internal/material"
	"mad-sand/internal/world"
)

func testWorld(t *testing.T, w, h int) *world.World {
	t.Helper()
	cat, err := material.Default()
	if err != nil {
		t.Fatal(err)
	}
	return world.New(w, h, cat, 42)
}

func TestCaptureApplyRoundTrip(t *testing.T) {
	src := testWorld(t, 100, 70)
	sand, _ := src.Catalog().Lookup("sand")
	person, _ := src.Catalog().Lookup("person")
	src.SetMaterial(3, 4, sand)
	src.SetMaterial(99, 69, person)
	src.CellRef(99, 69).SetHealth(17)
	src.CellRef(99, 69).SetFacingRight(true)
	src.CellRef(3, 4).SetVelocity(-3)
	src.RandomInt()

	snap := Capture(src, 77, true)
	if len(snap.Chunks) != 2 {
		t.Fatalf("expected only occupied chunks, got %d", len(snap.Chunks))
	}

	var buf bytes.Buffer
	if err := Encode(&buf, snap); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Header != snap.Header || got.RNG != snap.RNG || !got.LeftToRight {
		t.Fatalf("header mismatch: %+v vs %+v", got.Header, snap.Header)
	}

	dst := testWorld(t, 100, 70)
	dst.SetMaterial(50, 50, sand)
	if err := Apply(dst, got); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if dst.Material(50, 50) != material.Empty {
		t.Fatal("apply must replace existing contents")
	}
	c, _ := dst.Cell(99, 69)
	if c.Material != person || c.Health() != 17 || !c.FacingRight() {
		t.Fatalf("agent state lost: %+v", c)
	}
	c, _ = dst.Cell(3, 4)
	if c.Material != sand || c.Velocity() != -3 {
		t.Fatalf("velocity lost: %+v", c)
	}
	if dst.RNGState() != src.RNGState() {
		t.Fatal("rng state not restored")
	}
	if dst.ActiveChunks() != dst.ChunksX()*dst.ChunksY() {
		t.Fatal("every chunk should be active after a load")
	}
}

func TestApplyRejectsMismatch(t *testing.T) {
	snap := Capture(testWorld(t, 64, 64), 1, false)
	if err := Apply(testWorld(t, 32, 64), snap); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected size mismatch, got %v", err)
	}

	snap.Header.CatalogDigest = "nope"
	if err := Apply(testWorld(t, 64, 64), snap); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected catalog mismatch, got %v", err)
	}

	snap = Capture(testWorld(t, 64, 64), 1, false)
	snap.Chunks = append(snap.Chunks, ChunkV1{CX: 0, CY: 0, Cells: []byte{1, 2}})
	if err := Apply(testWorld(t, 64, 64), snap); err == nil {
		t.Fatal("expected short chunk to be rejected")
	}
}

func TestWriteFileAndReadHeader(t *testing.T) {
	w := testWorld(t, 64, 64)
	path := filepath.Join(t.TempDir(), "nested", "world.snap")
	if err := WriteFile(path, Capture(w, 9, false)); err != nil {
		t.Fatalf("write: %v", err)
	}
	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if h.Tick != 9 || h.Width != 64 || h.Version != Version {
		t.Fatalf("unexpected header %+v", h)
	}
	if _, err := ReadFile(path); err != nil {
		t.Fatalf("read: %v", err)
	}
}
