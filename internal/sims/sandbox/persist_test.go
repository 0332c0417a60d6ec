package sandbox

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"mad-sand/internal/snapshot"
)

func TestSnapshotResumesRun(t *testing.T) {
	orig := newDefaultSim(t, 128, 96, "demo")
	for i := 0; i < 50; i++ {
		orig.Step()
	}
	path := filepath.Join(t.TempDir(), "saves", "run.snap")
	if err := orig.SaveSnapshot(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := newDefaultSim(t, 128, 96, "empty")
	if err := restored.LoadSnapshot(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if restored.Tick() != orig.Tick() {
		t.Fatalf("tick %d, want %d", restored.Tick(), orig.Tick())
	}
	if !slices.Equal(orig.Cells(), restored.Cells()) {
		t.Fatal("restored grid differs")
	}

	for i := 0; i < 20; i++ {
		orig.Step()
		restored.Step()
	}
	if !slices.Equal(orig.Cells(), restored.Cells()) {
		t.Fatal("restored run diverged")
	}
}

func TestSnapshotKeepsSleepingChunksAsleep(t *testing.T) {
	orig := newTestSim(t, 128, 64, "empty")
	orig.World().SetMaterial(10, 63, tSand)
	for i := 0; i < SleepThreshold+5; i++ {
		orig.Step()
	}
	if orig.World().ActiveChunks() != 0 {
		t.Fatalf("setup: %d chunks still awake", orig.World().ActiveChunks())
	}
	path := filepath.Join(t.TempDir(), "asleep.snap")
	if err := orig.SaveSnapshot(path); err != nil {
		t.Fatal(err)
	}

	restored := newTestSim(t, 128, 64, "empty")
	if err := restored.LoadSnapshot(path); err != nil {
		t.Fatal(err)
	}
	if n := restored.World().ActiveChunks(); n != 0 {
		t.Fatalf("restored run woke %d chunks", n)
	}

	for _, s := range []*Simulation{orig, restored} {
		s.Paint(90, 40, 4, tSteam)
		for i := 0; i < 60; i++ {
			s.Step()
		}
	}
	if !slices.Equal(orig.Cells(), restored.Cells()) {
		t.Fatal("restored run diverged")
	}
	if orig.World().RNGState() != restored.World().RNGState() {
		t.Fatal("restored run drew a different random sequence")
	}
}

func TestSnapshotRejectsOtherCatalog(t *testing.T) {
	orig := newDefaultSim(t, 64, 64, "demo")
	other := newTestSim(t, 64, 64, "empty")
	err := other.Restore(orig.Snapshot())
	if !errors.Is(err, snapshot.ErrMismatch) {
		t.Fatalf("expected a mismatch error, got %v", err)
	}
}
