package sandbox

import (
	"fmt"

	"mad-sand/internal/snapshot"
)

// Snapshot captures the world together with the scheduler state, so a
// restored run steps exactly like the original.
func (s *Simulation) Snapshot() snapshot.SnapshotV1 {
	return snapshot.Capture(s.world, s.tick, s.leftToRight)
}

// Restore replaces the current state with snap.
func (s *Simulation) Restore(snap snapshot.SnapshotV1) error {
	if err := snapshot.Apply(s.world, snap); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	s.tick = snap.Header.Tick
	s.leftToRight = snap.LeftToRight
	s.stats = Stats{Tick: s.tick}
	return nil
}

// SaveSnapshot writes the current state to path.
func (s *Simulation) SaveSnapshot(path string) error {
	if err := snapshot.WriteFile(path, s.Snapshot()); err != nil {
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	return nil
}

// LoadSnapshot restores the state saved at path.
func (s *Simulation) LoadSnapshot(path string) error {
	snap, err := snapshot.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", path, err)
	}
	return s.Restore(snap)
}
