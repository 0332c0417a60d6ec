package core

import (
	"testing"
	"time"
)

func TestFixedStepCapsCatchUp(t *testing.T) {
	clock := time.Unix(0, 0)
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return clock }
	fs.SetMaxCatchUp(3)

	// First call consumes the primed accumulator.
	if got := fs.Due(); got != 1 {
		t.Fatalf("first frame: got %d ticks, want 1", got)
	}

	clock = clock.Add(250 * time.Millisecond)
	if got := fs.Due(); got != 2 {
		t.Fatalf("after 250ms: got %d ticks, want 2", got)
	}

	clock = clock.Add(5 * time.Second)
	if got := fs.Due(); got != 3 {
		t.Fatalf("after a stall: got %d ticks, want cap of 3", got)
	}
	if got := fs.Due(); got != 0 {
		t.Fatalf("backlog should be dropped after a capped frame, got %d", got)
	}
}
