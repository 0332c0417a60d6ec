package sound

import (
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"mad-sand/internal/material"
	"mad-sand/internal/sims/sandbox"
)

func TestPitchStaysOnTheScale(t *testing.T) {
	if got := Pitch(material.Empty); got != baseFreq {
		t.Fatalf("empty pitch %v, want %v", got, baseFreq)
	}
	seen := map[float64]bool{}
	for id := 0; id < toneSteps; id++ {
		f := Pitch(material.ID(id))
		if f < baseFreq || f >= 4*baseFreq {
			t.Fatalf("pitch %v for id %d outside two octaves", f, id)
		}
		if seen[f] {
			t.Fatalf("pitch %v repeated within one cycle", f)
		}
		seen[f] = true
	}
	if Pitch(material.ID(toneSteps)) != Pitch(material.Empty) {
		t.Fatal("scale should wrap")
	}
}

func TestObserveReactionRateLimits(t *testing.T) {
	p := New(Config{MinGap: 50 * time.Millisecond, Queue: 8})
	clock := time.Unix(0, 0)
	p.now = func() time.Time { return clock }

	r := sandbox.Reaction{A: 4, B: 10, OutA: 5, OutB: 2}
	p.ObserveReaction(r)
	clock = clock.Add(10 * time.Millisecond)
	p.ObserveReaction(r)
	clock = clock.Add(60 * time.Millisecond)
	p.ObserveReaction(r)

	if got := len(p.ch); got != 2 {
		t.Fatalf("queued %d tones, want 2", got)
	}
	if p.Skipped() != 1 {
		t.Fatalf("skipped %d, want 1", p.Skipped())
	}
}

func TestObserveReactionDropsWhenFull(t *testing.T) {
	p := New(Config{Queue: 1})
	p.cfg.MinGap = 0
	for i := 0; i < 5; i++ {
		p.ObserveReaction(sandbox.Reaction{OutA: material.ID(i)})
	}
	if len(p.ch) != 1 || p.Skipped() != 4 {
		t.Fatalf("queue=%d skipped=%d", len(p.ch), p.Skipped())
	}
}

func TestPlayerDrainsQueue(t *testing.T) {
	p := New(Config{Tone: 5 * time.Millisecond, Queue: 4})
	p.cfg.MinGap = 0

	var (
		mu      sync.Mutex
		samples int
	)
	p.start(func(s beep.Streamer) {
		buf := make([][2]float64, 512)
		for {
			n, ok := s.Stream(buf)
			mu.Lock()
			samples += n
			mu.Unlock()
			if !ok {
				return
			}
		}
	})
	p.ObserveReaction(sandbox.Reaction{OutA: 3})
	p.Close()
	p.ObserveReaction(sandbox.Reaction{OutA: 3})

	if p.Played() != 1 {
		t.Fatalf("played %d, want 1", p.Played())
	}
	mu.Lock()
	defer mu.Unlock()
	if want := sampleRate.N(5 * time.Millisecond); samples != want {
		t.Fatalf("tone length %d samples, want %d", samples, want)
	}
}
