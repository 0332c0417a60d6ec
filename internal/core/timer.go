package core

import "time"

// FixedStep paces simulation ticks independently of the display rate. Each
// frame it reports how many ticks are due, capped so a slow frame cannot
// trigger an unbounded catch-up burst.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	maxCatchUp  int
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{maxCatchUp: 4, now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// SetMaxCatchUp bounds the number of ticks Due may return for one frame.
func (f *FixedStep) SetMaxCatchUp(n int) {
	if n < 1 {
		n = 1
	}
	f.maxCatchUp = n
}

// Due advances the clock and returns how many ticks should run this frame.
func (f *FixedStep) Due() int {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now

	n := 0
	for f.accumulator >= f.step && n < f.maxCatchUp {
		f.accumulator -= f.step
		n++
	}
	if n == f.maxCatchUp && f.accumulator >= f.step {
		// Drop the backlog rather than spiral.
		f.accumulator = 0
	}
	return n
}

// ShouldStep reports whether at least one tick is due.
func (f *FixedStep) ShouldStep() bool {
	return f.Due() > 0
}
