package core

// defaultXorShiftSeed replaces a zero seed, which would lock xorshift at zero.
const defaultXorShiftSeed uint32 = 2463534242

// XorShift32 is a small deterministic PRNG. Given the same seed and the same
// call order it always produces the same stream. It is not cryptographic.
type XorShift32 struct {
	state uint32
}

// NewXorShift32 creates a generator seeded with seed.
func NewXorShift32(seed uint32) *XorShift32 {
	r := &XorShift32{}
	r.Seed(seed)
	return r
}

// Seed resets the stream.
func (r *XorShift32) Seed(seed uint32) {
	if seed == 0 {
		seed = defaultXorShiftSeed
	}
	r.state = seed
}

// State exposes the raw generator state for snapshots.
func (r *XorShift32) State() uint32 { return r.state }

// Next advances the stream and returns the next value.
func (r *XorShift32) Next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Intn returns a value in [0, n). n <= 0 returns 0 without advancing.
func (r *XorShift32) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint32(n))
}

// SeedFrom folds a 64-bit seed into the 32-bit state space.
func SeedFrom(seed int64) uint32 {
	return uint32(seed) ^ uint32(uint64(seed)>>32)
}
