package delta

import (
	"math/rand/v2"
	"time"
)

// Random draws randomized delays such as the initial FIND delay and the
// request-response delay.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a delay source. A zero seed seeds from the clock.
func NewRandom(seed uint64) *Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Random{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

// Between returns a uniformly drawn value in [lo, hi]. If hi <= lo it
// returns lo.
func (r *Random) Between(lo, hi Ticks) Ticks {
	if hi <= lo {
		return lo
	}
	return lo + Ticks(r.rng.Uint64N(uint64(hi-lo)+1))
}

// Repetition returns the delay before FIND repetition n (counting from 0):
// base doubled n times, saturating below Forever.
func Repetition(base Ticks, n uint8) Ticks {
	d := uint64(base)
	for i := uint8(0); i < n; i++ {
		d <<= 1
		if d >= uint64(Forever) {
			return Forever - 1
		}
	}
	return Ticks(d)
}

// RepetitionSequence returns the delays of a full repetition phase of max
// iterations.
func RepetitionSequence(base Ticks, max uint8) []Ticks {
	seq := make([]Ticks, 0, max)
	for n := uint8(0); n < max; n++ {
		seq = append(seq, Repetition(base, n))
	}
	return seq
}
