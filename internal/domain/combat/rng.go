package combat

// Deterministic per-round random stream.
//
// Every stochastic decision in round resolution draws from a stream seeded
// from (encounter base seed, round number), so a round's outcome is fully
// reproducible from persisted state. No process-wide randomness is used
// anywhere in this package.

const (
	fnvOffsetBasis uint64 = 0xcbf29ce484222325
	fnvPrime       uint64 = 0x100000001b3
)

// Stream is a counter-based pseudo-random stream. Each draw increments the
// counter and runs a multiply-xor-shift finalizer over (seed, counter).
type Stream struct {
	seed    uint64
	counter uint64
}

// NewRoundStream derives the stream for a given round of an encounter by
// folding the base seed and the round number through an FNV-1a hash.
func NewRoundStream(baseSeed uint64, round int) *Stream {
	h := fnvOffsetBasis
	h = fnvMix64(h, baseSeed)
	h = fnvMix64(h, uint64(round))
	return &Stream{seed: h}
}

// NewTaggedStream derives an auxiliary stream that must not correlate with
// the round's resolver draws (e.g. fallback flee destinations).
func NewTaggedStream(baseSeed uint64, round int, tag string) *Stream {
	h := fnvOffsetBasis
	h = fnvMix64(h, baseSeed)
	h = fnvMix64(h, uint64(round))
	for i := 0; i < len(tag); i++ {
		h ^= uint64(tag[i])
		h *= fnvPrime
	}
	return &Stream{seed: h}
}

func fnvMix64(h, v uint64) uint64 {
	for i := 0; i < 8; i++ {
		h ^= v & 0xff
		h *= fnvPrime
		v >>= 8
	}
	return h
}

func (s *Stream) next() uint32 {
	s.counter++
	x := s.seed + s.counter*0x9e3779b97f4a7c15
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return uint32(x >> 32)
}

// Float64 returns the next draw mapped to [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.next()) / (1 << 32)
}

// Intn returns the next draw mapped to [0, n). n must be > 0.
func (s *Stream) Intn(n int) int {
	return int(uint64(s.next()) * uint64(n) >> 32)
}
