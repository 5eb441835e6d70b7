package sim

import "math/rand"

// Every random decision in a match traces back to Draw(seed, offset).
// Offsets partition the draw space per concern, minute and sub-index so
// no two decisions ever consume the same value. This is what makes a
// background-simulated result re-derivable for audit without replaying
// the whole match.

// Kind labels a draw concern. Each kind owns a disjoint offset range.
type Kind int64

const (
	KindStoppage Kind = iota + 1
	KindTurn
	KindPrimary
	KindGoal
	KindScorer
	KindAssist
	KindFoul
	KindCard
	KindPenaltyAward
	KindInjury
	KindUpgrade
	KindFatigue
	KindClash
	KindShout
	KindSub
	KindShootout
	KindFlavor
	KindRating
)

const (
	kindStride   = 1 << 40
	minuteStride = 1 << 16
)

// Offset maps (kind, minute, sub) to a unique draw offset.
func Offset(kind Kind, minute, sub int) int64 {
	return int64(kind)*kindStride + int64(minute)*minuteStride + int64(sub)
}

// Draw returns a reproducible value in [0,1) for a seed and offset.
// Pure and stateless: identical inputs always yield the identical value.
// The mix is splitmix64, which gives good avalanche behavior even for
// adjacent offsets.
func Draw(seed, offset int64) float64 {
	x := uint64(seed) ^ (uint64(offset)+1)*0x9E3779B97F4A7C15
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return float64(x>>11) / (1 << 53)
}

// Source is the single random primitive the probability models consume.
// The live engine feeds them offset-addressed draws, the background
// engine a seeded stream; the models cannot tell the difference.
type Source interface {
	Float64() float64
}

// OffsetSource yields successive Draw values for one (kind, minute)
// cell, bumping the sub-index on every call. The live engine creates a
// fresh one per concern per minute, which keeps Step pure.
type OffsetSource struct {
	seed   int64
	kind   Kind
	minute int
	sub    int
}

// At opens the draw cell for a concern at a given minute.
func At(seed int64, kind Kind, minute int) *OffsetSource {
	return &OffsetSource{seed: seed, kind: kind, minute: minute}
}

func (s *OffsetSource) Float64() float64 {
	v := Draw(s.seed, Offset(s.kind, s.minute, s.sub))
	s.sub++
	return v
}

// Stream adapts a seeded math/rand generator to Source for the
// background engine's whole-match pass.
type Stream struct {
	r *rand.Rand
}

// NewStream creates a deterministic stream from a seed.
func NewStream(seed int64) *Stream {
	return &Stream{r: rand.New(rand.NewSource(seed))}
}

func (s *Stream) Float64() float64 { return s.r.Float64() }

// Intn returns a value in [0,n). n must be positive.
func (s *Stream) Intn(n int) int { return s.r.Intn(n) }

// Clamp bounds p into [lo,hi]. All model probabilities pass through
// this before any draw; out-of-band values are a realism guard, not an
// error condition.
func Clamp(p, lo, hi float64) float64 {
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}
