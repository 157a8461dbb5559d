// Package rng provides deterministic pseudo-random streams derived from
// string seeds. The same seed yields the same sequence on every platform.
package rng

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf16"

	"github.com/google/uuid"
)

// Stream is a seeded generator of floats in [0,1). A Stream is not safe for
// concurrent use; derive a separate stream per independent sub-draw.
type Stream struct {
	seed  string
	state uint32
}

// New hashes seed into a 32-bit state and returns a fresh stream
func New(seed string) *Stream {
	return &Stream{seed: seed, state: hashSeed(seed)}
}

// Derive returns the sub-stream for base + "_" + discriminator. Sub-streams
// never consume draws from a parent stream.
func Derive(base string, discriminator interface{}) *Stream {
	return New(DeriveSeed(base, discriminator))
}

// DeriveSeed builds the seed string used by Derive
func DeriveSeed(base string, discriminator interface{}) string {
	switch d := discriminator.(type) {
	case int:
		return base + "_" + strconv.Itoa(d)
	case string:
		return base + "_" + d
	default:
		return fmt.Sprintf("%s_%v", base, d)
	}
}

// NewSeed returns a random seed for callers that did not supply one
func NewSeed() string {
	return uuid.New().String()
}

// Seed returns the seed string the stream was built from
func (s *Stream) Seed() string {
	return s.seed
}

// Float64 advances the stream and returns a value in [0,1)
func (s *Stream) Float64() float64 {
	s.state += 0x6D2B79F5
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296
}

// Intn returns an integer in [0,n). n <= 0 returns 0 without drawing.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Floor(s.Float64() * float64(n)))
}

// IntRange returns an integer in [lo,hi] inclusive
func (s *Stream) IntRange(lo, hi int) int {
	return int(math.Floor(s.Float64()*float64(hi-lo+1))) + lo
}

// Roll returns a die result in [1,size]
func (s *Stream) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("rng: die size must be positive, got %d", size)
	}
	return s.Intn(size) + 1, nil
}

// RollN rolls count dice of the given size
func (s *Stream) RollN(count, size int) ([]int, error) {
	if count < 0 {
		return nil, fmt.Errorf("rng: roll count must not be negative, got %d", count)
	}
	rolls := make([]int, count)
	for i := range rolls {
		r, err := s.Roll(size)
		if err != nil {
			return nil, err
		}
		rolls[i] = r
	}
	return rolls, nil
}

// hashSeed folds the seed's UTF-16 code units into one 32-bit value with a
// multiply-xor-rotate mix followed by a single output avalanche.
func hashSeed(seed string) uint32 {
	units := utf16.Encode([]rune(seed))
	h := uint32(1779033703) ^ uint32(len(units))
	for _, c := range units {
		h = (h ^ uint32(c)) * 3432918353
		h = h<<13 | h>>19
	}
	h = (h ^ (h >> 16)) * 2246822507
	h = (h ^ (h >> 13)) * 3266489909
	h ^= h >> 16
	return h
}
