package emu

import (
	"math/rand/v2"
	"time"
)

// RandomSource provides bytes for the RND instruction.
type RandomSource interface {
	Byte() uint8
}

// PCGSource is a RandomSource backed by a PCG generator.
type PCGSource struct {
	rng *rand.Rand
}

// NewPCGSource creates a deterministic source for the given seed.
func NewPCGSource(seed uint64) *PCGSource {
	return &PCGSource{rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

// newClockSource seeds a PCG source from the wall clock.
func newClockSource() *PCGSource {
	return NewPCGSource(uint64(time.Now().UnixNano()))
}

// Byte returns the next random byte.
func (s *PCGSource) Byte() uint8 {
	return uint8(s.rng.Uint32())
}

// FixedSource always returns the same byte.
type FixedSource uint8

// Byte returns the fixed value.
func (s FixedSource) Byte() uint8 {
	return uint8(s)
}
