package capability

import (
	"crypto/rand"
	"encoding/binary"
)

// RNG supplies randomness needed by the core (nonce jitter for retry
// backoff, opening nonces). Abstracted so tests can inject fixed values.
type RNG interface {
	// Uint64 returns a uniformly random 64-bit value.
	Uint64() uint64
	// Float64 returns a uniformly random value in [0, 1).
	Float64() float64
}

// SystemRNG is the production RNG backed by crypto/rand.
type SystemRNG struct{}

// Uint64 returns a cryptographically random 64-bit value.
func (SystemRNG) Uint64() uint64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return binary.BigEndian.Uint64(b[:])
}

// Float64 returns a cryptographically random value in [0, 1), using the
// top 53 bits of a random 64-bit value as the mantissa.
func (s SystemRNG) Float64() float64 {
	n := s.Uint64() >> 11
	return float64(n) / float64(uint64(1)<<53)
}

// FixedRNG is a test double that always returns the same values.
type FixedRNG struct {
	U64 uint64
	F64 float64
}

// Uint64 returns the fixed value.
func (f FixedRNG) Uint64() uint64 { return f.U64 }

// Float64 returns the fixed value.
func (f FixedRNG) Float64() float64 { return f.F64 }
