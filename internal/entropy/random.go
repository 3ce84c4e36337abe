// Package entropy provides the random sources behind stochastic decisions.
// Seeded sources make runs reproducible; the crypto source is the fallback
// when no seed is configured.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"sync"
)

// Source yields uniform floats in [0, 1).
type Source interface {
	Float() float64
}

// Seeded is a reproducible source backed by math/rand.
type Seeded struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeeded creates a reproducible source.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: mrand.New(mrand.NewSource(seed))}
}

// Float returns a random float64 in [0, 1).
func (s *Seeded) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Crypto draws from crypto/rand.
type Crypto struct{}

// Float returns a random float64 in [0, 1).
func (Crypto) Float() float64 {
	return cryptoRandFloat()
}

// Fixed always returns the same value. Useful for pinning decisions.
type Fixed float64

// Float returns the fixed value.
func (f Fixed) Float() float64 {
	return float64(f)
}

// Sequence replays values in order, then repeats the last one.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence creates a replaying source.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Float returns the next value in the sequence.
func (s *Sequence) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	if s.next >= len(s.values) {
		return s.values[len(s.values)-1]
	}
	v := s.values[s.next]
	s.next++
	return v
}

// FromSeed returns a seeded source, or crypto/rand when seed is zero.
func FromSeed(seed int64) Source {
	if seed == 0 {
		return Crypto{}
	}
	return NewSeeded(seed)
}

// cryptoRandFloat generates a random float64 using crypto/rand.
func cryptoRandFloat() float64 {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		// This should never happen but return 0.5 as a safe default.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}
