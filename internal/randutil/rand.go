package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	rand "math/rand/v2"
	"sync"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewRandom returns a *rand.Rand seeded from crypto/rand.
func NewRandom() *rand.Rand {
	return New(RandomSeed())
}

// RandomSeed reads a seed from crypto/rand.
func RandomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("randutil: reading random seed: " + err.Error())
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Source hands out independent generators, one per room or game. A Source
// built with a fixed seed produces the same sequence of generators, which
// makes whole server runs reproducible.
type Source struct {
	mu     sync.Mutex
	parent *rand.Rand
}

// NewSource creates a Source. A nil seed draws one from crypto/rand.
func NewSource(seed *int64) *Source {
	s := RandomSeed()
	if seed != nil {
		s = *seed
	}
	return &Source{parent: New(s)}
}

// Next returns a fresh generator derived from the parent sequence.
func (s *Source) Next() *rand.Rand {
	s.mu.Lock()
	seed := s.parent.Int64()
	s.mu.Unlock()
	return New(seed)
}

// Intn draws from the parent sequence; it lets a Source act as a room code
// RandSource.
func (s *Source) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parent.IntN(n)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
