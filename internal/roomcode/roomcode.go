// Package roomcode generates and validates the short codes players type to
// join a room.
package roomcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Length of every room code
const Length = 6

// Alphabet holds the characters a code may contain
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandSource interface for dependency injection of randomness
type RandSource interface {
	Intn(n int) int
}

// Generator produces room codes from a RandSource
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a generator. A nil RandSource uses crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates a code using crypto/rand
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate returns a new code. Uniqueness is the caller's concern.
func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		b.WriteByte(Alphabet[g.intn(len(Alphabet))])
	}
	return b.String()
}

func (g *Generator) intn(n int) int {
	if g.randSource != nil {
		return g.randSource.Intn(n)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("failed to generate random room code: " + err.Error())
	}
	return int(v.Int64())
}

// Normalize trims whitespace and upper-cases user input
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks the code is Length characters from Alphabet
func Validate(code string) error {
	if len(code) != Length {
		return fmt.Errorf("room code must be exactly %d characters, got %d", Length, len(code))
	}
	for i, char := range code {
		if !strings.ContainsRune(Alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
