// Package idgen generates the synthetic identities of filter tree nodes.
package idgen

import (
	"fmt"
	"strconv"
	"sync/atomic"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is the URL-safe nanoid alphabet.
const Alphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Length is the number of generated characters.
const Length = 21

// Generator produces process-unique ids.
type Generator interface {
	NewID() (string, error)
}

// Nanoid generates random ids with nanoid.
type Nanoid struct {
	Alphabet string
	Length   int
}

// New returns a nanoid generator with the default alphabet and length.
func New() *Nanoid {
	return &Nanoid{Alphabet: Alphabet, Length: Length}
}

// NewID returns a fresh id.
func (g *Nanoid) NewID() (string, error) {
	id, err := nanoid.Generate(g.Alphabet, g.Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return id, nil
}

// Sequence generates deterministic ids: prefix followed by a counter.
type Sequence struct {
	prefix string
	n      atomic.Int64
}

// NewSequence creates a counter-based generator.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewID returns the next id in the sequence.
func (s *Sequence) NewID() (string, error) {
	return s.prefix + strconv.FormatInt(s.n.Add(1), 10), nil
}
