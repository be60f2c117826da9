package shape

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

var ErrUnknownGenerator = errors.New("unknown generator")

const (
	GeneratorUniform = "uniform"
	GeneratorBag     = "bag"
)

// Generator draws the shape of each newly spawned piece.
type Generator interface {
	Next() Shape
}

func NewGenerator(kind string, seed uint64) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", GeneratorUniform:
		return NewUniform(seed), nil
	case GeneratorBag:
		return NewBag(seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, kind)
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type Uniform struct {
	rng *rand.Rand
}

func NewUniform(seed uint64) *Uniform {
	return &Uniform{rng: newRand(seed)}
}

func (u *Uniform) Next() Shape {
	return Shape(u.rng.IntN(Count))
}

// Bag deals every shape once, in shuffled order, before refilling.
type Bag struct {
	rng *rand.Rand
	bag []Shape
}

func NewBag(seed uint64) *Bag {
	return &Bag{rng: newRand(seed)}
}

func (b *Bag) Next() Shape {
	if len(b.bag) == 0 {
		b.refill()
	}
	s := b.bag[0]
	b.bag = b.bag[1:]
	return s
}

func (b *Bag) refill() {
	bag := All
	b.rng.Shuffle(len(bag), func(i, j int) {
		bag[i], bag[j] = bag[j], bag[i]
	})
	b.bag = bag[:]
}

// Sequence cycles through a fixed list of shapes.
type Sequence struct {
	shapes []Shape
	cursor int
}

func NewSequence(shapes ...Shape) *Sequence {
	if len(shapes) == 0 {
		shapes = All[:]
	}
	return &Sequence{shapes: append([]Shape(nil), shapes...)}
}

func (s *Sequence) Next() Shape {
	next := s.shapes[s.cursor]
	s.cursor = (s.cursor + 1) % len(s.shapes)
	return next
}
