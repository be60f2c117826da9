// Package shape holds the fixed tetromino catalog: cell offsets for every
// rotation state and the color id each shape is drawn with.
package shape

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownShape = errors.New("unknown shape")

type Point struct {
	X int
	Y int
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

type Shape int

const (
	I Shape = iota
	O
	T
	S
	Z
	J
	L
)

// Count is the number of distinct shapes.
const Count = 7

// Rotations is the number of rotation states per shape.
const Rotations = 4

var All = [Count]Shape{I, O, T, S, Z, J, L}

var names = [Count]string{"I", "O", "T", "S", "Z", "J", "L"}

// Tile-sheet order of the piece artwork.
var colors = [Count]int{
	I: 5,
	O: 4,
	T: 1,
	S: 3,
	Z: 2,
	J: 0,
	L: 6,
}

func (s Shape) Valid() bool {
	return s >= 0 && s < Count
}

func (s Shape) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return names[s]
}

func (s Shape) Color() int {
	return colors[s]
}

func Parse(name string) (Shape, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// Cells returns the occupied offsets of s inside its 4x4 box for the given
// rotation. Rotation is taken modulo 4.
func Cells(s Shape, rotation int) [4]Point {
	return rotations[s][Normalize(rotation)]
}

func Normalize(rotation int) int {
	return ((rotation % Rotations) + Rotations) % Rotations
}

var rotations = [Count][Rotations][4]Point{
	I: {
		{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		{{2, 0}, {2, 1}, {2, 2}, {2, 3}},
		{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
		{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
	},
	O: {
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
	},
	T: {
		{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {1, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	S: {
		{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 1}, {2, 1}, {0, 2}, {1, 2}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	Z: {
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{2, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {1, 2}, {2, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
	},
	J: {
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 0}, {1, 1}, {0, 2}, {1, 2}},
	},
	L: {
		{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {0, 2}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
}
