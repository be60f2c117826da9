// Package piece is a falling or reserved tetromino: a shape placed on the
// grid with a rotation. It knows nothing about the board it sits on.
package piece

import "github.com/KaiqueGovani/tetrion/internal/shape"

type Direction int

const (
	Clockwise Direction = iota
	CounterClockwise
)

func (d Direction) step() int {
	if d == CounterClockwise {
		return -1
	}
	return 1
}

type Piece struct {
	Shape    shape.Shape
	Pos      shape.Point
	Rotation int
	Active   bool
}

func Spawn(s shape.Shape, at shape.Point) Piece {
	p := Piece{Shape: s}
	p.Reset(at)
	return p
}

// Reset puts the piece back to its spawn orientation at the given position
// and reactivates it.
func (p *Piece) Reset(at shape.Point) {
	p.Pos = at
	p.Rotation = 0
	p.Active = true
}

func (p Piece) Cells() [4]shape.Point {
	cells := shape.Cells(p.Shape, p.Rotation)
	for i := range cells {
		cells[i] = cells[i].Add(p.Pos)
	}
	return cells
}

func (p *Piece) Translate(dx, dy int) {
	p.Pos.X += dx
	p.Pos.Y += dy
}

func (p *Piece) Rotate(d Direction) {
	p.Rotation = shape.Normalize(p.Rotation + d.step())
}

func (p *Piece) Deactivate() {
	p.Active = false
}

// Moved returns a translated copy, leaving p untouched.
func (p Piece) Moved(dx, dy int) Piece {
	p.Translate(dx, dy)
	return p
}

// Rotated returns a rotated copy, leaving p untouched.
func (p Piece) Rotated(d Direction) Piece {
	p.Rotate(d)
	return p
}
