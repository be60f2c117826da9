// Package board is the playfield state machine: it validates and commits
// moves, rotations and holds, runs gravity on every tick, locks landed
// pieces, clears full rows and keeps score.
//
// Every exported operation either applies completely or not at all, and
// illegal input is rejected silently. Once the game is over all mutating
// operations are no-ops.
package board

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/kamstrup/intmap"

	"github.com/KaiqueGovani/tetrion/internal/gravity"
	"github.com/KaiqueGovani/tetrion/internal/piece"
	"github.com/KaiqueGovani/tetrion/internal/shape"
)

type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Direction is a unit step along an axis. Positive is right on the
// horizontal axis and down on the vertical one.
type Direction int

const (
	Negative Direction = -1
	Positive Direction = 1
)

type Cell struct {
	Pos   shape.Point
	Shape shape.Shape
}

func (c Cell) Color() int {
	return c.Shape.Color()
}

type TickResult struct {
	Moved       bool
	Locked      bool
	Cleared     int
	ClearedRows []int
	Points      int
	LevelUp     bool
	GameOver    bool
}

type Board struct {
	cfg     Config
	gen     shape.Generator
	gravity *gravity.Scheduler
	locked  *intmap.Map[int, shape.Shape]

	current  piece.Piece
	next     piece.Piece
	held     piece.Piece
	hasHeld  bool
	holdUsed bool

	score       int
	level       int
	lines       int
	ticks       int
	accumulator int
	over        bool
}

func New(cfg Config) (*Board, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	gen := cfg.Generator
	if gen == nil {
		gen = shape.NewUniform(uint64(time.Now().UnixNano()))
	}
	b := &Board{
		cfg:     cfg,
		gen:     gen,
		gravity: gravity.New(cfg.Gravity),
		locked:  intmap.New[int, shape.Shape](cfg.Width * cfg.Height),
		level:   1,
	}
	b.current = piece.Spawn(gen.Next(), cfg.Spawn)
	b.next = piece.Spawn(gen.Next(), cfg.Preview)
	if !b.fits(b.current) {
		b.over = true
	}
	return b, nil
}

func (b *Board) Width() int { return b.cfg.Width }
func (b *Board) Height() int { return b.cfg.Height }

func (b *Board) Score() int { return b.score }
func (b *Board) Level() int { return b.level }
func (b *Board) Lines() int { return b.lines }
func (b *Board) Ticks() int { return b.ticks }
func (b *Board) IsGameOver() bool { return b.over }
func (b *Board) HoldUsed() bool { return b.holdUsed }
func (b *Board) SoftDropping() bool { return b.gravity.SoftDrop() }

func (b *Board) ElapsedTime() time.Duration {
	return time.Duration(b.ticks) * b.cfg.TickInterval
}

func (b *Board) CurrentPiece() piece.Piece { return b.current }
func (b *Board) NextPiece() piece.Piece { return b.next }

// HeldPiece returns the reserved piece, if any.
func (b *Board) HeldPiece() (piece.Piece, bool) {
	return b.held, b.hasHeld
}

// LockedCells lists the locked grid ordered by row, then column.
func (b *Board) LockedCells() []Cell {
	cells := make([]Cell, 0, b.locked.Len())
	b.locked.ForEach(func(k int, s shape.Shape) bool {
		cells = append(cells, Cell{Pos: b.point(k), Shape: s})
		return true
	})
	slices.SortFunc(cells, func(a, c Cell) int {
		if n := cmp.Compare(a.Pos.Y, c.Pos.Y); n != 0 {
			return n
		}
		return cmp.Compare(a.Pos.X, c.Pos.X)
	})
	return cells
}

// LockedAt reports the shape locked at p, if any.
func (b *Board) LockedAt(p shape.Point) (shape.Shape, bool) {
	if !b.inBounds(p) {
		return 0, false
	}
	return b.locked.Get(b.key(p))
}

// DropDistance is how many rows the current piece can still fall.
func (b *Board) DropDistance() int {
	n := 0
	for b.fits(b.current.Moved(0, n+1)) {
		n++
	}
	return n
}

func (b *Board) SetSoftDrop(on bool) { b.gravity.SetSoftDrop(on) }

// SetHardDrop engages the hard-drop modifier. It releases itself when the
// piece locks or is swapped out by a hold.
func (b *Board) SetHardDrop(on bool) {
	if b.over {
		return
	}
	b.gravity.SetHardDrop(on)
}

func (b *Board) AttemptMove(dir Direction, axis Axis) bool {
	if !b.playable() || (dir != Negative && dir != Positive) {
		return false
	}
	dx, dy := 0, 0
	switch axis {
	case Horizontal:
		dx = int(dir)
	case Vertical:
		dy = int(dir)
	default:
		return false
	}
	candidate := b.current.Moved(dx, dy)
	if !b.fits(candidate) {
		if axis == Vertical && dir == Positive {
			b.current.Deactivate()
		}
		return false
	}
	b.current = candidate
	return true
}

func (b *Board) AttemptRotate(dir piece.Direction) bool {
	if !b.playable() {
		return false
	}
	candidate := b.current.Rotated(dir)
	if !b.fits(candidate) {
		return false
	}
	b.current = candidate
	return true
}

// Hold reserves the current piece, bringing in either the previously held
// piece or the next one. Allowed once per drop.
func (b *Board) Hold() bool {
	if !b.playable() || b.holdUsed {
		return false
	}
	outgoing := b.current
	if b.hasHeld {
		b.current = b.held
	} else {
		b.current = b.next
		b.next = piece.Spawn(b.gen.Next(), b.cfg.Preview)
	}
	b.current.Reset(b.cfg.Spawn)
	outgoing.Reset(b.cfg.HoldSlot)
	b.held, b.hasHeld = outgoing, true
	b.holdUsed = true
	b.accumulator = 0
	b.gravity.SetHardDrop(false)
	if !b.fits(b.current) {
		b.over = true
	}
	return true
}

// Tick advances the simulation by one fixed interval.
func (b *Board) Tick() TickResult {
	if b.over {
		return TickResult{GameOver: true}
	}
	var res TickResult
	b.ticks++
	if b.current.Active {
		b.accumulator++
		if !b.gravity.Due(b.level, b.accumulator) {
			return res
		}
		b.accumulator = 0
		res.Moved = b.AttemptMove(Positive, Vertical)
		if b.current.Active {
			return res
		}
	}
	b.lock(&res)
	return res
}

func (b *Board) String() string {
	return fmt.Sprintf("board %dx%d level=%d score=%d lines=%d locked=%d over=%v",
		b.cfg.Width, b.cfg.Height, b.level, b.score, b.lines, b.locked.Len(), b.over)
}

func (b *Board) playable() bool {
	return !b.over && b.current.Active
}

func (b *Board) fits(p piece.Piece) bool {
	for _, c := range p.Cells() {
		if !b.inBounds(c) || b.locked.Has(b.key(c)) {
			return false
		}
	}
	return true
}

func (b *Board) inBounds(p shape.Point) bool {
	return p.X >= 0 && p.X < b.cfg.Width && p.Y >= 0 && p.Y < b.cfg.Height
}

func (b *Board) key(p shape.Point) int {
	return p.Y*b.cfg.Width + p.X
}

func (b *Board) point(k int) shape.Point {
	return shape.Point{X: k % b.cfg.Width, Y: k / b.cfg.Width}
}
