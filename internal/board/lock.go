package board

import (
	"github.com/kamstrup/intmap"

	"github.com/KaiqueGovani/tetrion/internal/piece"
	"github.com/KaiqueGovani/tetrion/internal/shape"
)

var lineScores = [...]int{0, 40, 100, 300, 1200}

// LineScore is the value of clearing rows at once on the given level.
func LineScore(rows, level int) int {
	if rows <= 0 {
		return 0
	}
	if rows >= len(lineScores) {
		rows = len(lineScores) - 1
	}
	return lineScores[rows] * (level + 1)
}

func (b *Board) lock(res *TickResult) {
	res.Locked = true
	for _, c := range b.current.Cells() {
		b.locked.Put(b.key(c), b.current.Shape)
	}
	b.accumulator = 0
	b.gravity.SetHardDrop(false)

	if b.spawnZoneOccupied() {
		b.over = true
		res.GameOver = true
		return
	}

	rows := b.clearRows()
	if len(rows) > 0 {
		points := LineScore(len(rows), b.level)
		switch b.cfg.Scoring {
		case ScoreAccumulate:
			b.score += points
		default:
			b.score = points
		}
		b.lines += len(rows)
		if lvl := 1 + b.lines/b.cfg.LinesPerLevel; lvl > b.level {
			b.level = lvl
			res.LevelUp = true
		}
		res.Cleared = len(rows)
		res.ClearedRows = rows
		res.Points = points
	}

	b.holdUsed = false
	b.current = b.next
	b.current.Reset(b.cfg.Spawn)
	b.next = piece.Spawn(b.gen.Next(), b.cfg.Preview)
	if !b.fits(b.current) {
		b.over = true
		res.GameOver = true
	}
}

func (b *Board) spawnZoneOccupied() bool {
	for k := 0; k < b.cfg.SpawnZoneRows*b.cfg.Width; k++ {
		if b.locked.Has(k) {
			return true
		}
	}
	return false
}

// clearRows removes every full row and drops the rows above by the number
// of cleared rows beneath them. It returns the cleared row indexes, top to
// bottom.
func (b *Board) clearRows() []int {
	w, h := b.cfg.Width, b.cfg.Height
	counts := make([]int, h)
	b.locked.ForEach(func(k int, _ shape.Shape) bool {
		counts[k/w]++
		return true
	})

	var full []int
	for y, n := range counts {
		if n == w {
			full = append(full, y)
		}
	}
	if len(full) == 0 {
		return nil
	}

	drop := make([]int, h)
	cleared := 0
	for y := h - 1; y >= 0; y-- {
		if counts[y] == w {
			cleared++
			drop[y] = -1
			continue
		}
		drop[y] = cleared
	}

	shifted := intmap.New[int, shape.Shape](b.locked.Len())
	b.locked.ForEach(func(k int, s shape.Shape) bool {
		if d := drop[k/w]; d >= 0 {
			shifted.Put(k+d*w, s)
		}
		return true
	})
	b.locked = shifted
	return full
}
