package board

import (
	"errors"
	"fmt"
	"time"

	"github.com/KaiqueGovani/tetrion/internal/gravity"
	"github.com/KaiqueGovani/tetrion/internal/shape"
)

var ErrInvalidConfig = errors.New("invalid board config")

type ScoringMode int

const (
	// ScoreSet replaces the score with the value of the latest clear.
	ScoreSet ScoringMode = iota
	// ScoreAccumulate adds the value of every clear to the score.
	ScoreAccumulate
)

func (m ScoringMode) String() string {
	switch m {
	case ScoreSet:
		return "set"
	case ScoreAccumulate:
		return "accumulate"
	default:
		return fmt.Sprintf("ScoringMode(%d)", int(m))
	}
}

func ParseScoringMode(s string) (ScoringMode, error) {
	switch s {
	case "", "set":
		return ScoreSet, nil
	case "accumulate", "add":
		return ScoreAccumulate, nil
	default:
		return 0, fmt.Errorf("%w: unknown scoring mode %q", ErrInvalidConfig, s)
	}
}

type Config struct {
	Width  int
	Height int
	// SpawnZoneRows is the number of top rows reserved for piece entry. A lock
	// that leaves any cell there ends the game.
	SpawnZoneRows int
	Spawn         shape.Point
	Preview       shape.Point
	HoldSlot      shape.Point
	LinesPerLevel int
	Scoring       ScoringMode
	Gravity       gravity.Config
	TickInterval  time.Duration
	Generator     shape.Generator
}

const (
	DefaultWidth         = 10
	DefaultHeight        = 20
	DefaultSpawnZoneRows = 2
	DefaultLinesPerLevel = 10
	DefaultTickRate      = 60
)

func DefaultConfig() Config {
	return Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		SpawnZoneRows: DefaultSpawnZoneRows,
		Spawn:         shape.Point{X: (DefaultWidth - 4) / 2, Y: 0},
		Preview:       shape.Point{X: DefaultWidth + 1, Y: 0},
		HoldSlot:      shape.Point{X: DefaultWidth + 1, Y: 5},
		LinesPerLevel: DefaultLinesPerLevel,
		Scoring:       ScoreSet,
		Gravity:       gravity.DefaultConfig(),
		TickInterval:  time.Second / DefaultTickRate,
	}
}

// WithSize returns a copy resized to width x height with the spawn, preview
// and hold positions recentred for the new width.
func (c Config) WithSize(width, height int) Config {
	c.Width = width
	c.Height = height
	c.Spawn = shape.Point{X: (width - 4) / 2, Y: 0}
	c.Preview = shape.Point{X: width + 1, Y: 0}
	c.HoldSlot = shape.Point{X: width + 1, Y: 5}
	return c
}

func (c Config) validate() error {
	if c.Width < 4 {
		return fmt.Errorf("%w: width %d is narrower than a piece", ErrInvalidConfig, c.Width)
	}
	if c.SpawnZoneRows < 0 {
		return fmt.Errorf("%w: negative spawn zone", ErrInvalidConfig)
	}
	if c.Height < c.SpawnZoneRows+4 {
		return fmt.Errorf("%w: height %d leaves no room below a %d-row spawn zone", ErrInvalidConfig, c.Height, c.SpawnZoneRows)
	}
	if c.Spawn.X < 0 || c.Spawn.X+4 > c.Width || c.Spawn.Y < 0 || c.Spawn.Y+4 > c.Height {
		return fmt.Errorf("%w: spawn %v outside the %dx%d grid", ErrInvalidConfig, c.Spawn, c.Width, c.Height)
	}
	if c.LinesPerLevel < 1 {
		return fmt.Errorf("%w: lines per level must be positive", ErrInvalidConfig)
	}
	if c.Scoring != ScoreSet && c.Scoring != ScoreAccumulate {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Scoring)
	}
	return nil
}
