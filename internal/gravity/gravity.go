// Package gravity decides how many ticks a piece waits before it is forced
// one row down, from the current level and the soft/hard drop modifiers.
package gravity

import "math"

const (
	DefaultConstant       = 50
	DefaultSoftDropFactor = 0.1
)

type Config struct {
	// Constant is the tick threshold at amplifier 1.0 (level 1).
	Constant       int
	SoftDropFactor float64
}

func DefaultConfig() Config {
	return Config{
		Constant:       DefaultConstant,
		SoftDropFactor: DefaultSoftDropFactor,
	}
}

var amplifiers = [...]float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}

// Amplifier is the level multiplier applied to the gravity constant.
// Levels below 1 count as 1; levels from 10 up share the fastest value.
func Amplifier(level int) float64 {
	if level < 1 {
		level = 1
	}
	if level > len(amplifiers) {
		level = len(amplifiers)
	}
	return amplifiers[level-1]
}

type Scheduler struct {
	cfg      Config
	softDrop bool
	hardDrop bool
}

func New(cfg Config) *Scheduler {
	if cfg.Constant < 0 {
		cfg.Constant = 0
	}
	if cfg.SoftDropFactor < 0 || cfg.SoftDropFactor > 1 {
		cfg.SoftDropFactor = DefaultSoftDropFactor
	}
	return &Scheduler{cfg: cfg}
}

func (s *Scheduler) SetSoftDrop(on bool) {
	s.softDrop = on
}

func (s *Scheduler) SetHardDrop(on bool) {
	s.hardDrop = on
}

func (s *Scheduler) SoftDrop() bool {
	return s.softDrop
}

func (s *Scheduler) HardDrop() bool {
	return s.hardDrop
}

// Effective is the level amplifier with the active modifiers applied.
func (s *Scheduler) Effective(level int) float64 {
	if s.hardDrop {
		return 0
	}
	amp := Amplifier(level)
	if s.softDrop {
		amp *= s.cfg.SoftDropFactor
	}
	return amp
}

func (s *Scheduler) Threshold(level int) int {
	return int(math.Round(float64(s.cfg.Constant) * s.Effective(level)))
}

// Due reports whether the accumulated ticks have reached the threshold.
func (s *Scheduler) Due(level, accumulated int) bool {
	return accumulated >= s.Threshold(level)
}
