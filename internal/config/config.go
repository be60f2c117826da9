// Package config loads the player's settings: a JSON file under the user
// config directory, then an optional .env file, then TETRION_* environment
// variables, each layer overriding the previous one.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/KaiqueGovani/tetrion/internal/board"
	"github.com/KaiqueGovani/tetrion/internal/gravity"
	"github.com/KaiqueGovani/tetrion/internal/shape"
)

const (
	AppName      = "tetrion"
	FileName     = "config.json"
	DefaultTheme = "Classic Tetris"
	MaxTickRate  = 240
)

var ErrInvalidValue = errors.New("invalid config value")

type Config struct {
	Theme     string  `json:"theme"`
	Sound     bool    `json:"sound"`
	Music     bool    `json:"music"`
	MusicFile string  `json:"music_file,omitempty"`
	Volume    float64 `json:"volume"`
	Scale     int     `json:"scale"`
	Shadow    bool    `json:"shadow"`

	TickRate  int    `json:"tick_rate"`
	Seed      uint64 `json:"seed,omitempty"`
	Generator string `json:"generator"`
	Scoring   string `json:"scoring"`

	Width           int     `json:"width"`
	Height          int     `json:"height"`
	GravityConstant int     `json:"gravity_constant"`
	SoftDropFactor  float64 `json:"soft_drop_factor"`
	LinesPerLevel   int     `json:"lines_per_level"`
}

func Default() Config {
	return Config{
		Theme:           DefaultTheme,
		Sound:           true,
		Volume:          0.6,
		Scale:           1,
		Shadow:          true,
		TickRate:        board.DefaultTickRate,
		Generator:       shape.GeneratorUniform,
		Scoring:         board.ScoreSet.String(),
		Width:           board.DefaultWidth,
		Height:          board.DefaultHeight,
		GravityConstant: gravity.DefaultConstant,
		SoftDropFactor:  gravity.DefaultSoftDropFactor,
		LinesPerLevel:   board.DefaultLinesPerLevel,
	}
}

// Path returns the settings file location, creating its directory.
func Path() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the settings file and .env from the working directory.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFrom(path, ".env")
}

// LoadFrom is Load with explicit file locations. A missing file at either
// path is not an error.
func LoadFrom(path, envFile string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	cfg.Normalize()
	return cfg, nil
}

func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Normalize replaces out-of-range values with defaults or clamps them.
func (c *Config) Normalize() {
	def := Default()
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	c.Volume = min(max(c.Volume, 0), 1)
	if c.Scale < 1 {
		c.Scale = 1
	}
	if c.TickRate < 1 {
		c.TickRate = def.TickRate
	}
	c.TickRate = min(c.TickRate, MaxTickRate)
	if c.Width < 4 {
		c.Width = def.Width
	}
	if c.Height < board.DefaultSpawnZoneRows+4 {
		c.Height = def.Height
	}
	if c.GravityConstant < 1 {
		c.GravityConstant = def.GravityConstant
	}
	if c.SoftDropFactor <= 0 || c.SoftDropFactor > 1 {
		c.SoftDropFactor = def.SoftDropFactor
	}
	if c.LinesPerLevel < 1 {
		c.LinesPerLevel = def.LinesPerLevel
	}
}

func (c Config) TickInterval() time.Duration {
	rate := c.TickRate
	if rate < 1 {
		rate = board.DefaultTickRate
	}
	return time.Second / time.Duration(rate)
}

// Board builds the core configuration. A zero seed draws one from the clock.
func (c Config) Board() (board.Config, error) {
	scoring, err := board.ParseScoringMode(c.Scoring)
	if err != nil {
		return board.Config{}, err
	}
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	gen, err := shape.NewGenerator(c.Generator, seed)
	if err != nil {
		return board.Config{}, err
	}

	bc := board.DefaultConfig().WithSize(c.Width, c.Height)
	bc.LinesPerLevel = c.LinesPerLevel
	bc.Scoring = scoring
	bc.Gravity = gravity.Config{
		Constant:       c.GravityConstant,
		SoftDropFactor: c.SoftDropFactor,
	}
	bc.TickInterval = c.TickInterval()
	bc.Generator = gen
	return bc, nil
}
