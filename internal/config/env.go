package config

import (
	"fmt"
	"os"
	"strconv"
)

const EnvPrefix = "TETRION_"

func (c *Config) applyEnv() error {
	strs := []struct {
		key string
		dst *string
	}{
		{"THEME", &c.Theme},
		{"MUSIC_FILE", &c.MusicFile},
		{"GENERATOR", &c.Generator},
		{"SCORING", &c.Scoring},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok {
			*s.dst = v
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"SOUND", &c.Sound},
		{"MUSIC", &c.Music},
		{"SHADOW", &c.Shadow},
	}
	for _, b := range bools {
		if v, ok := lookup(b.key); ok {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return invalid(b.key, v)
			}
			*b.dst = parsed
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"SCALE", &c.Scale},
		{"TICK_RATE", &c.TickRate},
		{"WIDTH", &c.Width},
		{"HEIGHT", &c.Height},
		{"GRAVITY_CONSTANT", &c.GravityConstant},
		{"LINES_PER_LEVEL", &c.LinesPerLevel},
	}
	for _, i := range ints {
		if v, ok := lookup(i.key); ok {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return invalid(i.key, v)
			}
			*i.dst = parsed
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"VOLUME", &c.Volume},
		{"SOFT_DROP_FACTOR", &c.SoftDropFactor},
	}
	for _, f := range floats {
		if v, ok := lookup(f.key); ok {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return invalid(f.key, v)
			}
			*f.dst = parsed
		}
	}

	if v, ok := lookup("SEED"); ok {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return invalid("SEED", v)
		}
		c.Seed = parsed
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func invalid(key, value string) error {
	return fmt.Errorf("%w: %s%s=%q", ErrInvalidValue, EnvPrefix, key, value)
}
