package shape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiqueGovani/tetrion/internal/shape"
)

func TestBag(t *testing.T) {
	bag := shape.NewBag(42)
	for round := 0; round < 5; round++ {
		seen := map[shape.Shape]int{}
		for i := 0; i < shape.Count; i++ {
			seen[bag.Next()]++
		}
		assert.Len(t, seen, shape.Count, "round %d", round)
	}
}

func TestUniform(t *testing.T) {
	t.Run("same seed same stream", func(t *testing.T) {
		a := shape.NewUniform(7)
		b := shape.NewUniform(7)
		for i := 0; i < 50; i++ {
			assert.Equal(t, a.Next(), b.Next())
		}
	})

	t.Run("draws every shape", func(t *testing.T) {
		u := shape.NewUniform(1)
		seen := map[shape.Shape]bool{}
		for i := 0; i < 500; i++ {
			s := u.Next()
			require.True(t, s.Valid())
			seen[s] = true
		}
		assert.Len(t, seen, shape.Count)
	})
}

func TestSequence(t *testing.T) {
	seq := shape.NewSequence(shape.I, shape.O)
	assert.Equal(t, shape.I, seq.Next())
	assert.Equal(t, shape.O, seq.Next())
	assert.Equal(t, shape.I, seq.Next())
}

func TestNewGenerator(t *testing.T) {
	g, err := shape.NewGenerator("bag", 1)
	require.NoError(t, err)
	assert.IsType(t, &shape.Bag{}, g)

	g, err = shape.NewGenerator("", 1)
	require.NoError(t, err)
	assert.IsType(t, &shape.Uniform{}, g)

	_, err = shape.NewGenerator("tgm", 1)
	assert.ErrorIs(t, err, shape.ErrUnknownGenerator)
}
