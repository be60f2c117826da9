package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineEvent(t *testing.T) {
	assert.Equal(t, EventLine1, LineEvent(1))
	assert.Equal(t, EventLine2, LineEvent(2))
	assert.Equal(t, EventLine3, LineEvent(3))
	assert.Equal(t, EventLine4, LineEvent(4))
	assert.Equal(t, EventLine4, LineEvent(6))
}

func TestTonesForEveryEvent(t *testing.T) {
	for e := EventMove; e <= EventGameOver; e++ {
		assert.NotEmpty(t, tonesFor(e), "event %d", e)
	}
	assert.Empty(t, tonesFor(Event(99)))
}

func TestRenderToneSequence(t *testing.T) {
	const rate = 8000
	seq := []tone{{440, 100 * time.Millisecond, 0.5}, {660, 50 * time.Millisecond, 0.5}}
	buf := renderToneSequence(seq, rate, 1)

	frames := 800 + 80 + 400
	require.Len(t, buf, frames*bytesPerFrame)

	peak := 0
	for i := 0; i < len(buf); i += bytesPerFrame {
		left := int16(binary.LittleEndian.Uint16(buf[i:]))
		right := int16(binary.LittleEndian.Uint16(buf[i+2:]))
		require.Equal(t, left, right)
		peak = max(peak, int(left), -int(left))
	}
	assert.Greater(t, peak, 0)
	assert.LessOrEqual(t, peak, (1<<15)/2)

	gap := buf[800*bytesPerFrame : 880*bytesPerFrame]
	assert.Equal(t, make([]byte, len(gap)), gap)

	assert.Equal(t, make([]byte, len(buf)), renderToneSequence(seq, rate, 0))
}

func TestVolumeReader(t *testing.T) {
	src := make([]byte, 8)
	for i, v := range []int16{1000, -1000, 20000, -32768} {
		binary.LittleEndian.PutUint16(src[i*2:], uint16(v))
	}

	volume := 0.5
	r := &volumeReader{reader: bytes.NewReader(src), getVolume: func() float64 { return volume }}
	out, err := io.ReadAll(r)
	require.NoError(t, err)

	var got []int16
	for i := 0; i < len(out); i += 2 {
		got = append(got, int16(binary.LittleEndian.Uint16(out[i:])))
	}
	assert.Equal(t, []int16{500, -500, 10000, -16384}, got)

	volume = 1
	r = &volumeReader{reader: bytes.NewReader(src), getVolume: func() float64 { return volume }}
	out, err = io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestClampVolume(t *testing.T) {
	assert.Equal(t, 0.0, clampVolume(-2))
	assert.Equal(t, 0.4, clampVolume(0.4))
	assert.Equal(t, 1.0, clampVolume(7))
}

func TestSilentEngine(t *testing.T) {
	s := NewSoundEngine(nil, 0, true, 2)
	assert.False(t, s.Enabled())
	s.SetEnabled(true)
	assert.False(t, s.Enabled())
	s.Play(EventLock)
}

func TestNilMusicPlayer(t *testing.T) {
	m := NewMusicPlayer(nil, "song.mp3", 1)
	assert.Nil(t, m)
	m.Start()
	m.Pause()
	m.SetVolume(0.2)
	m.Stop()
	assert.False(t, m.Playing())
}

func TestOpenDecoderMissingFile(t *testing.T) {
	_, err := openDecoder(filepath.Join(t.TempDir(), "missing.mp3"))
	assert.Error(t, err)
}

func TestStartCmdMissingFile(t *testing.T) {
	m := &MusicPlayer{path: filepath.Join(t.TempDir(), "missing.mp3"), volume: 1}
	cmd := m.StartCmd()
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.False(t, m.Playing())
}

func TestRewindAfterStop(t *testing.T) {
	stop := make(chan struct{})
	close(stop)
	m := &MusicPlayer{}
	// A stopped loop must return before touching the closed player.
	assert.False(t, m.rewind(nil, nil, stop))
}

func TestVolumeWhilePlayerLocked(t *testing.T) {
	m := &MusicPlayer{volume: 1}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetVolume(0.3)
	assert.Equal(t, 0.3, m.volumeValue())
}
