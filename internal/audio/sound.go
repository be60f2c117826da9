package audio

import (
	"bytes"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

type Event int

const (
	EventMove Event = iota
	EventRotate
	EventHold
	EventHardDrop
	EventLock
	EventLine1
	EventLine2
	EventLine3
	EventLine4
	EventLevelUp
	EventMenuMove
	EventMenuSelect
	EventGameOver
)

// LineEvent is the effect for clearing rows at once.
func LineEvent(rows int) Event {
	switch {
	case rows <= 1:
		return EventLine1
	case rows == 2:
		return EventLine2
	case rows == 3:
		return EventLine3
	default:
		return EventLine4
	}
}

type SoundEngine struct {
	mu         sync.RWMutex
	ctx        *oto.Context
	sampleRate int
	enabled    bool
	volume     float64
}

// NewSoundEngine plays into ctx. A nil context yields a silent engine.
func NewSoundEngine(ctx *oto.Context, sampleRate int, enabled bool, volume float64) *SoundEngine {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &SoundEngine{
		ctx:        ctx,
		sampleRate: sampleRate,
		enabled:    enabled && ctx != nil,
		volume:     clampVolume(volume),
	}
}

func (s *SoundEngine) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled && s.ctx != nil
	s.mu.Unlock()
}

func (s *SoundEngine) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

func (s *SoundEngine) SetVolume(volume float64) {
	s.mu.Lock()
	s.volume = clampVolume(volume)
	s.mu.Unlock()
}

func (s *SoundEngine) Play(event Event) {
	s.mu.RLock()
	ctx, enabled, volume := s.ctx, s.enabled, s.volume
	s.mu.RUnlock()
	if !enabled || ctx == nil {
		return
	}
	sequence := tonesFor(event)
	if len(sequence) == 0 {
		return
	}
	go func() {
		buffer := renderToneSequence(sequence, s.sampleRate, volume)
		player := ctx.NewPlayer(bytes.NewReader(buffer))
		player.Play()
		for player.IsPlaying() {
			time.Sleep(5 * time.Millisecond)
		}
		_ = player.Close()
	}()
}

type tone struct {
	frequency float64
	duration  time.Duration
	volume    float64
}

func tonesFor(event Event) []tone {
	const ms = time.Millisecond
	switch event {
	case EventMove:
		return []tone{{380, 25 * ms, 0.18}}
	case EventRotate:
		return []tone{{520, 40 * ms, 0.25}}
	case EventHold:
		return []tone{{330, 35 * ms, 0.2}, {495, 35 * ms, 0.2}}
	case EventHardDrop:
		return []tone{{240, 55 * ms, 0.22}}
	case EventLock:
		return []tone{{220, 70 * ms, 0.3}}
	case EventLine1:
		return []tone{{440, 90 * ms, 0.3}}
	case EventLine2:
		return []tone{{440, 70 * ms, 0.3}, {660, 90 * ms, 0.3}}
	case EventLine3:
		return []tone{{440, 70 * ms, 0.3}, {660, 70 * ms, 0.3}, {880, 90 * ms, 0.3}}
	case EventLine4:
		return []tone{{660, 80 * ms, 0.3}, {880, 80 * ms, 0.3}, {990, 120 * ms, 0.3}}
	case EventLevelUp:
		return []tone{{523, 60 * ms, 0.26}, {659, 60 * ms, 0.26}, {784, 60 * ms, 0.26}, {1047, 110 * ms, 0.26}}
	case EventMenuMove:
		return []tone{{260, 24 * ms, 0.16}}
	case EventMenuSelect:
		return []tone{{520, 70 * ms, 0.2}}
	case EventGameOver:
		return []tone{{330, 120 * ms, 0.28}, {247, 120 * ms, 0.28}, {180, 200 * ms, 0.28}}
	default:
		return nil
	}
}

const (
	bytesPerFrame = 4
	toneGap       = 10 * time.Millisecond
	toneFade      = 3 * time.Millisecond
)

func samplesFor(d time.Duration, sampleRate int) int {
	return int(float64(sampleRate) * d.Seconds())
}

// renderToneSequence renders 16-bit little-endian stereo PCM with a short
// silence between tones.
func renderToneSequence(sequence []tone, sampleRate int, master float64) []byte {
	gap := samplesFor(toneGap, sampleRate)
	total := 0
	for i, t := range sequence {
		total += samplesFor(t.duration, sampleRate)
		if i < len(sequence)-1 {
			total += gap
		}
	}
	buffer := make([]byte, total*bytesPerFrame)
	offset := 0
	for _, t := range sequence {
		renderTone(buffer[offset:], t, sampleRate, t.volume*clampVolume(master))
		offset += (samplesFor(t.duration, sampleRate) + gap) * bytesPerFrame
	}
	return buffer
}

func renderTone(buffer []byte, t tone, sampleRate int, volume float64) {
	const maxInt16 = 1<<15 - 1
	samples := samplesFor(t.duration, sampleRate)
	fade := samplesFor(toneFade, sampleRate)
	for i := 0; i < samples; i++ {
		env := 1.0
		if fade > 0 {
			if i < fade {
				env = float64(i) / float64(fade)
			} else if i > samples-fade {
				env = max(float64(samples-i)/float64(fade), 0)
			}
		}
		sample := math.Sin(2 * math.Pi * t.frequency * float64(i) / float64(sampleRate))
		value := int16(sample * volume * env * maxInt16)
		frame := buffer[i*bytesPerFrame:]
		frame[0], frame[1] = byte(value), byte(value>>8)
		frame[2], frame[3] = byte(value), byte(value>>8)
	}
}

func clampVolume(value float64) float64 {
	return min(max(value, 0), 1)
}
