// Package audio plays synthesized sound effects for board events and loops
// an optional mp3 as background music, both through one shared oto context.
package audio

import (
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/KaiqueGovani/tetrion/internal/debuglog"
)

const DefaultSampleRate = 44100

var (
	ctxOnce       sync.Once
	ctx           *oto.Context
	ctxSampleRate int
	ctxErr        error
)

// Context opens the process-wide output device. Only the first call's
// sample rate counts; oto allows a single context per process.
func Context(sampleRate int) (*oto.Context, int, error) {
	ctxOnce.Do(func() {
		if sampleRate <= 0 {
			sampleRate = DefaultSampleRate
		}
		c, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			debuglog.Logf("audio context: %v", err)
			ctxErr = err
			return
		}
		<-ready
		ctx = c
		ctxSampleRate = sampleRate
	})
	return ctx, ctxSampleRate, ctxErr
}

// Open starts the output device at the music file's sample rate when one is
// given and readable, so the mp3 plays unconverted.
func Open(musicPath string) (*oto.Context, int, error) {
	rate := DefaultSampleRate
	if musicPath != "" {
		if dec, err := openDecoder(musicPath); err == nil {
			rate = dec.SampleRate()
			_ = dec.Close()
		} else {
			debuglog.Logf("audio sample rate fallback: %v", err)
		}
	}
	return Context(rate)
}
