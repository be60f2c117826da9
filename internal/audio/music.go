package audio

import (
	"encoding/binary"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ebitengine/oto/v3"
	"github.com/llehouerou/go-mp3"

	"github.com/KaiqueGovani/tetrion/internal/debuglog"
)

const loopPoll = 120 * time.Millisecond

// MusicPlayer loops a user supplied mp3 for as long as it is started.
type MusicPlayer struct {
	ctx    *oto.Context
	path   string
	mu     sync.Mutex
	player *oto.Player
	dec    *decoder
	stop   chan struct{}
	paused bool

	// volMu is separate from mu: the mixer reads the volume while mu may be
	// held around Play.
	volMu  sync.Mutex
	volume float64
}

// NewMusicPlayer returns nil when there is no device or no file, and every
// method is safe on a nil player.
func NewMusicPlayer(ctx *oto.Context, path string, volume float64) *MusicPlayer {
	if ctx == nil || path == "" {
		return nil
	}
	return &MusicPlayer{
		ctx:    ctx,
		path:   path,
		volume: clampVolume(volume),
	}
}

func (m *MusicPlayer) SetVolume(volume float64) {
	if m == nil {
		return
	}
	m.volMu.Lock()
	m.volume = clampVolume(volume)
	m.volMu.Unlock()
}

func (m *MusicPlayer) Playing() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.player != nil && !m.paused
}

func (m *MusicPlayer) StartCmd() tea.Cmd {
	return func() tea.Msg {
		m.Start()
		return nil
	}
}

// Start plays from the beginning, or resumes if paused.
func (m *MusicPlayer) Start() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.player != nil {
		if m.paused {
			m.paused = false
			m.player.Play()
		}
		return
	}
	dec, err := openDecoder(m.path)
	if err != nil {
		debuglog.Logf("music open %s: %v", m.path, err)
		return
	}
	player := m.ctx.NewPlayer(&volumeReader{reader: dec, getVolume: m.volumeValue})
	player.Play()
	m.player, m.dec, m.paused = player, dec, false
	m.stop = make(chan struct{})
	go m.loop(player, dec, m.stop)
}

func (m *MusicPlayer) Pause() {
	if m == nil {
		return
	}
	m.mu.Lock()
	if m.player != nil && !m.paused {
		m.player.Pause()
		m.paused = true
	}
	m.mu.Unlock()
}

func (m *MusicPlayer) Stop() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.stopLocked()
	m.mu.Unlock()
}

// loop rewinds the track whenever the player runs dry.
func (m *MusicPlayer) loop(player *oto.Player, dec *decoder, stop <-chan struct{}) {
	ticker := time.NewTicker(loopPoll)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !m.rewind(player, dec, stop) {
				return
			}
		}
	}
}

// rewind restarts a drained track. It holds m.mu so Stop cannot close the
// player underneath it, and reports false once the loop should exit.
func (m *MusicPlayer) rewind(player *oto.Player, dec *decoder, stop <-chan struct{}) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case <-stop:
		return false
	default:
	}
	if m.paused || player.IsPlaying() {
		return true
	}
	if err := dec.SeekToTime(0); err != nil {
		debuglog.Logf("music rewind: %v", err)
		return false
	}
	player.Play()
	return true
}

func (m *MusicPlayer) stopLocked() {
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
	if m.player != nil {
		_ = m.player.Close()
		m.player = nil
	}
	if m.dec != nil {
		_ = m.dec.Close()
		m.dec = nil
	}
	m.paused = false
}

func (m *MusicPlayer) volumeValue() float64 {
	m.volMu.Lock()
	defer m.volMu.Unlock()
	return m.volume
}

// decoder serializes access to the mp3 stream, which is read by the oto
// mixer and rewound by the loop goroutine.
type decoder struct {
	mu   sync.Mutex
	file *os.File
	dec  *mp3.Decoder
}

func openDecoder(path string) (*decoder, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := mp3.NewDecoder(file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &decoder{file: file, dec: dec}, nil
}

func (d *decoder) SampleRate() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dec.SampleRate()
}

func (d *decoder) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dec.Read(p)
}

func (d *decoder) SeekToTime(t time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dec.SeekToTime(t)
}

func (d *decoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.file.Close()
}

// volumeReader scales 16-bit samples by a volume read on every call.
type volumeReader struct {
	reader    io.Reader
	getVolume func() float64
}

func (v *volumeReader) Read(p []byte) (int, error) {
	n, err := v.reader.Read(p)
	volume := clampVolume(v.getVolume())
	if volume >= 0.999 {
		return n, err
	}
	for i := 0; i+1 < n; i += 2 {
		sample := int16(binary.LittleEndian.Uint16(p[i:]))
		binary.LittleEndian.PutUint16(p[i:], uint16(int16(float64(sample)*volume)))
	}
	return n, err
}
