package audio

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/pterm/pterm"
)

//go:embed sounds/*.wav
var soundFS embed.FS

var (
	speakerOnce   sync.Once
	speakerMu     sync.Mutex
	speakerReady  bool
	speakerErr    error
	speakerFormat beep.Format
)

func ensureSpeakerInitialized(format beep.Format) (beep.Format, error) {
	speakerOnce.Do(func() {
		err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
		speakerMu.Lock()
		speakerErr = err
		speakerFormat = format
		speakerReady = err == nil
		speakerMu.Unlock()
	})
	speakerMu.Lock()
	defer speakerMu.Unlock()
	return speakerFormat, speakerErr
}

// speakerInitialized reports whether the speaker was opened successfully
func speakerInitialized() bool {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	return speakerReady
}

// Cues lists the embedded sound names
func Cues() []string {
	entries, err := soundFS.ReadDir("sounds")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".wav"))
	}
	sort.Strings(names)
	return names
}

// Sound returns the embedded WAV data for cue
func Sound(cue string) ([]byte, bool) {
	data, err := soundFS.ReadFile(path.Join("sounds", cue+".wav"))
	if err != nil {
		return nil, false
	}
	return data, true
}

// DecodeSound decodes WAV sound data into a streamer
func DecodeSound(soundData []byte) (beep.StreamSeekCloser, beep.Format, error) {
	if len(soundData) == 0 {
		return nil, beep.Format{}, fmt.Errorf("no sound data")
	}

	streamer, format, err := wav.Decode(bytes.NewReader(soundData))
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("failed to decode sound: %w", err)
	}
	return streamer, format, nil
}

// Player plays the embedded cues. A quiet player, or one whose speaker
// could not be opened, does nothing.
type Player struct {
	quiet    bool
	volumeDB float64
	logger   *pterm.Logger

	mu       sync.Mutex
	disabled bool
}

// NewPlayer creates a player; volumeDB is relative to the recorded level
func NewPlayer(quiet bool, volumeDB float64, logger *pterm.Logger) *Player {
	return &Player{quiet: quiet, volumeDB: volumeDB, logger: logger}
}

func (p *Player) streamer(cue string) (beep.Streamer, func(), bool) {
	if p == nil || p.quiet {
		return nil, nil, false
	}
	p.mu.Lock()
	disabled := p.disabled
	p.mu.Unlock()
	if disabled {
		return nil, nil, false
	}

	data, ok := Sound(cue)
	if !ok {
		p.logger.Debug("unknown sound cue", p.logger.Args("cue", cue))
		return nil, nil, false
	}
	s, format, err := DecodeSound(data)
	if err != nil {
		p.logger.Debug("sound could not be decoded", p.logger.Args("cue", cue, "error", err))
		return nil, nil, false
	}

	device, err := ensureSpeakerInitialized(format)
	if err != nil {
		s.Close()
		p.mu.Lock()
		p.disabled = true
		p.mu.Unlock()
		p.logger.Debug("audio unavailable", p.logger.Args("error", err))
		return nil, nil, false
	}

	var stream beep.Streamer = s
	if format.SampleRate != device.SampleRate {
		stream = beep.Resample(4, format.SampleRate, device.SampleRate, s)
	}
	stream = &effects.Volume{Streamer: stream, Base: 2, Volume: p.volumeDB}
	return stream, func() { s.Close() }, true
}

// Play starts cue in the background and returns immediately
func (p *Player) Play(cue string) {
	s, closeFn, ok := p.streamer(cue)
	if !ok {
		return
	}
	speaker.Play(beep.Seq(s, beep.Callback(closeFn)))
}

// PlaySync plays cue and blocks until it finishes
func (p *Player) PlaySync(cue string) {
	s, closeFn, ok := p.streamer(cue)
	if !ok {
		return
	}
	defer closeFn()

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))
	<-done
}

// StopAll stops all currently playing sounds
func (p *Player) StopAll() {
	if !speakerInitialized() {
		return
	}
	speaker.Clear()
}
