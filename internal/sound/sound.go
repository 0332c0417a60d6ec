// Package sound turns reaction events into short tones. It is an optional
// sandbox observer: events are queued without blocking and a background
// goroutine hands them to the speaker.
package sound

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"mad-sand/internal/material"
	"mad-sand/internal/sims/sandbox"
)

const (
	sampleRate = beep.SampleRate(44100)

	baseFreq = 220.0
)

// pentatonic offsets in semitones within one octave.
var pentatonic = [...]int{0, 2, 4, 7, 9}

const toneSteps = 2 * len(pentatonic)

// Config tunes the player.
type Config struct {
	// Tone is the length of one blip.
	Tone time.Duration
	// MinGap is the shortest interval between two blips. Reactions arriving
	// sooner are skipped.
	MinGap time.Duration
	// Volume is a linear gain in (0, 1].
	Volume float64
	// Queue bounds the pending blips.
	Queue int
}

// DefaultConfig returns quiet, sparse settings.
func DefaultConfig() Config {
	return Config{
		Tone:   60 * time.Millisecond,
		MinGap: 40 * time.Millisecond,
		Volume: 0.25,
		Queue:  16,
	}
}

// Player plays one tone per accepted reaction.
type Player struct {
	cfg Config
	now func() time.Time

	last    time.Time
	ch      chan float64
	wg      sync.WaitGroup
	once    sync.Once
	closed  atomic.Bool
	played  atomic.Uint64
	skipped atomic.Uint64

	play   func(beep.Streamer)
	device bool
}

// New builds a player without touching the audio device. Call Start to open
// it.
func New(cfg Config) *Player {
	def := DefaultConfig()
	if cfg.Tone <= 0 {
		cfg.Tone = def.Tone
	}
	if cfg.MinGap < 0 {
		cfg.MinGap = 0
	}
	if cfg.Volume <= 0 || cfg.Volume > 1 {
		cfg.Volume = def.Volume
	}
	if cfg.Queue <= 0 {
		cfg.Queue = def.Queue
	}
	return &Player{
		cfg: cfg,
		now: time.Now,
		ch:  make(chan float64, cfg.Queue),
	}
}

// Start opens the speaker and begins playing queued tones.
func (p *Player) Start() error {
	if p.closed.Load() {
		return errors.New("sound: player closed")
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	p.device = true
	p.start(func(s beep.Streamer) { speaker.Play(s) })
	return nil
}

func (p *Player) start(play func(beep.Streamer)) {
	p.play = play
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.loop()
	}()
}

// ObserveReaction implements sandbox.Observer. It must be called from the
// simulation goroutine only.
func (p *Player) ObserveReaction(r sandbox.Reaction) {
	if p == nil || p.closed.Load() {
		return
	}
	now := p.now()
	if !p.last.IsZero() && now.Sub(p.last) < p.cfg.MinGap {
		p.skipped.Add(1)
		return
	}
	select {
	case p.ch <- Pitch(r.OutA):
		p.last = now
	default:
		p.skipped.Add(1)
	}
}

// Played reports how many tones were handed to the speaker.
func (p *Player) Played() uint64 { return p.played.Load() }

// Skipped reports how many reactions were rate limited or dropped.
func (p *Player) Skipped() uint64 { return p.skipped.Load() }

// Close stops the player and releases the speaker if it was started.
func (p *Player) Close() {
	p.once.Do(func() {
		p.closed.Store(true)
		close(p.ch)
		p.wg.Wait()
		if p.device {
			speaker.Close()
		}
	})
}

func (p *Player) loop() {
	for freq := range p.ch {
		s, err := p.tone(freq)
		if err != nil {
			continue
		}
		p.play(s)
		p.played.Add(1)
	}
}

func (p *Player) tone(freq float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	blip := beep.Take(sampleRate.N(p.cfg.Tone), sine)
	return &effects.Volume{Streamer: blip, Base: 2, Volume: math.Log2(p.cfg.Volume)}, nil
}

// Pitch maps a material to a note on a two-octave pentatonic scale starting
// at 220 Hz. Empty maps to the root.
func Pitch(id material.ID) float64 {
	step := int(id) % toneSteps
	octave := step / len(pentatonic)
	semi := octave*12 + pentatonic[step%len(pentatonic)]
	return baseFreq * math.Pow(2, float64(semi)/12)
}
