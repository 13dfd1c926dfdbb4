// Package sound plays the chat notification chime.
package sound

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/musher-dev/chaos/internal/config"
)

// SampleRate is the speaker rate used for every chime.
const SampleRate = beep.SampleRate(44100)

// tones are the chime's notes, played back to back.
var tones = []struct {
	freq float64
	dur  time.Duration
}{
	{freq: 880, dur: 90 * time.Millisecond},
	{freq: 1320, dur: 140 * time.Millisecond},
}

// Chime plays a short two-tone sine. The speaker is initialised on first use;
// if that fails the chime is disabled for the rest of the process.
type Chime struct {
	enabled bool
	volume  float64
	log     *slog.Logger

	once    sync.Once
	initErr error

	mu sync.Mutex

	// init and output are swapped in tests.
	init   func(beep.SampleRate) error
	output func(beep.Streamer)
}

// NewChime returns a chime configured from cfg.
func NewChime(cfg config.Sound, logger *slog.Logger) *Chime {
	if logger == nil {
		logger = slog.Default()
	}

	return &Chime{
		enabled: cfg.Enabled,
		volume:  cfg.Volume,
		log:     logger,
		init: func(sr beep.SampleRate) error {
			return speaker.Init(sr, sr.N(time.Second/10))
		},
		output: func(s beep.Streamer) { speaker.Play(s) },
	}
}

// Play starts the chime in the background and returns immediately.
func (c *Chime) Play() {
	if !c.enabled {
		return
	}

	go c.play()
}

func (c *Chime) play() {
	c.once.Do(func() {
		if err := c.init(SampleRate); err != nil {
			c.initErr = err
			c.log.Warn("Sound disabled: speaker init failed", slog.String("error", err.Error()))
		}
	})

	if c.initErr != nil {
		return
	}

	s, err := c.streamer()
	if err != nil {
		c.log.Warn("Chime failed", slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.output(s)
}

// streamer builds the chime at the configured volume.
func (c *Chime) streamer() (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(tones))

	for _, t := range tones {
		sine, err := generators.SineTone(SampleRate, t.freq)
		if err != nil {
			return nil, fmt.Errorf("sine %vHz: %w", t.freq, err)
		}

		parts = append(parts, beep.Take(SampleRate.N(t.dur), sine))
	}

	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   c.volume,
	}, nil
}

// Length is the chime's duration in samples.
func Length() int {
	n := 0
	for _, t := range tones {
		n += SampleRate.N(t.dur)
	}

	return n
}
