package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Sound plays short cues for selection outcomes
type Sound interface {
	Match()
	Miss()
	Close()
}

type mutedSound struct{}

func (mutedSound) Match() {}
func (mutedSound) Miss()  {}
func (mutedSound) Close() {}

// speakerSound plays sine tones through the default audio device
type speakerSound struct{}

func newSpeakerSound() (*speakerSound, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &speakerSound{}, nil
}

func tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return beep.Silence(sampleRate.N(d))
	}
	return beep.Take(sampleRate.N(d), sine)
}

// Match is a rising two-note chime
func (s *speakerSound) Match() {
	speaker.Play(beep.Seq(tone(880, 60*time.Millisecond), tone(1320, 90*time.Millisecond)))
}

// Miss is a short low buzz
func (s *speakerSound) Miss() {
	speaker.Play(tone(220, 120*time.Millisecond))
}

func (s *speakerSound) Close() {
	speaker.Close()
}
