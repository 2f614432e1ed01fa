package main

import (
	"context"
	"sync"
	"time"

	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
)

// simulatedSink is a headless stand-in for the browser media element the
// original client drives directly. It advances its own currentTime in
// real time while "playing" and reports a buffer that fills instantly,
// which is enough to exercise the Client Controller's timing logic
// without an actual audio pipeline.
type simulatedSink struct {
	mu          sync.Mutex
	loaded      model.Track
	currentTime float64
	playing     bool
	rate        float64
	lastTick    time.Time
}

func newSimulatedSink() *simulatedSink {
	return &simulatedSink{rate: 1.0}
}

func (s *simulatedSink) Load(ctx context.Context, track model.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = track
	s.currentTime = 0
	s.playing = false
	return nil
}

func (s *simulatedSink) Seek(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentTime = seconds
	s.lastTick = time.Now()
}

func (s *simulatedSink) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = true
	s.lastTick = time.Now()
}

func (s *simulatedSink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceLocked()
	s.playing = false
}

func (s *simulatedSink) SetPlaybackRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceLocked()
	s.rate = rate
}

func (s *simulatedSink) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceLocked()
	return s.currentTime
}

func (s *simulatedSink) BufferedAhead() float64 {
	return 30
}

// advanceLocked folds elapsed wall time into currentTime at the current
// playback rate. Must be called with mu held.
func (s *simulatedSink) advanceLocked() {
	if !s.playing {
		return
	}
	now := time.Now()
	if !s.lastTick.IsZero() {
		s.currentTime += now.Sub(s.lastTick).Seconds() * s.rate
	}
	s.lastTick = now
}
