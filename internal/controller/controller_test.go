package controller_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xGuatx/youtube-sync-multi-client/internal/controller"
	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
)

// fakeSink is a minimal MediaSink recording the last call of each kind,
// standing in for the headless simulatedSink cmd/syncjam-client drives
// against a real browser-less media pipeline.
type fakeSink struct {
	loaded        model.Track
	loadErr       error
	currentTime   float64
	lastSeek      float64
	lastRateSet   float64
	playCalls     int
	pauseCalls    int
	bufferedAhead float64
}

func (s *fakeSink) Load(ctx context.Context, track model.Track) error {
	s.loaded = track
	return s.loadErr
}
func (s *fakeSink) Seek(seconds float64)          { s.lastSeek = seconds; s.currentTime = seconds }
func (s *fakeSink) Play()                         { s.playCalls++ }
func (s *fakeSink) Pause()                        { s.pauseCalls++ }
func (s *fakeSink) SetPlaybackRate(rate float64)  { s.lastRateSet = rate }
func (s *fakeSink) CurrentTime() float64          { return s.currentTime }
func (s *fakeSink) BufferedAhead() float64        { return s.bufferedAhead }

// fakeTransport records every outbound command, standing in for the
// WebSocket connection the real client sends over.
type fakeTransport struct {
	sent []sentMsg
}

type sentMsg struct {
	msgType string
	payload any
}

func (t *fakeTransport) Send(msgType string, payload any) {
	t.sent = append(t.sent, sentMsg{msgType, payload})
}

func (t *fakeTransport) last() (sentMsg, bool) {
	if len(t.sent) == 0 {
		return sentMsg{}, false
	}
	return t.sent[len(t.sent)-1], true
}

func newTestController(sink *fakeSink, transport *fakeTransport, now func() time.Time) *controller.Controller {
	return controller.New(sink, transport, now, nil, nil)
}

func track(id string, duration float64) model.Track {
	return model.Track{ID: id, Source: "youtube", Duration: duration}
}

func TestSendPingThenOnPongRecordsLatency(t *testing.T) {
	sink := &fakeSink{}
	transport := &fakeTransport{}
	now := time.Unix(1_700_000_000, 0)
	ctrl := newTestController(sink, transport, func() time.Time { return now })

	ctrl.SendPing()
	msg, found := transport.last()
	require.True(t, found)
	assert.Equal(t, protocol.CmdPing, msg.msgType)
	ping := msg.payload.(protocol.PingPayload)
	assert.Equal(t, now.UnixMilli(), ping.ClientTs)

	now = now.Add(120 * time.Millisecond)
	ctrl.OnPong(protocol.PongPayload{
		ClientTimestamp: ping.ClientTs,
		ServerTimestamp: now.UnixMilli() + 5,
		LatencyMs:       60,
	})

	assert.Equal(t, int64(60), ctrl.LatencyMs())
}

func TestPrebufferSequenceEmitsReadyToPlayForCurrentEpoch(t *testing.T) {
	sink := &fakeSink{bufferedAhead: protocol.MinPrebufferSeconds}
	transport := &fakeTransport{}
	now := time.Unix(1_700_000_000, 0)
	ctrl := newTestController(sink, transport, func() time.Time { return now })

	ctrl.OnRoomState(model.RoomState{Queue: []model.Track{track("a", 180)}})

	instantWait := func(ctx context.Context, sink controller.MediaSink, startTime float64) bool { return true }
	ctrl.OnPreparePlayback(context.Background(), protocol.PreparePlaybackPayload{
		TrackIndex:      0,
		StartTime:       12.5,
		ServerTimestamp: now.UnixMilli(),
		Epoch:           1,
	}, instantWait)

	assert.Equal(t, "a", sink.loaded.ID)
	assert.Equal(t, 12.5, sink.lastSeek)

	msg, found := transport.last()
	require.True(t, found)
	assert.Equal(t, protocol.CmdReadyToPlay, msg.msgType)
	assert.Equal(t, uint64(1), msg.payload.(protocol.ReadyToPlayPayload).Epoch)
}

func TestSynchronizedPlayAppliesLatencyAndSkewCompensation(t *testing.T) {
	sink := &fakeSink{}
	transport := &fakeTransport{}
	now := time.Unix(1_700_000_000, 0)
	ctrl := newTestController(sink, transport, func() time.Time { return now })

	ctrl.OnRoomState(model.RoomState{Queue: []model.Track{track("a", 180)}})
	ctrl.OnPong(protocol.PongPayload{LatencyMs: 80})

	serverStamp := now.UnixMilli()
	now = now.Add(200 * time.Millisecond)

	ctrl.OnSynchronizedPlay(protocol.SynchronizedPlayPayload{
		StartTime:       5.0,
		ServerTimestamp: serverStamp,
		IsPlaying:       true,
		Epoch:           0,
	})

	// adjustedTime = 5.0 + 0.2 (elapsed) + 0.08 (latency) = 5.28
	assert.InDelta(t, 5.28, sink.lastSeek, 0.001)
	assert.Equal(t, 1, sink.playCalls)
	assert.Equal(t, controller.StatePlaying, ctrl.State())
}

func TestSynchronizedPlayDropsStaleEpoch(t *testing.T) {
	sink := &fakeSink{}
	transport := &fakeTransport{}
	now := time.Unix(1_700_000_000, 0)
	ctrl := newTestController(sink, transport, func() time.Time { return now })
	ctrl.OnRoomState(model.RoomState{Queue: []model.Track{track("a", 180)}})

	// bump the controller's epoch via a prepare sequence for epoch 1
	ctrl.OnPreparePlayback(context.Background(), protocol.PreparePlaybackPayload{Epoch: 1}, func(ctx context.Context, sink controller.MediaSink, startTime float64) bool { return true })

	ctrl.OnSynchronizedPlay(protocol.SynchronizedPlayPayload{StartTime: 1, ServerTimestamp: now.UnixMilli(), Epoch: 0})
	assert.Equal(t, 0, sink.playCalls, "stale-epoch synchronizedPlay must be ignored")
}

// Scenario 6 (SPEC_FULL.md §8): hard drift jump. Client is 1.4s behind
// server, not transitioning, cooldown expired: hard seek, no rate change.
func TestHardDriftJumpSeeksWithoutAdjustingRate(t *testing.T) {
	sink := &fakeSink{}
	transport := &fakeTransport{}
	now := time.Unix(1_700_000_000, 0)
	ctrl := newTestController(sink, transport, func() time.Time { return now })

	ctrl.OnRoomState(model.RoomState{Queue: []model.Track{track("a", 180)}})
	ctrl.OnSynchronizedPlay(protocol.SynchronizedPlayPayload{
		StartTime:       0,
		ServerTimestamp: now.UnixMilli(),
		Epoch:           0,
	})

	now = now.Add(protocol.SynchronizedPlayExit + time.Second)
	sink.currentTime = 10.0

	ctrl.OnSyncTime(protocol.SyncTimePayload{
		CurrentTime: 11.4,
		Epoch:       0,
	})

	assert.True(t, math.Abs(sink.lastSeek-11.4) < 0.01)
	assert.Equal(t, float64(0), sink.lastRateSet, "hard seek does not adjust playback rate")
}

// L3: drift correction is idempotent below threshold.
func TestDriftCorrectionBelowThresholdIsNoop(t *testing.T) {
	sink := &fakeSink{}
	transport := &fakeTransport{}
	now := time.Unix(1_700_000_000, 0)
	ctrl := newTestController(sink, transport, func() time.Time { return now })

	ctrl.OnRoomState(model.RoomState{Queue: []model.Track{track("a", 180)}})
	ctrl.OnSynchronizedPlay(protocol.SynchronizedPlayPayload{StartTime: 0, ServerTimestamp: now.UnixMilli(), Epoch: 0})
	now = now.Add(protocol.SynchronizedPlayExit + time.Second)
	sink.currentTime = 10.0
	sink.lastSeek = 0
	sink.lastRateSet = 0

	ctrl.OnSyncTime(protocol.SyncTimePayload{CurrentTime: 10.1, Epoch: 0})

	assert.Equal(t, float64(0), sink.lastSeek)
	assert.Equal(t, float64(0), sink.lastRateSet)
}

func TestSoftCorrectionThenEndReturnsRateToNormal(t *testing.T) {
	sink := &fakeSink{}
	transport := &fakeTransport{}
	now := time.Unix(1_700_000_000, 0)
	ctrl := newTestController(sink, transport, func() time.Time { return now })

	ctrl.OnRoomState(model.RoomState{Queue: []model.Track{track("a", 180)}})
	ctrl.OnSynchronizedPlay(protocol.SynchronizedPlayPayload{StartTime: 0, ServerTimestamp: now.UnixMilli(), Epoch: 0})
	now = now.Add(protocol.SynchronizedPlayExit + time.Second)
	sink.currentTime = 10.0

	ctrl.OnSyncTime(protocol.SyncTimePayload{CurrentTime: 10.5, Epoch: 0})
	assert.Equal(t, protocol.SoftCorrectionRateUp, sink.lastRateSet)

	ctrl.EndSoftCorrection()
	assert.Equal(t, float64(1.0), sink.lastRateSet)
	assert.Equal(t, controller.StatePlaying, ctrl.State())
}

type failingReloader struct{ err error }

func (r failingReloader) Reload(ctx context.Context, atTime float64) error { return r.err }

func TestWatchdogReloadsOnStallAndSurfacesRepeatedFailure(t *testing.T) {
	sink := &fakeSink{}
	transport := &fakeTransport{}
	now := time.Unix(1_700_000_000, 0)
	ctrl := newTestController(sink, transport, func() time.Time { return now })

	ctrl.OnRoomState(model.RoomState{Queue: []model.Track{track("a", 180)}})
	ctrl.OnSynchronizedPlay(protocol.SynchronizedPlayPayload{StartTime: 0, ServerTimestamp: now.UnixMilli(), Epoch: 0})
	now = now.Add(protocol.SynchronizedPlayExit)
	sink.currentTime = 5.0

	ctrl.WatchdogTick(context.Background(), failingReloader{}, nil)
	assert.Equal(t, controller.StatePlaying, ctrl.State(), "first tick only seeds the watchdog baseline")

	now = now.Add(4 * time.Second) // stalled: currentTime unchanged for >3s
	errored := false
	ctrl.WatchdogTick(context.Background(), failingReloader{err: errors.New("decode failed")}, func() { errored = true })

	assert.True(t, errored, "repeated watchdog failure surfaces an audio error")
}
