package coordinator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xGuatx/youtube-sync-multi-client/internal/clock"
	"github.com/xGuatx/youtube-sync-multi-client/internal/coordinator"
	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
	"github.com/xGuatx/youtube-sync-multi-client/internal/registry"
)

// fakeBroadcaster records every message sent to it, standing in for
// transport/ws.Hub in tests.
type fakeBroadcaster struct {
	broadcasts []protocol.ServerMessage
	sent       map[string][]protocol.ServerMessage
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{sent: make(map[string][]protocol.ServerMessage)}
}

func (f *fakeBroadcaster) Broadcast(msg protocol.ServerMessage) {
	f.broadcasts = append(f.broadcasts, msg)
}

func (f *fakeBroadcaster) Send(sessionID string, msg protocol.ServerMessage) {
	f.sent[sessionID] = append(f.sent[sessionID], msg)
}

func (f *fakeBroadcaster) lastOfType(t string) (protocol.ServerMessage, bool) {
	for i := len(f.broadcasts) - 1; i >= 0; i-- {
		if f.broadcasts[i].Type == t {
			return f.broadcasts[i], true
		}
	}
	return protocol.ServerMessage{}, false
}

func (f *fakeBroadcaster) countOfType(t string) int {
	n := 0
	for _, m := range f.broadcasts {
		if m.Type == t {
			n++
		}
	}
	return n
}

type harness struct {
	coord   *coordinator.Coordinator
	clk     *clock.Fake
	sched   *clock.FakeScheduler
	bc      *fakeBroadcaster
	sess    *registry.Registry
}

func newHarness() *harness {
	clk := clock.NewFake(time.Unix(1_700_000_000, 0))
	sched := clock.NewFakeScheduler(clk)
	bc := newFakeBroadcaster()
	sess := registry.New()
	coord := coordinator.New(sess, clk, sched, bc)
	return &harness{coord: coord, clk: clk, sched: sched, bc: bc, sess: sess}
}

func track(id string, duration float64) model.Track {
	return model.Track{ID: id, Source: "youtube", Duration: duration}
}

func TestPlayWithEmptyQueueIsNoop(t *testing.T) {
	h := newHarness()
	h.coord.Play()
	_, found := h.bc.lastOfType(protocol.EvtPreparePlayback)
	assert.False(t, found)
	assert.Equal(t, model.ModeIdle, h.coord.State().Mode)
}

func TestPlayEntersPreparingAndBroadcasts(t *testing.T) {
	h := newHarness()
	h.coord.AddToQueue(track("a", 180))
	h.coord.Connect("s1")

	h.coord.Play()

	state := h.coord.State()
	assert.Equal(t, model.ModePreparing, state.Mode)
	assert.Equal(t, uint64(1), state.Epoch)

	msg, found := h.bc.lastOfType(protocol.EvtPreparePlayback)
	require.True(t, found)
	payload := msg.Payload.(protocol.PreparePlaybackPayload)
	assert.Equal(t, uint64(1), payload.Epoch)
	assert.Equal(t, 0, payload.TrackIndex)
}

func TestReadyConvergenceTransitionsToPlaying(t *testing.T) {
	h := newHarness()
	h.coord.AddToQueue(track("a", 180))
	h.coord.Connect("s1")
	h.coord.Connect("s2")

	h.coord.Play()
	h.coord.ReadyToPlay("s1", 1)
	assert.Equal(t, model.ModePreparing, h.coord.State().Mode, "not yet playing with one of two ready")

	h.coord.ReadyToPlay("s2", 1)
	assert.Equal(t, model.ModePlaying, h.coord.State().Mode)

	_, found := h.bc.lastOfType(protocol.EvtSynchronizedPlay)
	assert.True(t, found)
}

func TestReadyToPlayWithStaleEpochIsDropped(t *testing.T) {
	h := newHarness()
	h.coord.AddToQueue(track("a", 180))
	h.coord.Connect("s1")
	h.coord.Play()

	h.coord.ReadyToPlay("s1", 0) // epoch is now 1, this is stale
	assert.Equal(t, model.ModePreparing, h.coord.State().Mode)
}

func TestReadyTimeoutAdvancesWithoutFullConvergence(t *testing.T) {
	h := newHarness()
	h.coord.AddToQueue(track("a", 180))
	h.coord.Connect("s1")
	h.coord.Connect("s2")

	h.coord.Play()
	h.coord.ReadyToPlay("s1", 1)

	h.sched.Advance(protocol.ReadyTimeout)

	assert.Equal(t, model.ModePlaying, h.coord.State().Mode)
	_, found := h.bc.lastOfType(protocol.EvtSynchronizedPlay)
	assert.True(t, found)
}

func TestPauseRecordsCurrentTimeAndStopsTicker(t *testing.T) {
	h := newHarness()
	h.coord.AddToQueue(track("a", 180))
	h.coord.Connect("s1")
	h.coord.Play()
	h.coord.ReadyToPlay("s1", 1)
	require.Equal(t, model.ModePlaying, h.coord.State().Mode)

	h.clk.Advance(2 * time.Second)
	h.sched.Advance(0)

	h.coord.Pause()

	state := h.coord.State()
	assert.Equal(t, model.ModePaused, state.Mode)
	assert.InDelta(t, 2.0, state.CurrentTime, 0.05)

	countBefore := h.bc.countOfType(protocol.EvtSyncTime)
	h.sched.Advance(time.Second)
	assert.Equal(t, countBefore, h.bc.countOfType(protocol.EvtSyncTime), "P3: no syncTime while paused")
}

func TestPlayPauseCooldownDropsImmediatePause(t *testing.T) {
	h := newHarness()
	h.coord.AddToQueue(track("a", 180))
	h.coord.Connect("s1")

	h.coord.Play()
	require.Equal(t, model.ModePreparing, h.coord.State().Mode)

	h.clk.Advance(100 * time.Millisecond)
	h.coord.Pause()

	assert.Equal(t, model.ModePreparing, h.coord.State().Mode, "pause within 300ms cooldown is dropped")
}

func TestSkipResetsReadyAndBumpsEpoch(t *testing.T) {
	h := newHarness()
	h.coord.AddToQueue(track("a", 180))
	h.coord.AddToQueue(track("b", 200))
	h.coord.Connect("s1")
	h.coord.Play()
	h.coord.ReadyToPlay("s1", 1)
	require.Equal(t, model.ModePlaying, h.coord.State().Mode)

	h.coord.Skip()

	state := h.coord.State()
	assert.Equal(t, 1, state.CurrentIndex)
	assert.Equal(t, float64(0), state.CurrentTime)
	assert.Equal(t, uint64(2), state.Epoch)

	ready, _ := h.sess.SnapshotReady()
	assert.Equal(t, 0, ready)
}

func TestHydrateLandsPlayingSnapshotAsPaused(t *testing.T) {
	h := newHarness()
	h.coord.Hydrate(model.Snapshot{
		Queue:        []model.Track{track("a", 180)},
		CurrentIndex: 0,
		Mode:         model.ModePlaying,
		CurrentTime:  42,
	})

	state := h.coord.State()
	assert.Equal(t, model.ModePaused, state.Mode)
	assert.Equal(t, float64(42), state.CurrentTime)
	assert.Equal(t, 0, state.CurrentIndex)
}

func TestAddThenRemoveLastReturnsQueueToPriorState(t *testing.T) {
	// L1: addToQueue(t); removeFromQueue(last) returns the queue (but
	// not necessarily the index) to its prior state.
	h := newHarness()
	h.coord.AddToQueue(track("a", 180))
	before := h.coord.State().Queue

	h.coord.AddToQueue(track("b", 200))
	h.coord.RemoveFromQueue(1)

	after := h.coord.State().Queue
	assert.Equal(t, before, after)
}
