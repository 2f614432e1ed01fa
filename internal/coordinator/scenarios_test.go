package coordinator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
)

// Scenario 1: two-client cold start.
func TestScenarioTwoClientColdStart(t *testing.T) {
	h := newHarness()
	h.coord.AddToQueue(track("a", 180))
	h.coord.Connect("x")
	h.coord.Connect("y")

	h.coord.Play()

	prepare, found := h.bc.lastOfType(protocol.EvtPreparePlayback)
	require.True(t, found)
	payload := prepare.Payload.(protocol.PreparePlaybackPayload)
	assert.Equal(t, 0, payload.TrackIndex)
	assert.Equal(t, float64(0), payload.StartTime)
	assert.Equal(t, uint64(1), payload.Epoch)

	h.coord.ReadyToPlay("x", 1)
	h.coord.ReadyToPlay("y", 1)

	sync, found := h.bc.lastOfType(protocol.EvtSynchronizedPlay)
	require.True(t, found)
	syncPayload := sync.Payload.(protocol.SynchronizedPlayPayload)
	assert.Equal(t, float64(0), syncPayload.StartTime)
	assert.Equal(t, uint64(1), syncPayload.Epoch)
	assert.Equal(t, model.ModePlaying, h.coord.State().Mode)

	h.sched.Advance(time.Second)
	tick, found := h.bc.lastOfType(protocol.EvtSyncTime)
	require.True(t, found)
	tp := tick.Payload.(protocol.SyncTimePayload)
	assert.InDelta(t, 1.0, tp.CurrentTime, 0.15)
}

// Scenario 2: stall-one ready-timeout.
func TestScenarioStallOneReadyTimeout(t *testing.T) {
	h := newHarness()
	h.coord.AddToQueue(track("a", 180))
	h.coord.Connect("x")
	h.coord.Connect("y")

	h.coord.Play()
	h.coord.ReadyToPlay("x", 1)
	// y never calls ReadyToPlay.

	h.sched.Advance(protocol.ReadyTimeout)

	assert.Equal(t, model.ModePlaying, h.coord.State().Mode)
	_, found := h.bc.lastOfType(protocol.EvtSynchronizedPlay)
	assert.True(t, found)

	xSession, ok := h.sess.Get("x")
	require.True(t, ok)
	assert.True(t, xSession.Ready)

	ySession, ok := h.sess.Get("y")
	require.True(t, ok)
	assert.False(t, ySession.Ready)
}

// Scenario 3: mid-track skip.
func TestScenarioMidTrackSkip(t *testing.T) {
	h := newHarness()
	h.coord.AddToQueue(track("a", 180))
	h.coord.AddToQueue(track("b", 200))
	h.coord.Connect("x")
	h.coord.Play()
	h.coord.ReadyToPlay("x", 1)
	require.Equal(t, model.ModePlaying, h.coord.State().Mode)

	h.sched.Advance(42 * time.Second)

	h.coord.Skip()

	update, found := h.bc.lastOfType(protocol.EvtQueueUpdate)
	require.True(t, found)
	state := update.Payload.(model.RoomState)
	assert.Equal(t, 1, state.CurrentIndex)
	assert.Equal(t, float64(0), state.CurrentTime)

	syncCountBeforeDelay := h.bc.countOfType(protocol.EvtSyncTime)
	h.sched.Advance(499 * time.Millisecond)
	assert.Equal(t, syncCountBeforeDelay, h.bc.countOfType(protocol.EvtSyncTime), "no syncTime during the 500ms post-navigation delay")

	h.sched.Advance(1 * time.Millisecond)

	prepare, found := h.bc.lastOfType(protocol.EvtPreparePlayback)
	require.True(t, found)
	payload := prepare.Payload.(protocol.PreparePlaybackPayload)
	assert.Equal(t, 1, payload.TrackIndex)
	assert.Equal(t, float64(0), payload.StartTime)
	assert.Equal(t, uint64(2), payload.Epoch)

	ready, _ := h.sess.SnapshotReady()
	assert.Equal(t, 0, ready)
}

// Scenario 4: remove-current-last.
func TestScenarioRemoveCurrentLast(t *testing.T) {
	h := newHarness()
	h.coord.AddToQueue(track("a", 180))
	h.coord.AddToQueue(track("b", 200))
	h.coord.Connect("x")
	h.coord.Play()
	h.coord.ReadyToPlay("x", 1)
	h.coord.Skip()
	h.sched.Advance(protocol.NavPrepareDelay)
	h.coord.ReadyToPlay("x", 2)
	require.Equal(t, 1, h.coord.State().CurrentIndex)
	require.Equal(t, model.ModePlaying, h.coord.State().Mode)

	h.coord.RemoveFromQueue(1)

	state := h.coord.State()
	assert.Equal(t, 1, len(state.Queue))
	assert.Equal(t, "a", state.Queue[0].ID)
	assert.Equal(t, 0, state.CurrentIndex)
	assert.Equal(t, model.ModePaused, state.Mode)
	assert.Equal(t, float64(0), state.CurrentTime)

	_, found := h.bc.lastOfType(protocol.EvtQueueUpdate)
	assert.True(t, found)
}

// Scenario 5: play/pause cooldown.
func TestScenarioPlayPauseCooldown(t *testing.T) {
	h := newHarness()
	h.coord.AddToQueue(track("a", 180))
	h.coord.Connect("x")

	h.coord.Play()
	require.Equal(t, model.ModePreparing, h.coord.State().Mode)

	h.clk.Advance(100 * time.Millisecond)
	h.coord.Pause()

	assert.Equal(t, model.ModePreparing, h.coord.State().Mode)

	h.coord.ReadyToPlay("x", 1)
	assert.Equal(t, model.ModePlaying, h.coord.State().Mode)
}

// Scenario 6 (hard drift jump) is exercised directly against the Client
// Controller in internal/controller/controller_test.go — the coordinator
// itself has no opinion on client-side correction.
