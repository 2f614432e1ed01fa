package coordinator

import (
	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
)

// Skip moves to the next track (§4.4 transport navigation). No-op if
// already at the last track.
func (c *Coordinator) Skip() {
	c.navigate(c.q.Next, "skip")
}

// Previous moves to the previous track. No-op if already at the first
// track.
func (c *Coordinator) Previous() {
	c.navigate(c.q.Previous, "previous")
}

// JumpTo moves unconditionally to index i, if in range.
func (c *Coordinator) JumpTo(i int) {
	c.navigate(func() bool { return c.q.JumpTo(i) == nil }, "jumpTo")
}

// navigate implements the shared shape of skip/previous/jumpTo (§4.4):
// move the index, zero currentTime, reset ready, bump epoch, stop the
// ticker, broadcast queueUpdate immediately, and — if playback was in
// progress — re-enter Preparing for the new track after the 500ms
// post-navigation delay.
func (c *Coordinator) navigate(move func() bool, cmd string) {
	c.mu.Lock()

	if !move() {
		c.mu.Unlock()
		c.logger.Warn("command dropped", "cmd", cmd, "reason", "out of range")
		return
	}

	// Playing and Preparing both need the same Paused-then-reschedule
	// handling: a nav command arriving mid-Preparing (client navigates
	// before ready-convergence completes a Play) must still leave a
	// preparePlayback outstanding for the new track, not strand the room
	// in Preparing with its timeout already cancelled below. Idle always
	// exits to Paused once a queue-dependent command succeeds, per the
	// Idle state's documented exit condition.
	needsReprepare := c.mode == model.ModePlaying || c.mode == model.ModePreparing
	c.currentTime = 0
	c.sessions.ResetReadyAll()
	c.epoch++
	c.cancelReadyTimeoutLocked()
	c.cancelNavTimeoutLocked()
	c.stopTickerLocked()
	c.mode = model.ModePaused

	snapshot := c.snapshotLocked()
	epoch := c.epoch
	c.mu.Unlock()

	c.broadcastQueueUpdate(snapshot)
	if needsReprepare {
		c.scheduleNavPrepare(epoch)
	}
}

// scheduleNavPrepare arms the 500ms post-navigation delay: if the epoch
// is still current when it fires, the room re-enters Preparing for the
// new current track.
func (c *Coordinator) scheduleNavPrepare(epoch uint64) {
	timer := c.scheduler.AfterFunc(protocol.NavPrepareDelay, func() {
		c.mu.Lock()
		if c.epoch != epoch {
			c.mu.Unlock()
			return
		}
		now := c.clock.Now()
		c.mode = model.ModePreparing
		c.navTimer = nil
		payload := preparePayload(c.q.CurrentIndex(), 0, now.UnixMilli(), epoch)
		c.mu.Unlock()

		c.broadcaster.Broadcast(serverMsg(protocol.EvtPreparePlayback, payload))
		c.armReadyTimeout(epoch)
	})

	c.mu.Lock()
	c.navTimer = timer
	c.mu.Unlock()
}

// Seek handles the seek(t) command (§4.4). Seek never re-enters
// Preparing.
func (c *Coordinator) Seek(t float64) {
	c.mu.Lock()

	if t < 0 {
		t = 0
	}
	now := c.clock.Now()
	c.currentTime = t
	isPlaying := c.mode == model.ModePlaying
	var startWallMs int64
	if isPlaying {
		c.startWallMs = now.UnixMilli() - int64(t*1000)
		startWallMs = c.startWallMs
	}
	payload := playerUpdatePayload(isPlaying, t, startWallMs)
	c.mu.Unlock()

	c.broadcaster.Broadcast(serverMsg(protocol.EvtPlayerUpdate, payload))
}

// AddToQueue appends a track and broadcasts queueUpdate.
func (c *Coordinator) AddToQueue(t model.Track) {
	c.mu.Lock()
	c.q.Append(t)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.broadcastQueueUpdate(snapshot)
}

// RemoveFromQueue removes the track at idx, applying the continuity
// rules in SPEC_FULL.md §4.3 / the Queue package, and broadcasts
// queueUpdate.
func (c *Coordinator) RemoveFromQueue(idx int) {
	c.mu.Lock()

	res, err := c.q.RemoveAt(idx)
	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("command dropped", "cmd", "removeFromQueue", "reason", err)
		return
	}

	if res.BecameEmpty || res.CurrentWrapped {
		c.mode = model.ModePaused
		c.currentTime = 0
		c.cancelReadyTimeoutLocked()
		c.cancelNavTimeoutLocked()
		c.stopTickerLocked()
	}

	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.broadcastQueueUpdate(snapshot)
}

// ReorderQueue replaces the queue wholesale, trusting the
// client-supplied currentTrackIndex per the open hardening question in
// §9 (DESIGN.md records this as an accepted Open Question decision).
func (c *Coordinator) ReorderQueue(tracks []model.Track, newIndex int) {
	c.mu.Lock()

	if err := c.q.Reorder(tracks, newIndex); err != nil {
		c.mu.Unlock()
		c.logger.Warn("command dropped", "cmd", "reorderQueue", "reason", err)
		return
	}

	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.broadcastQueueUpdate(snapshot)
}
