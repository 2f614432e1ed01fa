package coordinator

import (
	"github.com/xGuatx/youtube-sync-multi-client/internal/debugassert"
	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
)

// onTick fires every SyncInterval while Playing (§4.5). It recomputes
// currentTime from the virtual clock, raises end-of-track if the track
// has finished, and otherwise broadcasts syncTime and reschedules
// itself.
func (c *Coordinator) onTick() {
	c.mu.Lock()

	if !c.tickerActive {
		c.mu.Unlock()
		return
	}

	now := c.clock.Now()
	track, ok := c.q.Current()
	if !ok {
		c.stopTickerLocked()
		c.mu.Unlock()
		return
	}

	currentTime := float64(now.UnixMilli()-c.startWallMs) / 1000
	if !debugassert.Invariant(currentTime >= 0, "virtual clock went negative", "currentTime", currentTime, "epoch", c.epoch) {
		currentTime = 0
	}
	if currentTime >= track.Duration {
		c.stopTickerLocked()
		c.mu.Unlock()
		c.onEndOfTrack()
		return
	}

	c.currentTime = currentTime
	payload := syncTimePayload(currentTime, c.q.CurrentIndex(), now.UnixMilli(), c.epoch)
	c.scheduleTickLocked()
	c.mu.Unlock()

	c.broadcaster.Broadcast(serverMsg(protocol.EvtSyncTime, payload))
}

// onEndOfTrack handles the Sync Ticker's end-of-track event (§4.4): if
// there is a next track, advance to it, reset ready, bump epoch,
// broadcast queueUpdate immediately and re-enter Preparing after the
// 500ms post-navigation delay; otherwise pause on the current (last)
// track with currentTime reset to 0.
func (c *Coordinator) onEndOfTrack() {
	c.mu.Lock()

	hasNext := c.q.Next()
	c.currentTime = 0
	c.epoch++
	c.sessions.ResetReadyAll()
	c.cancelReadyTimeoutLocked()

	if !hasNext {
		c.mode = model.ModePaused
		payload := playerUpdatePayload(false, 0, 0)
		c.mu.Unlock()
		c.broadcaster.Broadcast(serverMsg(protocol.EvtPlayerUpdate, payload))
		return
	}

	c.mode = model.ModePaused
	snapshot := c.snapshotLocked()
	epoch := c.epoch
	c.mu.Unlock()

	c.broadcastQueueUpdate(snapshot)
	c.scheduleNavPrepare(epoch)
}
