package coordinator

import (
	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
	"github.com/xGuatx/youtube-sync-multi-client/internal/syncjamerr"
)

// ReadyToPlay handles a readyToPlay(sessionId, epoch) command. Stale
// epochs are dropped silently (Protocol error class, §7).
func (c *Coordinator) ReadyToPlay(sessionID string, epoch uint64) {
	c.mu.Lock()

	if epoch != c.epoch {
		c.mu.Unlock()
		c.logger.Warn("command dropped", "cmd", "readyToPlay", "reason", syncjamerr.ErrStaleEpoch, "session", sessionID)
		return
	}
	c.sessions.MarkReady(sessionID)

	if c.mode != model.ModePreparing {
		c.mu.Unlock()
		return
	}
	ready, total := c.sessions.SnapshotReady()
	if total == 0 || ready < total {
		c.mu.Unlock()
		return
	}

	c.cancelReadyTimeoutLocked()
	payload, msgType := c.transitionToPlayingLocked()
	c.mu.Unlock()

	c.broadcaster.Broadcast(serverMsg(msgType, payload))
}

// armReadyTimeout schedules the 10s ready-timeout for epoch. If the
// timeout fires while still Preparing in the same epoch, the room
// proceeds to Playing regardless of how many sessions are ready.
func (c *Coordinator) armReadyTimeout(epoch uint64) {
	timer := c.scheduler.AfterFunc(protocol.ReadyTimeout, func() {
		c.mu.Lock()
		if c.epoch != epoch || c.mode != model.ModePreparing {
			c.mu.Unlock()
			return
		}
		ready, total := c.sessions.SnapshotReady()
		c.logger.Info("ready timeout elapsed, starting playback", "ready", ready, "total", total, "epoch", epoch)
		payload, msgType := c.transitionToPlayingLocked()
		c.mu.Unlock()

		c.broadcaster.Broadcast(serverMsg(msgType, payload))
	})

	c.mu.Lock()
	c.readyTimer = timer
	c.mu.Unlock()
}

// transitionToPlayingLocked moves Preparing -> Playing, starts the Sync
// Ticker, and returns the synchronizedPlay payload to broadcast. Must be
// called with mu held; the caller is responsible for broadcasting after
// releasing the lock.
func (c *Coordinator) transitionToPlayingLocked() (any, string) {
	now := c.clock.Now()
	c.mode = model.ModePlaying
	c.readyTimer = nil
	c.startWallMs = now.UnixMilli() - int64(c.currentTime*1000)
	c.startTickerLocked()

	return synchronizedPlayPayload(c.currentTime, now.UnixMilli(), c.epoch), protocol.EvtSynchronizedPlay
}
