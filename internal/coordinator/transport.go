package coordinator

import (
	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
	"github.com/xGuatx/youtube-sync-multi-client/internal/syncjamerr"
)

// Play handles the play command (§4.4, guarded). A command arriving
// while the command lock is held, or within the 300ms play/pause
// cooldown, is dropped silently (logged).
func (c *Coordinator) Play() {
	if !c.cmdLock.TryLock() {
		c.logger.Warn("command dropped", "cmd", "play", "reason", "command lock held")
		return
	}
	defer c.cmdLock.Unlock()

	c.mu.Lock()

	now := c.clock.Now()
	if !c.lastPlayPause.IsZero() && now.Sub(c.lastPlayPause) < playPauseCooldown() {
		c.mu.Unlock()
		c.logger.Warn("command dropped", "cmd", "play", "reason", "cooldown")
		return
	}

	if c.mode == model.ModePlaying {
		c.mu.Unlock()
		return
	}
	if c.mode != model.ModePaused && c.mode != model.ModeIdle {
		c.mu.Unlock()
		return
	}
	if c.q.Len() == 0 {
		c.mu.Unlock()
		c.logger.Warn("command dropped", "cmd", "play", "reason", syncjamerr.ErrRoomEmpty)
		return
	}

	c.lastPlayPause = now
	c.sessions.ResetReadyAll()
	c.startWallMs = now.UnixMilli() - int64(c.currentTime*1000)
	c.epoch++
	c.mode = model.ModePreparing
	c.cancelNavTimeoutLocked()

	payload := preparePayload(c.q.CurrentIndex(), c.currentTime, now.UnixMilli(), c.epoch)
	epoch := c.epoch
	c.mu.Unlock()

	c.broadcaster.Broadcast(serverMsg(protocol.EvtPreparePlayback, payload))
	c.armReadyTimeout(epoch)
}

// Pause handles the pause command (§4.4, guarded).
func (c *Coordinator) Pause() {
	if !c.cmdLock.TryLock() {
		c.logger.Warn("command dropped", "cmd", "pause", "reason", "command lock held")
		return
	}
	defer c.cmdLock.Unlock()

	c.mu.Lock()

	now := c.clock.Now()
	if !c.lastPlayPause.IsZero() && now.Sub(c.lastPlayPause) < playPauseCooldown() {
		c.mu.Unlock()
		c.logger.Warn("command dropped", "cmd", "pause", "reason", "cooldown")
		return
	}

	if c.mode != model.ModePlaying {
		c.mu.Unlock()
		return
	}

	c.lastPlayPause = now
	c.currentTime = float64(now.UnixMilli()-c.startWallMs) / 1000
	c.mode = model.ModePaused
	c.cancelReadyTimeoutLocked()
	c.stopTickerLocked()

	payload := playerUpdatePayload(false, c.currentTime, 0)
	c.mu.Unlock()

	c.broadcaster.Broadcast(serverMsg(protocol.EvtPlayerUpdate, payload))
}
