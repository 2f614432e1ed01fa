package controller

import (
	"math"
	"time"

	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
)

// OnSynchronizedPlay implements §4.6's synchronized-play handling:
// compute the latency- and clock-skew-compensated start position, seek
// and start playback, and exit the transition window after 1s.
func (c *Controller) OnSynchronizedPlay(payload protocol.SynchronizedPlayPayload) {
	c.mu.Lock()
	if payload.Epoch != c.epoch {
		c.mu.Unlock()
		c.logger.Warn("dropped synchronizedPlay", "reason", "stale epoch", "epoch", payload.Epoch)
		return
	}

	nowClientMs := c.now().UnixMilli()
	elapsedSinceServerStamp := float64(nowClientMs-payload.ServerTimestamp) / 1000
	adjustedTime := payload.StartTime + elapsedSinceServerStamp + float64(c.latencyMs)/1000

	c.transitionUntil = c.now().Add(protocol.SynchronizedPlayExit)
	c.state = StatePlaying
	c.mu.Unlock()

	c.sink.Seek(adjustedTime)
	c.sink.Play()
}

// OnSyncTime implements drift correction (§4.6). Messages carrying a
// stale epoch, or arriving while transitioning, are ignored.
func (c *Controller) OnSyncTime(payload protocol.SyncTimePayload) {
	c.mu.Lock()
	now := c.now()

	if payload.Epoch != c.epoch {
		c.mu.Unlock()
		return
	}
	if c.inTransition(now) {
		c.mu.Unlock()
		return
	}
	if !c.softCorrectionUntil.IsZero() && now.Before(c.softCorrectionUntil) {
		// A soft correction is active: further rate changes are
		// suppressed to prevent oscillation.
		c.mu.Unlock()
		return
	}

	// Adaptive tolerance: widen after more than two consecutive
	// corrections, and reset once 10s pass without one.
	if !c.lastCorrectionAt.IsZero() && now.Sub(c.lastCorrectionAt) >= protocol.DegradedResetWindow {
		c.consecutiveResyncs = 0
	}
	threshold := protocol.DriftSoftLow
	if c.consecutiveResyncs > 2 {
		threshold = protocol.DriftSoftHigh
	}

	cooldown := clientResyncCooldown(c.consecutiveResyncs)
	if !c.lastCorrectionAt.IsZero() && now.Sub(c.lastCorrectionAt) < cooldown {
		c.mu.Unlock()
		return
	}

	localCurrentTime := c.sink.CurrentTime()
	drift := math.Abs(payload.CurrentTime - localCurrentTime)
	if drift < threshold {
		// L3: correction is idempotent when drift is already below
		// threshold — no-op.
		c.mu.Unlock()
		return
	}

	c.lastCorrectionAt = now
	c.consecutiveResyncs++

	hard := drift >= protocol.DriftHard
	var softRate float64
	if !hard {
		if payload.CurrentTime > localCurrentTime {
			softRate = protocol.SoftCorrectionRateUp
		} else {
			softRate = protocol.SoftCorrectionRateDown
		}
		c.softCorrectionUntil = now.Add(protocol.SoftCorrectionWindow)
		c.state = StateSoftCorrecting
	}
	target := payload.CurrentTime + float64(c.latencyMs)/1000
	c.mu.Unlock()

	if hard {
		c.sink.Seek(target)
		return
	}
	c.sink.SetPlaybackRate(softRate)
	c.scheduler.AfterFunc(protocol.SoftCorrectionWindow, c.EndSoftCorrection)
}

// EndSoftCorrection returns playback rate to 1.00 once the 500ms soft
// correction window elapses. OnSyncTime schedules this itself via the
// Controller's Scheduler; tests may also call it directly to assert the
// post-window behavior without waiting out a real timer.
func (c *Controller) EndSoftCorrection() {
	c.mu.Lock()
	c.softCorrectionUntil = time.Time{}
	if c.state == StateSoftCorrecting {
		c.state = StatePlaying
	}
	c.mu.Unlock()
	c.sink.SetPlaybackRate(1.0)
}

// clientResyncCooldown returns the 2s base cooldown, or the 5s degraded
// cooldown once MaxConsecutiveResyncs corrections have fired in a row.
func clientResyncCooldown(consecutive int) time.Duration {
	if consecutive >= protocol.MaxConsecutiveResyncs {
		return protocol.DegradedCooldown
	}
	return protocol.ClientResyncCooldown
}
