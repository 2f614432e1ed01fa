package controller

import (
	"context"
	"time"
)

// Reloader reloads the currently loaded source, preserving currentTime,
// and retries play. Wraps whatever resolved the original source (the
// audio URL resolver, from the client's point of view).
type Reloader interface {
	Reload(ctx context.Context, atTime float64) error
}

// WatchdogTick implements the 2s health watchdog (§4.6): verify media
// currentTime advanced within the last 3s while playing; if not,
// reload preserving currentTime and retry play. Repeated failure is
// surfaced as an OnAudioError, which the room interprets as skip.
func (c *Controller) WatchdogTick(ctx context.Context, reloader Reloader, onAudioError func()) {
	c.mu.Lock()
	now := c.now()
	playing := c.state == StatePlaying || c.state == StateSoftCorrecting
	current := c.sink.CurrentTime()

	stalled := false
	if playing {
		if c.lastWatchdogAt.IsZero() {
			c.lastWatchdogAt = now
			c.lastWatchdogTime = current
		} else if current == c.lastWatchdogTime && now.Sub(c.lastWatchdogAt) > 3*time.Second {
			stalled = true
		} else if current != c.lastWatchdogTime {
			c.lastWatchdogAt = now
			c.lastWatchdogTime = current
		}
	} else {
		c.lastWatchdogAt = time.Time{}
	}
	c.mu.Unlock()

	if !stalled {
		return
	}

	if err := reloader.Reload(ctx, current); err != nil {
		c.logger.Warn("watchdog reload failed", "err", err)
		if onAudioError != nil {
			onAudioError()
		}
		return
	}
	c.sink.Play()
}
