package controller

import (
	"context"
	"time"

	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
)

// WaitBufferedFunc polls a MediaSink until it reports enough data ahead
// of startTime, or gives up. Tests inject a fake that returns
// immediately.
type WaitBufferedFunc func(ctx context.Context, sink MediaSink, startTime float64) bool

// OnPreparePlayback implements the pre-buffer sequence (§4.6): load the
// track if needed, wait for MinPrebuffer seconds of data ahead of
// startTime (or the buffering timeout), seek to startTime, and emit
// readyToPlay. Blocks on waitBuffered; callers run it in its own
// goroutine per connection.
func (c *Controller) OnPreparePlayback(ctx context.Context, payload protocol.PreparePlaybackPayload, waitBuffered WaitBufferedFunc) {
	c.mu.Lock()
	c.epoch = payload.Epoch
	c.state = StateLoading
	c.transitionUntil = c.now().Add(protocol.PrebufferTimeout + protocol.TransitionWindow)
	track := trackAt(c.queue, payload.TrackIndex)
	c.mu.Unlock()

	if track != nil {
		if err := c.sink.Load(ctx, *track); err != nil {
			c.logger.Warn("prebuffer load failed", "trackIndex", payload.TrackIndex, "err", err)
		}
	}

	c.mu.Lock()
	c.state = StatePreBuffering
	c.mu.Unlock()

	if waitBuffered == nil {
		waitBuffered = func(ctx context.Context, sink MediaSink, startTime float64) bool {
			return defaultWaitBuffered(ctx, c.now, sink)
		}
	}
	waitBuffered(ctx, c.sink, payload.StartTime)

	c.sink.Seek(payload.StartTime)

	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	c.transport.Send(protocol.CmdReadyToPlay, protocol.ReadyToPlayPayload{Epoch: epoch})
}

func trackAt(queue []model.Track, i int) *model.Track {
	if i < 0 || i >= len(queue) {
		return nil
	}
	return &queue[i]
}

// defaultWaitBuffered polls sink.BufferedAhead() until it reaches
// MinPrebufferSeconds or the PrebufferTimeout elapses on the
// controller's clock.
func defaultWaitBuffered(ctx context.Context, now func() time.Time, sink MediaSink) bool {
	deadline := now().Add(protocol.PrebufferTimeout)
	for now().Before(deadline) {
		if sink.BufferedAhead() >= protocol.MinPrebufferSeconds {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(25 * time.Millisecond):
		}
	}
	return false
}
