// Package controller implements the Client Controller (SPEC_FULL.md
// §4.6): latency measurement via ping-pong, pre-buffer confirmation
// before playback, and bounded drift correction while playing. It is
// headless — there is no browser in this environment — so it drives an
// injected MediaSink instead of a DOM media element, mirroring the
// client state-machine re-architecture note in §9 (flag soup ->
// {Idle, Loading, PreBuffering, Playing, Paused, SoftCorrecting} with an
// explicit epoch counter).
package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xGuatx/youtube-sync-multi-client/internal/clock"
	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
)

// ClientState enumerates the client-side playback state machine (§9).
type ClientState int

const (
	StateIdle ClientState = iota
	StateLoading
	StatePreBuffering
	StatePlaying
	StatePaused
	StateSoftCorrecting
)

// MediaSink abstracts the browser media element the original client
// drives. A fake implementation lets tests exercise the controller's
// timing logic without a real player.
type MediaSink interface {
	Load(ctx context.Context, track model.Track) error
	Seek(seconds float64)
	Play()
	Pause()
	SetPlaybackRate(rate float64)
	CurrentTime() float64
	// BufferedAhead reports how many seconds of data are buffered past
	// the current play head.
	BufferedAhead() float64
}

// Transport is the minimal outbound surface the controller needs: send
// a command to the coordinator. Implementations wrap the WebSocket
// connection.
type Transport interface {
	Send(msgType string, payload any)
}

// Controller runs on one client and tracks one room's Client Session.
type Controller struct {
	mu sync.Mutex

	sink      MediaSink
	transport Transport
	now       func() time.Time
	scheduler clock.Scheduler
	logger    *slog.Logger

	state ClientState
	epoch uint64
	queue []model.Track

	latencyMs        int64
	serverTimeOffset int64 // serverTs - nowClient, milliseconds

	transitionUntil time.Time

	lastCorrectionAt    time.Time
	consecutiveResyncs  int
	degradedSince       time.Time
	softCorrectionUntil time.Time

	lastWatchdogTime float64
	lastWatchdogAt   time.Time
}

// New constructs a Controller. now defaults to time.Now if nil (tests
// inject a deterministic clock); sched defaults to clock.RealScheduler{}
// if nil and drives the 500ms soft-correction revert scheduled by
// OnSyncTime (§4.6).
func New(sink MediaSink, transport Transport, now func() time.Time, sched clock.Scheduler, logger *slog.Logger) *Controller {
	if now == nil {
		now = time.Now
	}
	if sched == nil {
		sched = clock.RealScheduler{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		sink:      sink,
		transport: transport,
		now:       now,
		scheduler: sched,
		logger:    logger,
		state:     StateIdle,
	}
}

// State returns the current client state machine state.
func (c *Controller) State() ClientState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// inTransition reports whether incoming syncTime messages should be
// ignored right now.
func (c *Controller) inTransition(now time.Time) bool {
	return !c.transitionUntil.IsZero() && now.Before(c.transitionUntil)
}

// OnRoomState applies an initial roomState/queueUpdate snapshot,
// tracking the queue for track lookups by index.
func (c *Controller) OnRoomState(state model.RoomState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = state.Queue
}

// OnQueueUpdate applies a queueUpdate and, if the current index changed,
// opens a 3s transition window per §4.6 ("Transition is also set for a
// fixed window after any queueUpdate that changes currentIndex").
func (c *Controller) OnQueueUpdate(state model.RoomState, indexChanged bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = state.Queue
	if indexChanged {
		c.transitionUntil = c.now().Add(protocol.TransitionWindow)
	}
}
