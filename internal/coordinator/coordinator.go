// Package coordinator implements the Playback Coordinator and Sync
// Ticker (SPEC_FULL.md §4.4–4.5): the Idle/Preparing/Playing/Paused
// state machine, the command lock and cooldown that serialize
// conflicting transport commands, and the 100ms authoritative clock
// broadcast while Playing.
//
// Adapted from the teacher's internal/service/room.Room and
// room.ServiceRoom: state mutation stays mutex-guarded exactly as the
// teacher does it ("Implementation may be ... a mutex guarding all
// mutations" — SPEC_FULL.md §5), generalized from the teacher's
// play/pause/next-only command set to the full transport, navigation,
// and ready-convergence surface the spec requires.
package coordinator

import (
	"log/slog"
	"sync"
	"time"

	"github.com/xGuatx/youtube-sync-multi-client/internal/clock"
	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
	"github.com/xGuatx/youtube-sync-multi-client/internal/queue"
	"github.com/xGuatx/youtube-sync-multi-client/internal/registry"
)

// Broadcaster fans room events out to connected clients. Implementations
// must not block the caller on a slow consumer (SPEC_FULL.md §5) — the
// teacher's Room.broadcastLocked enforces this with a per-session
// select/default drop; transport/ws.Hub does the same here.
type Broadcaster interface {
	// Broadcast fans msg out to every connected session.
	Broadcast(msg protocol.ServerMessage)
	// Send delivers msg to a single session (used for pong replies).
	// Implementations should silently drop if the session is gone.
	Send(sessionID string, msg protocol.ServerMessage)
}

// Coordinator is the single authoritative owner of Room State. All
// mutating methods take an internal mutex; callers on different
// goroutines (one per client connection, plus the ticker and timers)
// observe a single, consistent total order of mutations (§5).
type Coordinator struct {
	mu sync.Mutex

	q           *queue.Queue
	mode        model.Mode
	currentTime float64
	startWallMs int64
	epoch       uint64

	sessions    *registry.Registry
	clock       clock.Clock
	scheduler   clock.Scheduler
	broadcaster Broadcaster
	logger      *slog.Logger

	// cmdLock + lastPlayPause implement the play/pause command lock and
	// 300ms cooldown (§4.4). Held only around play/pause; navigation
	// commands bypass it per §5 ("navigation none").
	cmdLock       sync.Mutex
	lastPlayPause time.Time

	readyTimer   clock.Timer
	navTimer     clock.Timer
	tickTimer    clock.Timer
	tickerActive bool
}

// Option configures a Coordinator at construction time.
type Option func(*Coordinator)

// WithLogger overrides the default slog.Logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// New constructs a Coordinator in Idle mode with an empty queue.
func New(sessions *registry.Registry, clk clock.Clock, sched clock.Scheduler, b Broadcaster, opts ...Option) *Coordinator {
	c := &Coordinator{
		q:           queue.New(),
		mode:        model.ModeIdle,
		sessions:    sessions,
		clock:       clk,
		scheduler:   sched,
		broadcaster: b,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Hydrate seeds the coordinator's queue/index/mode/currentTime from a
// persisted Snapshot at startup (§3 Lifecycles). Sessions are never
// restored (§9). Hydrate must be called before the coordinator serves
// any command.
func (c *Coordinator) Hydrate(snap model.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(snap.Queue) == 0 {
		return
	}
	_ = c.q.Reorder(snap.Queue, clampIndex(snap.CurrentIndex, len(snap.Queue)))
	c.currentTime = snap.CurrentTime
	switch snap.Mode {
	case model.ModePlaying:
		// A playing snapshot can never be resumed as playing without a
		// live epoch and ready clients; land in Paused at the persisted
		// position instead (I2/I3 still hold; I1 does not apply).
		c.mode = model.ModePaused
	case model.ModePreparing:
		c.mode = model.ModePaused
	default:
		c.mode = snap.Mode
	}
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// State returns a snapshot of the current Room State.
func (c *Coordinator) State() model.RoomState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// ToSnapshot returns the persistable subset of the current Room State,
// for the Snapshot Store's best-effort periodic Set.
func (c *Coordinator) ToSnapshot() model.Snapshot {
	return c.State().ToSnapshot()
}

func (c *Coordinator) snapshotLocked() model.RoomState {
	return model.RoomState{
		Queue:        c.q.Tracks(),
		CurrentIndex: c.q.CurrentIndex(),
		Mode:         c.mode,
		CurrentTime:  c.currentTime,
		StartWallMs:  c.startWallMs,
		Epoch:        c.epoch,
	}
}

func serverMsg(t string, payload any) protocol.ServerMessage {
	return protocol.ServerMessage{Type: t, Payload: payload}
}

func (c *Coordinator) broadcastRoomState() {
	c.broadcaster.Broadcast(serverMsg(protocol.EvtRoomState, c.State()))
}

func (c *Coordinator) broadcastQueueUpdate(snapshot model.RoomState) {
	c.broadcaster.Broadcast(serverMsg(protocol.EvtQueueUpdate, snapshot))
}

// cancelReadyTimeoutLocked cancels any armed ready-timeout. Must be
// called with mu held.
func (c *Coordinator) cancelReadyTimeoutLocked() {
	if c.readyTimer != nil {
		c.readyTimer.Stop()
		c.readyTimer = nil
	}
}

// cancelNavTimeoutLocked cancels any armed post-navigation delay. Must
// be called with mu held.
func (c *Coordinator) cancelNavTimeoutLocked() {
	if c.navTimer != nil {
		c.navTimer.Stop()
		c.navTimer = nil
	}
}

// stopTickerLocked stops the Sync Ticker. Must be called with mu held.
func (c *Coordinator) stopTickerLocked() {
	c.tickerActive = false
	if c.tickTimer != nil {
		c.tickTimer.Stop()
		c.tickTimer = nil
	}
}

// startTickerLocked starts the Sync Ticker if not already running. Must
// be called with mu held.
func (c *Coordinator) startTickerLocked() {
	if c.tickerActive {
		return
	}
	c.tickerActive = true
	c.scheduleTickLocked()
}

func (c *Coordinator) scheduleTickLocked() {
	c.tickTimer = c.scheduler.AfterFunc(protocol.SyncInterval, c.onTick)
}

// Connect attaches a session and returns the current Room State for the
// initial roomState message.
func (c *Coordinator) Connect(sessionID string) model.RoomState {
	c.sessions.Attach(sessionID)
	return c.State()
}

// Disconnect detaches a session, releasing its ready bit. If the room
// becomes empty, any armed timers are canceled per §5 (a disconnect that
// empties the room is a conflicting transition) but Mode is left
// unchanged.
func (c *Coordinator) Disconnect(sessionID string) {
	c.sessions.Detach(sessionID)
	if c.sessions.Count() > 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelReadyTimeoutLocked()
	c.cancelNavTimeoutLocked()
	c.stopTickerLocked()
}
