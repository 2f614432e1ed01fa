package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
)

// outboundBuffer bounds how many unsent messages a session's writer
// queue holds before Hub starts dropping new messages for that session
// (SPEC_FULL.md §5: a
// slow consumer must never block the coordinator). The Sync Ticker
// alone produces one message every 100ms, so a few seconds of slack is
// enough headroom for a brief stall without unbounded growth.
const outboundBuffer = 32

// Hub fans coordinator events out to every connected WebSocket session
// and implements coordinator.Broadcaster. Adapted from the teacher's
// Room.broadcastLocked, generalized from an inline map-of-channels
// owned by the room itself into a standalone component the transport
// layer owns, so the coordinator never touches a net/http type.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]chan protocol.ServerMessage
	logger   *slog.Logger
}

// NewHub constructs an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{sessions: make(map[string]chan protocol.ServerMessage), logger: logger}
}

// register creates the session's outbound queue, starts its writer
// pump, and returns a function the handler can use to send directly
// (used for the initial roomState before the read loop starts).
func (h *Hub) register(sessionID string, conn *websocket.Conn) func(protocol.ServerMessage) {
	ch := make(chan protocol.ServerMessage, outboundBuffer)

	h.mu.Lock()
	h.sessions[sessionID] = ch
	h.mu.Unlock()

	go h.pump(sessionID, conn, ch)

	return func(msg protocol.ServerMessage) {
		select {
		case ch <- msg:
		default:
			h.logger.Warn("dropped outbound message", "session", sessionID, "reason", "queue full")
		}
	}
}

func (h *Hub) unregister(sessionID string) {
	h.mu.Lock()
	ch, ok := h.sessions[sessionID]
	delete(h.sessions, sessionID)
	h.mu.Unlock()
	if ok {
		close(ch)
	}
}

func (h *Hub) pump(sessionID string, conn *websocket.Conn, ch chan protocol.ServerMessage) {
	ctx := context.Background()
	for msg := range ch {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := wsjson.Write(writeCtx, conn, msg)
		cancel()
		if err != nil {
			h.logger.Info("websocket write failed", "session", sessionID, "err", err)
			return
		}
	}
}

// Broadcast fans msg out to every connected session, dropping it for any
// session whose queue is full rather than blocking the caller.
func (h *Hub) Broadcast(msg protocol.ServerMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sessionID, ch := range h.sessions {
		select {
		case ch <- msg:
		default:
			h.logger.Warn("dropped outbound message", "session", sessionID, "reason", "queue full")
		}
	}
}

// BroadcastReload sends the admin forceReload event to every connected
// session (SPEC_FULL.md §6's "reload broadcast endpoint").
func (h *Hub) BroadcastReload() {
	h.Broadcast(protocol.ServerMessage{Type: protocol.EvtForceReload})
}

// Send delivers msg to a single session, silently dropping it if the
// session has disconnected or its queue is full.
func (h *Hub) Send(sessionID string, msg protocol.ServerMessage) {
	h.mu.RLock()
	ch, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		h.logger.Warn("dropped outbound message", "session", sessionID, "reason", "queue full")
	}
}
