// Package ws implements the WebSocket transport: accepting connections,
// decoding inbound commands onto the Playback Coordinator, and fanning
// outbound events back out through Hub. Adapted from the teacher's
// transport/ws.WSHandler (coder/websocket + wsjson, a single read loop
// plus a forwarding goroutine per connection), generalized from the
// teacher's three-command switch to the full command catalog and from a
// per-room broadcast channel to Hub's drop-on-full fan-out.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
)

// Coordinator is the subset of *coordinator.Coordinator the handler
// drives. Declared locally so this package doesn't import coordinator
// directly, mirroring the teacher's own ServiceRoom seam.
type Coordinator interface {
	Connect(sessionID string) model.RoomState
	Disconnect(sessionID string)

	Play()
	Pause()
	Skip()
	Previous()
	JumpTo(index int)
	Seek(seconds float64)
	AddToQueue(t model.Track)
	RemoveFromQueue(index int)
	ReorderQueue(tracks []model.Track, newIndex int)
	ReadyToPlay(sessionID string, epoch uint64)
	Ping(sessionID string, clientTs int64)
}

// Handler upgrades incoming requests to WebSocket connections and wires
// each one to the Coordinator and the Hub.
type Handler struct {
	coordinator Coordinator
	hub         *Hub
	logger      *slog.Logger
}

// NewHandler constructs a Handler. logger defaults to slog.Default if nil.
func NewHandler(coordinator Coordinator, hub *Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{coordinator: coordinator, hub: hub, logger: logger}
}

// ServeHTTP upgrades the connection, registers a session, and runs the
// read loop until the client disconnects or sends a malformed frame.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket accept failed", "err", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	sessionID := uuid.NewString()
	ctx := r.Context()

	send := h.hub.register(sessionID, conn)
	defer h.hub.unregister(sessionID)
	defer h.coordinator.Disconnect(sessionID)

	state := h.coordinator.Connect(sessionID)
	send(protocol.ServerMessage{Type: protocol.EvtRoomState, Payload: state})

	for {
		var msg protocol.ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			h.logger.Info("websocket closed", "session", sessionID, "err", err)
			return
		}
		h.dispatch(sessionID, msg)
	}
}

func (h *Handler) dispatch(sessionID string, msg protocol.ClientMessage) {
	raw, err := json.Marshal(msg.Payload)
	if err != nil {
		h.logger.Warn("dropped malformed payload", "session", sessionID, "type", msg.Type, "err", err)
		return
	}

	switch msg.Type {
	case protocol.CmdPlay:
		h.coordinator.Play()
	case protocol.CmdPause:
		h.coordinator.Pause()
	case protocol.CmdSkip:
		h.coordinator.Skip()
	case protocol.CmdPrevious:
		h.coordinator.Previous()
	case protocol.CmdJumpTo:
		var p protocol.JumpToPayload
		if h.decode(sessionID, msg.Type, raw, &p) {
			h.coordinator.JumpTo(p.Index)
		}
	case protocol.CmdSeek:
		var p protocol.SeekPayload
		if h.decode(sessionID, msg.Type, raw, &p) {
			h.coordinator.Seek(p.Seconds)
		}
	case protocol.CmdAddToQueue:
		var p protocol.AddToQueuePayload
		if h.decode(sessionID, msg.Type, raw, &p) {
			h.coordinator.AddToQueue(p.Track)
		}
	case protocol.CmdRemoveFromQueue:
		var p protocol.RemoveFromQueuePayload
		if h.decode(sessionID, msg.Type, raw, &p) {
			h.coordinator.RemoveFromQueue(p.Index)
		}
	case protocol.CmdReorderQueue:
		var p protocol.ReorderQueuePayload
		if h.decode(sessionID, msg.Type, raw, &p) {
			h.coordinator.ReorderQueue(p.Queue, p.CurrentTrackIndex)
		}
	case protocol.CmdReadyToPlay:
		var p protocol.ReadyToPlayPayload
		if h.decode(sessionID, msg.Type, raw, &p) {
			h.coordinator.ReadyToPlay(sessionID, p.Epoch)
		}
	case protocol.CmdPing:
		var p protocol.PingPayload
		if h.decode(sessionID, msg.Type, raw, &p) {
			h.coordinator.Ping(sessionID, p.ClientTs)
		}
	default:
		h.logger.Warn("dropped unknown command", "session", sessionID, "type", msg.Type)
	}
}

func (h *Handler) decode(sessionID, cmdType string, raw []byte, v any) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		h.logger.Warn("dropped malformed payload", "session", sessionID, "type", cmdType, "err", err)
		return false
	}
	return true
}
