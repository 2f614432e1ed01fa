// Package protocol defines the wire messages exchanged between the
// Playback Coordinator and clients (SPEC_FULL.md §6). Generalized from
// the teacher's dto.Command/dto.State pair — which only carried
// play/pause/next and a single State type — into the full client/server
// message catalog the spec requires.
package protocol

import "github.com/xGuatx/youtube-sync-multi-client/internal/model"

// Client -> server command names.
const (
	CmdPing            = "ping"
	CmdPlay            = "play"
	CmdPause           = "pause"
	CmdSkip            = "skip"
	CmdPrevious        = "previous"
	CmdJumpTo          = "jumpTo"
	CmdSeek            = "seek"
	CmdAddToQueue      = "addToQueue"
	CmdRemoveFromQueue = "removeFromQueue"
	CmdReorderQueue    = "reorderQueue"
	CmdReadyToPlay     = "readyToPlay"
)

// Server -> client event names.
const (
	EvtRoomState        = "roomState"
	EvtQueueUpdate      = "queueUpdate"
	EvtPlayerUpdate     = "playerUpdate"
	EvtPreparePlayback  = "preparePlayback"
	EvtSynchronizedPlay = "synchronizedPlay"
	EvtSyncTime         = "syncTime"
	EvtPong             = "pong"
	EvtForceReload      = "forceReload"
)

// ClientMessage is the envelope every inbound WebSocket frame is decoded
// into. Payload shape depends on Type; see the *Payload types below.
type ClientMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// ServerMessage is the envelope every outbound WebSocket frame is
// encoded from.
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// JumpToPayload is the payload of a jumpTo command.
type JumpToPayload struct {
	Index int `json:"index"`
}

// SeekPayload is the payload of a seek command.
type SeekPayload struct {
	Seconds float64 `json:"seconds"`
}

// AddToQueuePayload is the payload of an addToQueue command.
type AddToQueuePayload struct {
	Track model.Track `json:"track"`
}

// RemoveFromQueuePayload is the payload of a removeFromQueue command.
type RemoveFromQueuePayload struct {
	Index int `json:"index"`
}

// ReorderQueuePayload is the payload of a reorderQueue command.
type ReorderQueuePayload struct {
	Queue             []model.Track `json:"queue"`
	CurrentTrackIndex int           `json:"currentTrackIndex"`
}

// ReadyToPlayPayload is the payload of a readyToPlay command.
type ReadyToPlayPayload struct {
	Epoch uint64 `json:"epoch"`
}

// PingPayload is the payload of a ping command.
type PingPayload struct {
	ClientTs int64 `json:"clientTs"`
}

// RoomStatePayload carries a full state snapshot.
type RoomStatePayload struct {
	model.RoomState
}

// PlayerUpdatePayload is emitted on pause, seek, and end-of-track with
// no next track.
type PlayerUpdatePayload struct {
	IsPlaying   bool    `json:"isPlaying"`
	CurrentTime float64 `json:"currentTime"`
	StartWallMs int64   `json:"startWallMs,omitempty"`
}

// PreparePlaybackPayload announces a new epoch entering Preparing.
type PreparePlaybackPayload struct {
	TrackIndex      int     `json:"trackIndex"`
	StartTime       float64 `json:"startTime"`
	ServerTimestamp int64   `json:"serverTimestamp"`
	Epoch           uint64  `json:"epoch"`
}

// SynchronizedPlayPayload announces ready convergence (or timeout) and
// the transition from Preparing to Playing.
type SynchronizedPlayPayload struct {
	StartTime       float64 `json:"startTime"`
	ServerTimestamp int64   `json:"serverTimestamp"`
	IsPlaying       bool    `json:"isPlaying"`
	Epoch           uint64  `json:"epoch"`
}

// SyncTimePayload is the Sync Ticker's authoritative heartbeat.
type SyncTimePayload struct {
	CurrentTime       float64 `json:"currentTime"`
	IsPlaying         bool    `json:"isPlaying"`
	CurrentTrackIndex int     `json:"currentTrackIndex"`
	ServerTimestamp   int64   `json:"serverTimestamp"`
	Epoch             uint64  `json:"epoch"`
}

// PongPayload answers a ping.
type PongPayload struct {
	ClientTimestamp int64 `json:"clientTimestamp"`
	ServerTimestamp int64 `json:"serverTimestamp"`
	LatencyMs       int64 `json:"latency"`
}
