// Package syncjamerr collects the sentinel errors shared across syncjam's
// packages so callers can errors.Is instead of matching log strings, per
// the Transient/Client-local/Protocol/Fatal taxonomy.
package syncjamerr

import "errors"

var (
	// ErrRoomEmpty is returned when a command that requires a current
	// track is issued against an empty queue.
	ErrRoomEmpty = errors.New("queue is empty")

	// ErrOutOfRange is returned for an index outside [0, len(queue)).
	ErrOutOfRange = errors.New("index out of range")

	// ErrSessionNotFound is returned for operations against an unknown
	// sessionId.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStaleEpoch is returned when a readyToPlay or similar
	// epoch-scoped command arrives for a non-current epoch. Protocol
	// class: dropped silently by callers, logged at Warn.
	ErrStaleEpoch = errors.New("stale epoch")

	// ErrInvalidLatency is returned by the registry when a reported
	// round-trip time is negative or implies a latency outside
	// [0, 10000]ms (I5).
	ErrInvalidLatency = errors.New("invalid latency measurement")

	// ErrUnavailable is the Transient-class error returned by an audio
	// resolver when the upstream catalog/extractor cannot serve a
	// track right now.
	ErrUnavailable = errors.New("resolver unavailable")

	// ErrTimeout is the Transient-class error returned by an audio
	// resolver when the upstream call exceeded its deadline.
	ErrTimeout = errors.New("resolver timeout")

	// ErrInvariant marks a coordinator invariant violation. In a debug
	// build this is fatal (see internal/debugassert); in production it
	// is logged and the caller degrades locally (the Sync Ticker clamps
	// a negative virtual clock to 0). No snapshot restore is attempted.
	ErrInvariant = errors.New("coordinator invariant violated")
)
