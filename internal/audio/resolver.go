// Package audio implements the Audio URL Resolver external collaborator
// (SPEC_FULL.md §4.7): turning a track id into a short-lived, directly
// playable audio URL. Adapted from the teacher's
// internal/service/audio.ServiceAudio (catalog search via the YouTube
// Data API) plus a second adapter for the audio-extraction sidecar
// described by original_source/python-audio-service/app.py, which the
// distilled spec treats as opaque but which the original program
// actually implements as a small HTTP service.
package audio

import (
	"context"
	"time"

	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
)

// ResolvedAudio is what a Resolver returns for a track id: a direct,
// short-lived media URL plus enough metadata to drive the stream proxy
// and the client's pre-buffer step.
type ResolvedAudio struct {
	URL           string
	ContentType   string
	DurationSec   float64
	BitrateKbps   int
	ExpiresAfter  time.Duration
}

// Resolver resolves a track id to a playable audio URL. Implementations
// must map upstream failures onto syncjamerr.ErrUnavailable or
// syncjamerr.ErrTimeout (§7 Transient class) so a slow/failing resolver
// never blocks a state transition — only the requesting client's
// pre-buffer step fails, and the ready-timeout bounds the damage.
type Resolver interface {
	Resolve(ctx context.Context, trackID string) (ResolvedAudio, error)
}

// Catalog searches an external catalog (YouTube, ...) for candidate
// tracks. Kept as a separate interface from Resolver because not every
// resolver backs a searchable catalog (the extractor sidecar does not).
type Catalog interface {
	Search(ctx context.Context, query string, limit int64) ([]model.Track, error)
}
