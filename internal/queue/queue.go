// Package queue implements the Queue & Track Model (SPEC_FULL.md §4.3):
// an ordered list of tracks with a currentIndex, mutated so that index
// correctness survives removal and reordering. Adapted from the
// teacher's Room.queue/currentIndex pair (internal/service/room.Room),
// generalized from the teacher's append-only queue into the full
// append/removeAt/reorder/jumpTo surface the coordinator needs.
package queue

import (
	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/syncjamerr"
)

// Queue holds the ordered tracks and the index of the current one. It is
// not safe for concurrent use; callers (the coordinator) serialize access
// through their own single-writer discipline, mirroring the teacher's
// Room which guards queue mutation with its own mutex one level up.
type Queue struct {
	tracks  []model.Track
	current int
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Tracks returns a copy of the underlying slice.
func (q *Queue) Tracks() []model.Track {
	out := make([]model.Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// Len returns the number of tracks.
func (q *Queue) Len() int { return len(q.tracks) }

// CurrentIndex returns the current index (0 when the queue is empty, I2).
func (q *Queue) CurrentIndex() int { return q.current }

// Current returns the track at the current index, if any.
func (q *Queue) Current() (model.Track, bool) {
	if len(q.tracks) == 0 || q.current < 0 || q.current >= len(q.tracks) {
		return model.Track{}, false
	}
	return q.tracks[q.current], true
}

// Append adds a track to the end of the queue.
func (q *Queue) Append(t model.Track) {
	q.tracks = append(q.tracks, t)
}

// RemoveResult describes the side effects of RemoveAt the coordinator
// must react to.
type RemoveResult struct {
	BecameEmpty    bool // queue is now empty: caller must pause and zero currentTime
	CurrentWrapped bool // removing the last track while current rewound to 0 (§4.3, §9)
	IndexShifted   bool // currentIndex moved because an earlier track was removed
}

// RemoveAt removes the track at i, applying the continuity rules in
// SPEC_FULL.md §4.3. Returns ErrOutOfRange if i is not a valid index.
func (q *Queue) RemoveAt(i int) (RemoveResult, error) {
	if i < 0 || i >= len(q.tracks) {
		return RemoveResult{}, syncjamerr.ErrOutOfRange
	}

	q.tracks = append(q.tracks[:i:i], q.tracks[i+1:]...)

	var res RemoveResult
	switch {
	case i < q.current:
		q.current--
		res.IndexShifted = true
	case i == q.current:
		if len(q.tracks) == 0 {
			q.current = 0
			res.BecameEmpty = true
		} else if q.current >= len(q.tracks) {
			// Removing the last track while it was current: rewind to
			// the first remaining track rather than clamping to the new
			// last index (§4.3, §9 — adopted reading of divergent
			// source behavior).
			q.current = 0
			res.CurrentWrapped = true
		}
		// else: currentIndex stays, now pointing at what was next.
	default:
		// i > q.current: no change.
	}
	return res, nil
}

// JumpTo moves currentIndex to i unconditionally, if in range.
func (q *Queue) JumpTo(i int) error {
	if i < 0 || i >= len(q.tracks) {
		return syncjamerr.ErrOutOfRange
	}
	q.current = i
	return nil
}

// Next moves to the next track. Returns false if there is no next track.
func (q *Queue) Next() bool {
	if q.current+1 >= len(q.tracks) {
		return false
	}
	q.current++
	return true
}

// Previous moves to the previous track. Returns false if already at the
// first track.
func (q *Queue) Previous() bool {
	if q.current <= 0 {
		return false
	}
	q.current--
	return true
}

// Reorder replaces the queue contents and current index wholesale, as
// requested by a client-supplied reorderQueue command. Per §9's
// hardening note this is intentionally naive: it trusts the caller's
// newIndex rather than re-deriving it from a previously-current track
// id, matching the source behavior the spec documents as a recommended
// but unspecified hardening step.
func (q *Queue) Reorder(tracks []model.Track, newIndex int) error {
	if len(tracks) > 0 && (newIndex < 0 || newIndex >= len(tracks)) {
		return syncjamerr.ErrOutOfRange
	}
	q.tracks = make([]model.Track, len(tracks))
	copy(q.tracks, tracks)
	if len(q.tracks) == 0 {
		q.current = 0
	} else {
		q.current = newIndex
	}
	return nil
}
