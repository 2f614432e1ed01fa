// Package snapshot implements the Snapshot Store collaborator
// (SPEC_FULL.md §4.7): saving and restoring the restorable subset of room
// state (queue, currentIndex, mode, currentTime) across a coordinator
// restart. Sessions, epoch, and startWallMs are process-local and are
// never persisted (§9). Grounded on sharetube-server's convention of one
// Redis key per room; RedisStore stores a single JSON document under it.
package snapshot

import (
	"context"

	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
)

// Store persists and restores a room's Snapshot, keyed by room id.
type Store interface {
	Save(ctx context.Context, roomID string, snap model.Snapshot) error
	Load(ctx context.Context, roomID string) (model.Snapshot, bool, error)
	Delete(ctx context.Context, roomID string) error
	// Health reports whether the backing store is reachable, for the
	// admin health endpoint (SPEC_FULL.md §6). Absence of the store
	// entirely (NoopStore) is not a failure.
	Health(ctx context.Context) error
}

// NoopStore implements Store as a pure no-op: every Save is dropped and
// every Load reports nothing found. This is the default when no
// persistence backend is configured, matching the teacher's posture of
// keeping room state in memory only.
type NoopStore struct{}

func (NoopStore) Save(ctx context.Context, roomID string, snap model.Snapshot) error { return nil }

func (NoopStore) Load(ctx context.Context, roomID string) (model.Snapshot, bool, error) {
	return model.Snapshot{}, false, nil
}

func (NoopStore) Delete(ctx context.Context, roomID string) error { return nil }

func (NoopStore) Health(ctx context.Context) error { return nil }
