package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
)

// snapshotTTL bounds how long a persisted snapshot survives without a
// fresh write (SPEC_FULL.md §4.7: "~24 h TTL"). A room that's been torn
// down for longer than this is not worth resuming from.
const snapshotTTL = 24 * time.Hour

// redisRecord is the JSON document stored per room. Snapshots are small
// and infrequent (one per ticker-driven persistence interval, never per
// command) so a single JSON blob per key is simpler than a hash with one
// field per struct field.
type redisRecord struct {
	Queue        []model.Track `json:"queue"`
	CurrentIndex int           `json:"currentIndex"`
	Mode         model.Mode    `json:"mode"`
	CurrentTime  float64       `json:"currentTime"`
}

// RedisStore implements Store against Redis via go-redis/v9.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore constructs a RedisStore. prefix namespaces keys (e.g.
// "syncjam:room:") so the same Redis instance can back other services.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "syncjam:room:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(roomID string) string {
	return fmt.Sprintf("%s%s", s.prefix, roomID)
}

func (s *RedisStore) Save(ctx context.Context, roomID string, snap model.Snapshot) error {
	rec := redisRecord{
		Queue:        snap.Queue,
		CurrentIndex: snap.CurrentIndex,
		Mode:         snap.Mode,
		CurrentTime:  snap.CurrentTime,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(roomID), data, snapshotTTL).Err()
}

func (s *RedisStore) Load(ctx context.Context, roomID string) (model.Snapshot, bool, error) {
	data, err := s.client.Get(ctx, s.key(roomID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Snapshot{}, false, nil
	}
	if err != nil {
		return model.Snapshot{}, false, err
	}

	var rec redisRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.Snapshot{}, false, err
	}
	return model.Snapshot{
		Queue:        rec.Queue,
		CurrentIndex: rec.CurrentIndex,
		Mode:         rec.Mode,
		CurrentTime:  rec.CurrentTime,
	}, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, roomID string) error {
	return s.client.Del(ctx, s.key(roomID)).Err()
}

func (s *RedisStore) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
