package coordinator

import (
	"time"

	"github.com/xGuatx/youtube-sync-multi-client/internal/protocol"
)

func playPauseCooldown() time.Duration { return protocol.PlayPauseCooldown }

func preparePayload(trackIndex int, startTime float64, serverTs int64, epoch uint64) protocol.PreparePlaybackPayload {
	return protocol.PreparePlaybackPayload{
		TrackIndex:      trackIndex,
		StartTime:       startTime,
		ServerTimestamp: serverTs,
		Epoch:           epoch,
	}
}

func playerUpdatePayload(isPlaying bool, currentTime float64, startWallMs int64) protocol.PlayerUpdatePayload {
	return protocol.PlayerUpdatePayload{
		IsPlaying:   isPlaying,
		CurrentTime: currentTime,
		StartWallMs: startWallMs,
	}
}

func synchronizedPlayPayload(startTime float64, serverTs int64, epoch uint64) protocol.SynchronizedPlayPayload {
	return protocol.SynchronizedPlayPayload{
		StartTime:       startTime,
		ServerTimestamp: serverTs,
		IsPlaying:       true,
		Epoch:           epoch,
	}
}

func syncTimePayload(currentTime float64, trackIndex int, serverTs int64, epoch uint64) protocol.SyncTimePayload {
	return protocol.SyncTimePayload{
		CurrentTime:       currentTime,
		IsPlaying:         true,
		CurrentTrackIndex: trackIndex,
		ServerTimestamp:   serverTs,
		Epoch:             epoch,
	}
}
