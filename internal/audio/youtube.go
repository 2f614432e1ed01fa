package audio

import (
	"context"
	"fmt"
	"strings"

	"github.com/sosodev/duration"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
)

var (
	typeQuery      = "video"
	partID         = "id"
	partSnippet    = "snippet"
	partContentDet = "contentDetails"
)

// YouTubeCatalog implements Catalog against the YouTube Data API, kept
// from the teacher's service/audio.ServiceAudio with GetListVideo
// generalized into Search and returning model.Track instead of the
// teacher's dto.Video.
type YouTubeCatalog struct {
	youtube *youtube.Service
	limit   int64
}

// NewYouTubeCatalog constructs a YouTubeCatalog authenticated with an
// API key, defaulting result counts to limit (0 falls back to the
// YouTube API's own default).
func NewYouTubeCatalog(ctx context.Context, apiKey string, limit int64) (*YouTubeCatalog, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &YouTubeCatalog{youtube: svc, limit: limit}, nil
}

// Search queries YouTube for videos matching query and returns a Track
// per result, with duration resolved via a follow-up Videos.List call
// (search results alone carry no duration).
func (s *YouTubeCatalog) Search(ctx context.Context, query string, limit int64) ([]model.Track, error) {
	if limit <= 0 {
		limit = s.limit
	}

	searchCall := s.youtube.Search.List([]string{partID, partSnippet}).
		Q(query).Type(typeQuery).MaxResults(limit).Context(ctx)

	response, err := searchCall.Do()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(response.Items))
	for i, item := range response.Items {
		ids[i] = item.Id.VideoId
	}

	videoCall := s.youtube.Videos.List([]string{partContentDet}).Id(strings.Join(ids, ",")).Context(ctx)
	respVideo, err := videoCall.Do()
	if err != nil {
		return nil, err
	}

	durations := make(map[string]float64, len(respVideo.Items))
	for _, item := range respVideo.Items {
		d, err := duration.Parse(item.ContentDetails.Duration)
		if err != nil {
			return nil, err
		}
		durations[item.Id] = durationToSeconds(d)
	}

	tracks := make([]model.Track, len(response.Items))
	for i, item := range response.Items {
		tracks[i] = model.Track{
			ID:       item.Id.VideoId,
			Source:   "youtube",
			Duration: durations[item.Id.VideoId],
			Metadata: map[string]any{
				"title": item.Snippet.Title,
				"url":   fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id.VideoId),
			},
		}
	}
	return tracks, nil
}

func durationToSeconds(d *duration.Duration) float64 {
	return d.Seconds + d.Minutes*60 + d.Hours*3600
}
