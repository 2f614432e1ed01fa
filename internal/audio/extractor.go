package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/xGuatx/youtube-sync-multi-client/internal/syncjamerr"
)

// extractResponse mirrors the JSON body returned by the extraction
// sidecar's /extract/<video_id> endpoint.
type extractResponse struct {
	Success     bool    `json:"success"`
	URL         string  `json:"url"`
	Format      string  `json:"format"`
	DurationSec float64 `json:"duration"`
	Bitrate     int     `json:"bitrate"`
	Error       string  `json:"error"`
}

// ExtractorResolver implements Resolver against the standalone
// audio-extraction sidecar: an HTTP service wrapping yt-dlp that turns a
// video id into a direct, short-lived media URL.
type ExtractorResolver struct {
	baseURL string
	client  *http.Client
	ttl     time.Duration
}

// extractorURLTTL is how long a resolved URL is assumed playable before
// the upstream CDN invalidates it (SPEC_FULL.md §4.7: "expiresAfter ~=
// 5 min"). Callers must re-resolve rather than cache past this.
const extractorURLTTL = 5 * time.Minute

// NewExtractorResolver constructs an ExtractorResolver. A zero timeout
// defaults to 8s, matching the sidecar's own per-client subprocess
// timeout budget so a hung extraction is observed here first.
func NewExtractorResolver(baseURL string, timeout time.Duration) *ExtractorResolver {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &ExtractorResolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		ttl:     extractorURLTTL,
	}
}

// Resolve calls GET /extract/<trackID> and maps the sidecar's failure
// modes onto the Transient error class (§7): a 404 or success:false body
// means the track isn't extractable right now (ErrUnavailable), a
// client timeout means the sidecar is slow or hung (ErrTimeout), and any
// other network error means the sidecar is unreachable (ErrUnavailable).
// Either way a caller should treat the track as temporarily unplayable
// rather than fatal.
func (r *ExtractorResolver) Resolve(ctx context.Context, trackID string) (ResolvedAudio, error) {
	url := fmt.Sprintf("%s/extract/%s", r.baseURL, trackID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ResolvedAudio{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ResolvedAudio{}, syncjamerr.ErrTimeout
		}
		return ResolvedAudio{}, syncjamerr.ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ResolvedAudio{}, syncjamerr.ErrUnavailable
	}
	if resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout {
		return ResolvedAudio{}, syncjamerr.ErrTimeout
	}

	var body extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ResolvedAudio{}, syncjamerr.ErrUnavailable
	}
	if !body.Success || body.URL == "" {
		return ResolvedAudio{}, syncjamerr.ErrUnavailable
	}

	return ResolvedAudio{
		URL:          body.URL,
		ContentType:  body.Format,
		DurationSec:  body.DurationSec,
		BitrateKbps:  body.Bitrate,
		ExpiresAfter: r.ttl,
	}, nil
}
