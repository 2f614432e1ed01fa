// Package http_transport implements the admin/REST surface: catalog
// search, a read-only room state view, and the Stream Proxy collaborator
// (§4.7) that resolves a track id and pass-throughs the upstream audio
// byte range to the client. The room itself is driven entirely over
// WebSocket (transport/ws); this package only covers the surfaces that
// don't need a persistent connection. Adapted from the teacher's
// transport/http.Handler, trimmed from the teacher's room-CRUD set
// (CreateRoom/AddVideoInQueue/Seek/DeleteVideoInQueue/GetAllRoomsInfo)
// since this service runs a single room, not the teacher's per-request
// room registry.
package http_transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xGuatx/youtube-sync-multi-client/internal/audio"
	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/syncjamerr"
)

func parseLimit(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// Catalog searches an external track catalog. Satisfied by
// internal/audio.Catalog; declared locally so this package doesn't
// import audio directly.
type Catalog interface {
	Search(ctx context.Context, query string, limit int64) ([]model.Track, error)
}

// RoomStateProvider exposes a read-only view of the room, satisfied by
// *coordinator.Coordinator.
type RoomStateProvider interface {
	State() model.RoomState
}

// SessionCounter reports how many clients are currently attached,
// satisfied by *registry.Registry.
type SessionCounter interface {
	Count() int
}

// SnapshotHealth reports whether the persistence backend is reachable,
// satisfied by snapshot.Store.
type SnapshotHealth interface {
	Health(ctx context.Context) error
}

// Reloader broadcasts the admin forceReload event to every connected
// client, satisfied by *ws.Hub.
type Reloader interface {
	BroadcastReload()
}

// Resolver resolves a track id to a direct, short-lived media URL,
// satisfied by internal/audio.Resolver implementations (e.g.
// *audio.ExtractorResolver). StreamTrack is the Stream Proxy collaborator
// SPEC_FULL.md §4.7 describes: "HTTP byte-range pass-through from
// resolver URL to client".
type Resolver interface {
	Resolve(ctx context.Context, trackID string) (audio.ResolvedAudio, error)
}

// Handler serves the admin/REST endpoints.
type Handler struct {
	catalog  Catalog
	room     RoomStateProvider
	sessions SessionCounter
	snapshot SnapshotHealth
	reloader Reloader
	resolver Resolver
	client   *http.Client
}

// streamClientTimeout bounds how long StreamTrack waits on the upstream
// resolved URL; a hung CDN only fails that one request, never the
// coordinator (§7 Transient class).
const streamClientTimeout = 30 * time.Second

// NewHandler constructs a Handler. catalog may be nil if no searchable
// catalog backend is configured, in which case GetCatalog responds 503.
// resolver may be nil if no resolver backend is configured, in which
// case StreamTrack responds 503.
func NewHandler(catalog Catalog, room RoomStateProvider, sessions SessionCounter, snap SnapshotHealth, reloader Reloader, resolver Resolver) *Handler {
	return &Handler{
		catalog:  catalog,
		room:     room,
		sessions: sessions,
		snapshot: snap,
		reloader: reloader,
		resolver: resolver,
		client:   &http.Client{Timeout: streamClientTimeout},
	}
}

// GetCatalog handles GET /catalog?q=...&limit=... by delegating to the
// configured Catalog backend.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		WriteJsonError(w, http.StatusServiceUnavailable, "no catalog backend configured")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteJsonError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	limit := int64(10)
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := parseLimit(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	tracks, err := h.catalog.Search(r.Context(), query, limit)
	if err != nil {
		WriteJsonError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJson(w, http.StatusOK, tracks)
}

// GetState handles GET /state: a read-only snapshot of Room State,
// useful for debugging and monitoring without opening a WebSocket.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	WriteJson(w, http.StatusOK, h.room.State())
}

// healthPayload is the admin health report (SPEC_FULL.md §6: "a health
// endpoint reporting room size, play state, and snapshot-store health").
type healthPayload struct {
	Status        string     `json:"status"`
	RoomSize      int        `json:"roomSize"`
	Mode          model.Mode `json:"mode"`
	SnapshotStore string     `json:"snapshotStore"`
}

// Health handles GET /health: room size, play state, and snapshot-store
// health, matching the liveness-probe shape of the extraction sidecar's
// own /health endpoint but enriched with room-level detail.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	state := h.room.State()

	snapStatus := "ok"
	if h.snapshot != nil {
		if err := h.snapshot.Health(r.Context()); err != nil {
			snapStatus = "unavailable"
		}
	}

	roomSize := 0
	if h.sessions != nil {
		roomSize = h.sessions.Count()
	}

	WriteJson(w, http.StatusOK, healthPayload{
		Status:        "ok",
		RoomSize:      roomSize,
		Mode:          state.Mode,
		SnapshotStore: snapStatus,
	})
}

// Reload handles POST /reload: the admin broadcast endpoint (SPEC_FULL.md
// §6) that tells every connected client to reload its audio source.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	h.reloader.BroadcastReload()
	WriteJson(w, http.StatusOK, map[string]string{"status": "broadcast sent"})
}

// StreamTrack handles GET /stream/{trackID}: resolves the track id to a
// direct media URL via the configured Resolver and proxies the upstream
// response, forwarding the client's Range header through and the
// upstream's Content-Type/Content-Length/Content-Range/Accept-Ranges
// headers back verbatim (§4.7 Stream Proxy). A resolver failure only
// fails this one request; it never touches room state.
func (h *Handler) StreamTrack(w http.ResponseWriter, r *http.Request) {
	if h.resolver == nil {
		WriteJsonError(w, http.StatusServiceUnavailable, "no resolver backend configured")
		return
	}

	trackID := strings.TrimPrefix(r.URL.Path, "/stream/")
	if trackID == "" {
		WriteJsonError(w, http.StatusBadRequest, "track id is required")
		return
	}

	resolved, err := h.resolver.Resolve(r.Context(), trackID)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, syncjamerr.ErrTimeout) {
			status = http.StatusGatewayTimeout
		}
		WriteJsonError(w, status, err.Error())
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, resolved.URL, nil)
	if err != nil {
		WriteJsonError(w, http.StatusBadGateway, err.Error())
		return
	}
	if rng := r.Header.Get("Range"); rng != "" {
		req.Header.Set("Range", rng)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		WriteJsonError(w, http.StatusBadGateway, err.Error())
		return
	}
	defer resp.Body.Close()

	for _, header := range []string{"Content-Type", "Content-Length", "Content-Range", "Accept-Ranges"} {
		if v := resp.Header.Get(header); v != "" {
			w.Header().Set(header, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
