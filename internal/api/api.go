// Package api assembles the root HTTP router: the admin/REST handlers
// under /api/v1 and the WebSocket upgrade endpoint at /ws. Kept from the
// teacher's api.API/Method pattern, trimmed to this service's smaller
// route set.
package api

import (
	"net/http"

	http_transport "github.com/xGuatx/youtube-sync-multi-client/internal/transport/http"
	ws_transport "github.com/xGuatx/youtube-sync-multi-client/internal/transport/ws"
)

// API is the top-level http.Handler for the service.
type API struct {
	mux *http.ServeMux
}

// Deps wires the router's dependencies.
type Deps struct {
	HttpHandler *http_transport.Handler
	WsHandler   *ws_transport.Handler
}

// NewAPI builds the router.
func NewAPI(deps Deps) *API {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/catalog", Method(http.MethodGet, deps.HttpHandler.GetCatalog))
	apiMux.HandleFunc("/state", Method(http.MethodGet, deps.HttpHandler.GetState))
	apiMux.HandleFunc("/reload", Method(http.MethodPost, deps.HttpHandler.Reload))

	rootMux := http.NewServeMux()
	rootMux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiMux))
	rootMux.HandleFunc("/health", deps.HttpHandler.Health)
	rootMux.HandleFunc("/stream/", Method(http.MethodGet, deps.HttpHandler.StreamTrack))
	rootMux.Handle("/ws", deps.WsHandler)

	return &API{mux: rootMux}
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Method wraps handler so it only serves requests using method,
// responding 405 otherwise.
func Method(method string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
