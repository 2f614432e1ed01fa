// Package config loads process configuration via envconfig, matching
// the teacher's internal/config.Config — generalized from the teacher's
// Youtube/Rest pair into the full set of backends SPEC_FULL.md's domain
// stack wires in: catalog/resolver backend selection and Redis
// persistence. Debug-mode invariant assertions are a build tag
// (internal/debugassert), not a config setting.
package config

// Config is the root configuration struct, populated by
// envconfig.Process("", &cfg) in cmd/server/main.go.
type Config struct {
	Youtube   Youtube
	Extractor Extractor
	Redis     Redis
	Rest      Rest
}

// Youtube configures the YouTube Data API-backed Catalog.
type Youtube struct {
	APIKey string `envconfig:"YOUTUBE_API_KEY"`
	Limit  int64  `envconfig:"YOUTUBE_LIMIT" default:"10"`
}

// Extractor configures the audio-extraction sidecar-backed Resolver.
type Extractor struct {
	BaseURL        string `envconfig:"EXTRACTOR_BASE_URL"`
	TimeoutSeconds int64  `envconfig:"EXTRACTOR_TIMEOUT_SECONDS" default:"8"`
}

// Redis configures the optional snapshot persistence backend. Address
// empty means run with the in-memory no-op store.
type Redis struct {
	Address   string `envconfig:"REDIS_ADDRESS"`
	Password  string `envconfig:"REDIS_PASSWORD"`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"syncjam:room:"`
}

// Rest configures the HTTP server, kept from the teacher verbatim.
type Rest struct {
	Address           string `envconfig:"ADDRESS" default:":8080"`
	ReadTimeout       int64  `envconfig:"READ_TIMEOUT" default:"10"`
	WriteTimeout      int64  `envconfig:"WRITE_TIMEOUT" default:"10"`
	ReadHeaderTimeout int64  `envconfig:"READ_HEADER_TIMEOUT" default:"5"`
	IdleTimeout       int64  `envconfig:"IDLE_TIMEOUT" default:"120"`
}
