// Package mockapi is an in-memory double of the accessibility platform's
// REST API. It backs local development and the integration tests of the
// SDK, the session store and the CLI.
package mockapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/inclusive/pkg/cryptox"
	"github.com/aussiebroadwan/inclusive/pkg/httpx"
	"github.com/aussiebroadwan/inclusive/pkg/jwtx"
	"github.com/aussiebroadwan/inclusive/pkg/slogx"
)

// BuildVersion is reported by /livez.
const BuildVersion = "v0.1.0"

type Option func(*Server)

// WithHasher replaces the default Argon2id hasher, usually with cheaper
// parameters for tests.
func WithHasher(h *cryptox.Hasher) Option {
	return func(s *Server) { s.hasher = h }
}

// Server routes the API on a single ServeMux behind the request logger.
type Server struct {
	cfg    Config
	logger *slog.Logger

	users     *directory
	hasher    *cryptox.Hasher
	signer    *jwtx.HS256
	dummyHash string // compared against for unknown usernames
	startTime time.Time

	mux     *http.ServeMux
	handler http.Handler
}

func NewServer(cfg Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		users:     newDirectory(),
		startTime: time.Now(),
		mux:       http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.hasher == nil {
		pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load pepper: %w", err)
		}
		s.hasher = cryptox.NewHasher(pepper)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		var err error
		if secret, err = cryptox.GenerateToken(cryptox.TokenSize256); err != nil {
			return nil, err
		}
		logger.Warn("MOCKAPI_JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}
	signer, err := jwtx.NewHS256([]byte(secret), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise token signer: %w", err)
	}
	s.signer = signer

	if s.dummyHash, err = s.hasher.Hash("not-a-real-password"); err != nil {
		return nil, err
	}

	s.routes()
	s.handler = httpx.Chain(s.mux, slogx.HTTPMiddleware(logger))
	return s, nil
}

func (s *Server) routes() {
	authLimit := httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "username")
	authn := httpx.AuthnMiddleware(s.signer)
	settingsLimit := httpx.RateLimitBySubject(httpx.ModerateLimit)

	s.mux.Handle("POST /api/register", httpx.Chain(http.HandlerFunc(s.handleRegister), authLimit))
	s.mux.Handle("POST /api/login", httpx.Chain(http.HandlerFunc(s.handleLogin), authLimit))

	s.mux.Handle("GET /api/user/settings", httpx.Chain(http.HandlerFunc(s.handleGetSettings), authn, settingsLimit))
	s.mux.Handle("POST /api/user/settings", httpx.Chain(http.HandlerFunc(s.handleUpdateSettings), authn, settingsLimit))

	livez := s.handleLivez()
	s.mux.Handle("GET /livez", livez)
	s.mux.Handle("GET /api/livez", livez)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
