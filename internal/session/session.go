// Package session owns the client's bearer token and the user it resolves
// to. It persists the token, restores it on start and keeps the
// Unauthenticated, Pending and Authenticated states consistent when calls
// overlap.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/inclusive/pkg/a11ysdk"
	"github.com/aussiebroadwan/inclusive/pkg/jwtx"
	"github.com/aussiebroadwan/inclusive/pkg/prefs"
)

// AuthAPI is the subset of the SDK client the session drives.
type AuthAPI interface {
	Register(ctx context.Context, req a11ysdk.RegisterRequest) (*a11ysdk.RegisterResponse, error)
	Login(ctx context.Context, creds a11ysdk.Credentials) (*a11ysdk.LoginResponse, error)
	FetchCurrentUser(ctx context.Context, token string) (*a11ysdk.User, error)
	UpdateSettings(ctx context.Context, token string, settings map[string]any) (*a11ysdk.SettingsResponse, error)
}

// TokenStore persists the raw token. Load returns nil with no error when
// nothing is stored; Clear on an empty store succeeds. store.Slot
// satisfies it.
type TokenStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, token []byte) error
	Clear(ctx context.Context) error
}

type State int

const (
	Unauthenticated State = iota
	// Pending holds a restored token whose user has not been fetched yet.
	Pending
	Authenticated
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithTokenExpiryCheck controls whether Hydrate discards a JWT whose exp
// has passed without asking the server. Enabled by default.
func WithTokenExpiryCheck(enabled bool) Option {
	return func(s *Store) { s.checkExpiry = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the session state machine. Hydrate and Logout take a sequence
// number when they start; Login takes one only when it commits. A result
// arriving after a newer sequence number was taken is dropped.
type Store struct {
	api         AuthAPI
	tokens      TokenStore
	logger      *slog.Logger
	checkExpiry bool
	now         func() time.Time

	// write serialises persist-then-commit against the sequence check.
	write sync.Mutex

	mu    sync.RWMutex
	seq   uint64
	state State
	token string
	user  *a11ysdk.User
}

func New(api AuthAPI, tokens TokenStore, opts ...Option) *Store {
	s := &Store{
		api:         api,
		tokens:      tokens,
		logger:      slog.Default(),
		checkExpiry: true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// begin claims the next sequence number, invalidating anything in flight.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

func (s *Store) latest() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

func (s *Store) current(seq uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq == seq
}

func (s *Store) set(state State, token string, user *a11ysdk.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, s.token, s.user = state, token, user
}

// Hydrate restores the persisted token and resolves its user. Any failure
// leaves the session Unauthenticated with the stored token removed; it
// never returns an error.
func (s *Store) Hydrate(ctx context.Context) State {
	seq := s.begin()

	raw, err := s.tokens.Load(ctx)
	if err != nil {
		s.logger.Warn("session: failed to read stored token", "err", err)
	}
	token := string(raw)

	if token == "" {
		s.write.Lock()
		if s.current(seq) {
			s.set(Unauthenticated, "", nil)
		}
		s.write.Unlock()
		return s.State()
	}

	if s.checkExpiry {
		if exp, ok := jwtx.ExpiresAt(token); ok && !s.now().Before(exp) {
			s.logger.Info("session: stored token expired, discarding", "expired_at", exp)
			s.discard(ctx, seq)
			return s.State()
		}
	}

	s.write.Lock()
	if !s.current(seq) {
		s.write.Unlock()
		return s.State()
	}
	s.set(Pending, token, nil)
	s.write.Unlock()

	user, err := s.api.FetchCurrentUser(ctx, token)
	if err != nil {
		s.logger.Warn("session: stored token rejected", "err", err)
		s.discard(ctx, seq)
		return s.State()
	}

	s.write.Lock()
	defer s.write.Unlock()
	if s.current(seq) {
		s.set(Authenticated, token, user)
	}
	return s.State()
}

// discard removes the stored token if seq is still the latest operation.
func (s *Store) discard(ctx context.Context, seq uint64) {
	s.write.Lock()
	defer s.write.Unlock()

	if !s.current(seq) {
		return
	}
	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Warn("session: failed to clear stored token", "err", err)
	}
	s.set(Unauthenticated, "", nil)
}

// Login authenticates, persists the token and stores token and user
// together. Server errors are returned unchanged and leave the session as
// it was, including a Hydrate still in flight.
func (s *Store) Login(ctx context.Context, creds a11ysdk.Credentials) (*a11ysdk.User, error) {
	seq := s.latest()

	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	s.write.Lock()
	defer s.write.Unlock()

	if !s.current(seq) {
		return nil, ErrSuperseded
	}
	if err := s.tokens.Save(ctx, []byte(resp.AccessToken)); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}

	user := resp.User
	s.mu.Lock()
	s.seq++
	s.state, s.token, s.user = Authenticated, resp.AccessToken, &user
	s.mu.Unlock()
	s.logger.Info("session: logged in", "user_id", user.ID, "username", user.Username)

	out := user
	return &out, nil
}

// Register validates the form locally and creates the account. It does
// not log in.
func (s *Store) Register(ctx context.Context, req a11ysdk.RegisterRequest) (*a11ysdk.RegisterResponse, error) {
	if fields := req.Validate(); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	return s.api.Register(ctx, req)
}

// RegisterAndLogin creates the account and then logs in with the same
// credentials.
func (s *Store) RegisterAndLogin(ctx context.Context, req a11ysdk.RegisterRequest) (*a11ysdk.User, error) {
	if _, err := s.Register(ctx, req); err != nil {
		return nil, err
	}
	return s.Login(ctx, a11ysdk.Credentials{Username: req.Username, Password: req.Password})
}

// Logout clears the token and user. It always succeeds; storage failures
// are logged.
func (s *Store) Logout(ctx context.Context) {
	seq := s.begin()

	s.write.Lock()
	defer s.write.Unlock()

	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Warn("session: failed to clear stored token", "err", err)
	}
	if s.current(seq) {
		s.set(Unauthenticated, "", nil)
	}
}

// SyncSettings pushes p to the server as the user's accessibility needs.
func (s *Store) SyncSettings(ctx context.Context, p prefs.Preferences) error {
	token := s.Token()
	if token == "" {
		return &a11ysdk.APIError{Kind: a11ysdk.KindUnauthenticated, Message: "No token found"}
	}

	if _, err := s.api.UpdateSettings(ctx, token, p.Map()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == token && s.user != nil {
		u := *s.user
		u.AccessibilityNeeds = p
		s.user = &u
	}
	return nil
}

// IsAuthenticated reports whether a token is held, including a Pending one.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser returns a copy of the resolved user, or nil.
func (s *Store) CurrentUser() *a11ysdk.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}
