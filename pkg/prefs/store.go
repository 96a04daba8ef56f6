package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Backend persists the serialised preferences. Load returns nil with no
// error when nothing has been stored yet.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Observer is called synchronously after every committed change, before
// the mutating call returns. Observers must not call Set, Reset or Replace.
type Observer func(Preferences)

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store owns the current preferences. Changes are persisted before they are
// applied, so a failed write leaves both memory and observers untouched.
type Store struct {
	backend Backend
	logger  *slog.Logger

	// write serialises persist-then-commit so saves land in call order.
	write sync.Mutex

	mu        sync.RWMutex
	current   Preferences
	observers map[int]Observer
	nextID    int
}

func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		logger:    slog.Default(),
		current:   Defaults(),
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current preferences with every key populated.
func (s *Store) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Hydrate loads the persisted preferences and merges them over Defaults.
// Corrupt data falls back to Defaults with a warning. A read failure is
// returned, and the store keeps Defaults.
func (s *Store) Hydrate(ctx context.Context) error {
	s.write.Lock()
	defer s.write.Unlock()

	data, err := s.backend.Load(ctx)
	if err != nil {
		s.commit(Defaults())
		return fmt.Errorf("load preferences: %w", err)
	}

	p, issues, err := Decode(data)
	if err != nil {
		s.logger.Warn("persisted preferences are corrupt, using defaults", "err", err)
	}
	for _, issue := range issues {
		s.logger.Warn("ignoring persisted preference", "err", issue)
	}

	s.commit(p)
	return nil
}

// Set changes a single key. Unknown keys and unacceptable values are
// rejected before anything is written.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	s.write.Lock()
	defer s.write.Unlock()

	next, err := s.Get().With(key, value)
	if err != nil {
		return err
	}

	if err := s.save(ctx, next); err != nil {
		return err
	}

	s.commit(next)
	return nil
}

// Reset restores the full default set.
func (s *Store) Reset(ctx context.Context) error {
	return s.Replace(ctx, Defaults())
}

// Replace swaps in a complete set of preferences, for example one pulled
// from the server. A set holding any out-of-range value is rejected and
// nothing changes.
func (s *Store) Replace(ctx context.Context, p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.write.Lock()
	defer s.write.Unlock()

	if err := s.save(ctx, p); err != nil {
		return err
	}

	s.commit(p)
	return nil
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) save(ctx context.Context, p Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.backend.Save(ctx, data); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// commit applies p and notifies observers outside the state lock, so an
// observer may read the store.
func (s *Store) commit(p Preferences) {
	s.mu.Lock()
	s.current = p
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(p)
	}
}
