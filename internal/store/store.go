package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: not found")

// Keys under which the client persists its state. They match the names the
// web client used in browser storage so exported state stays recognisable.
const (
	KeyAccessToken = "access_token"
	KeySettings    = "accessibilitySettings"
)

// KV is the small key-value surface the session and preference stores need.
// Concrete drivers (sqlite, memory) implement it.
type KV interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set inserts or overwrites the value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Store is the root persistence interface handed to the application.
type Store interface {
	KV

	// Ping verifies the backing storage is still reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

// Slot binds a KV to a single key. It is the shape the session and
// preference stores persist through.
type Slot struct {
	kv  KV
	key string
}

func NewSlot(kv KV, key string) Slot {
	return Slot{kv: kv, key: key}
}

func (s Slot) Key() string { return s.key }

// Load returns the stored value, or nil with no error when nothing is stored.
func (s Slot) Load(ctx context.Context) ([]byte, error) {
	v, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s Slot) Save(ctx context.Context, value []byte) error {
	return s.kv.Set(ctx, s.key, value)
}

func (s Slot) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, s.key)
}
